package unit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/structme/eksi-sozluk-scraper/internal/config"
)

func TestHeaderConfigLoader_LoadConfig(t *testing.T) {
	t.Run("加载有效配置文件", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "headers.yaml")
		content := `headers:
  User-Agent: "TestBot/2.0"
  Accept-Language: "tr-TR"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		loader := config.NewHeaderConfigLoader(configPath)
		cfg, err := loader.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Headers["User-Agent"] != "TestBot/2.0" {
			t.Errorf("User-Agent = %v, want TestBot/2.0", cfg.Headers["User-Agent"])
		}
		if cfg.Headers["Accept-Language"] != "tr-TR" {
			t.Errorf("Accept-Language = %v, want tr-TR", cfg.Headers["Accept-Language"])
		}
	})

	t.Run("键名恢复HTTP规范形式", func(t *testing.T) {
		// YAML解析过程会把键折叠为小写,加载器必须恢复规范形式
		configPath := filepath.Join(t.TempDir(), "headers.yaml")
		content := `headers:
  user-agent: "LowerBot/1.0"
  ACCEPT-LANGUAGE: "tr-TR"
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		loader := config.NewHeaderConfigLoader(configPath)
		cfg, err := loader.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		if cfg.Headers["User-Agent"] != "LowerBot/1.0" {
			t.Errorf("User-Agent = %v, want LowerBot/1.0 (键应为规范形式)", cfg.Headers["User-Agent"])
		}
		if cfg.Headers["Accept-Language"] != "tr-TR" {
			t.Errorf("Accept-Language = %v, want tr-TR", cfg.Headers["Accept-Language"])
		}
	})

	t.Run("空配置文件", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "empty.yaml")
		if err := os.WriteFile(configPath, []byte(""), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		loader := config.NewHeaderConfigLoader(configPath)
		cfg, err := loader.LoadConfig()
		if err != nil {
			t.Fatalf("空配置文件应该可以加载, 得到错误: %v", err)
		}
		if cfg.Headers == nil {
			t.Error("空配置应该初始化Headers为空map")
		}
	})

	t.Run("配置文件不存在时自动生成模板", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "configs", "headers.yaml")

		loader := config.NewHeaderConfigLoader(configPath)
		cfg, err := loader.LoadConfig()
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}

		// 模板文件应被创建
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			t.Error("应自动生成配置模板文件")
		}

		// 模板中所有头部都是注释,解析结果为空
		if len(cfg.Headers) != 0 {
			t.Errorf("模板配置不应包含有效头部, 实际: %v", cfg.Headers)
		}
	})

	t.Run("非法YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "broken.yaml")
		if err := os.WriteFile(configPath, []byte("headers: [:::"), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		loader := config.NewHeaderConfigLoader(configPath)
		if _, err := loader.LoadConfig(); err == nil {
			t.Error("非法YAML应返回错误")
		}
	})
}

func TestHeaderConfigLoader_ValidateFileSize(t *testing.T) {
	t.Run("正常大小通过", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "small.yaml")
		if err := os.WriteFile(configPath, []byte("headers: {}\n"), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		loader := config.NewHeaderConfigLoader(configPath)
		if err := loader.ValidateFileSize(); err != nil {
			t.Errorf("正常大小的文件应通过验证: %v", err)
		}
	})

	t.Run("超大文件被拒绝", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "huge.yaml")
		huge := "# " + strings.Repeat("x", config.MaxConfigFileSize)
		if err := os.WriteFile(configPath, []byte(huge), 0644); err != nil {
			t.Fatalf("写入配置文件失败: %v", err)
		}

		loader := config.NewHeaderConfigLoader(configPath)
		if err := loader.ValidateFileSize(); err == nil {
			t.Error("超过大小限制的文件应被拒绝")
		}
	})
}
