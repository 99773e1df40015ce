package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
)

// Config 应用程序配置
type Config struct {
	Scrape  models.ScrapeConfig `mapstructure:"scrape"`
	Logging LoggingConfig       `mapstructure:"logging"`
	Output  OutputConfig        `mapstructure:"output"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	File      string `mapstructure:"file"`       // CSV输出文件 (工作目录下固定文件名)
	ReportDir string `mapstructure:"report_dir"` // JSON报告目录
}

// LoadConfig 加载配置文件
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		// 使用指定的配置文件
		v.SetConfigFile(configPath)
	} else {
		// 搜索默认位置
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath("./configs")
		v.AddConfigPath(".")

		// 用户主目录
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".eksiscraper"))
		}
	}

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 配置文件不存在时使用默认值
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// 抓取配置默认值
	v.SetDefault("scrape.max_retries", 3)
	v.SetDefault("scrape.workers", 2)
	v.SetDefault("scrape.min_delay", 2.0)
	v.SetDefault("scrape.max_delay", 5.0)
	v.SetDefault("scrape.request_timeout", 30)
	v.SetDefault("scrape.rate_limit", 0.5)
	v.SetDefault("scrape.browser_fallback", true)

	// 日志配置默认值
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size", 10)
	v.SetDefault("logging.rotation.max_backups", 3)
	v.SetDefault("logging.rotation.max_age", 28)
	v.SetDefault("logging.rotation.compress", true)

	// 输出配置默认值
	v.SetDefault("output.file", "entries.csv")
	v.SetDefault("output.report_dir", "reports")
}

// MergeCLIFlags 合并命令行参数到配置
// 命令行参数优先于配置文件
func (c *Config) MergeCLIFlags(maxRetries int, workers int, outputFile string) {
	if maxRetries > 0 {
		c.Scrape.MaxRetries = maxRetries
	}
	if workers > 0 {
		c.Scrape.Workers = workers
	}
	if outputFile != "" {
		c.Output.File = outputFile
	}
}
