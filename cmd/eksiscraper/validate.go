package main

import (
	"fmt"
	"net/url"

	"github.com/structme/eksi-sozluk-scraper/internal/core"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
)

// ValidateURL 验证URL格式
func ValidateURL(urlStr string) error {
	return models.ValidateURL(urlStr)
}

// ValidateFlags 验证合并后的抓取配置和命令行标志
func ValidateFlags(config *core.Config, urlFile string) error {
	if err := config.Scrape.Validate(); err != nil {
		return fmt.Errorf("抓取配置无效: %w", err)
	}

	if urlFile != "" {
		if err := ValidateURLFile(urlFile); err != nil {
			return err
		}
	}

	return nil
}

// ValidateURLFile 验证URL文件路径
func ValidateURLFile(filepath string) error {
	if filepath == "" {
		return fmt.Errorf("URL文件路径不能为空")
	}
	// 文件存在性检查将在运行时进行
	return nil
}

// NormalizeURL 规范化URL
func NormalizeURL(urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	// 如果没有协议,默认使用https
	if parsed.Scheme == "" {
		urlStr = "https://" + urlStr
		parsed, err = url.Parse(urlStr)
		if err != nil {
			return "", err
		}
	}

	return parsed.String(), nil
}
