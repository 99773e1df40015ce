package models

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ValidateURL 验证URL
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("无效的URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL必须是HTTP或HTTPS协议")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL必须包含主机名")
	}
	return nil
}

// StripQuery 去除URL中的query参数和fragment
// https://example.com/thread?p=5 与 https://example.com/thread 视为同一话题
func StripQuery(urlStr string) string {
	if idx := strings.IndexAny(urlStr, "?#"); idx != -1 {
		return urlStr[:idx]
	}
	return urlStr
}

// generateID 生成唯一ID
func generateID() string {
	return uuid.New().String()
}
