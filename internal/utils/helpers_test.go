package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入临时文件失败: %v", err)
	}
	return path
}

func TestReadURLsFromFile(t *testing.T) {
	content := `# Ekşi Sözlük话题列表
https://eksisozluk.com/topic-a--1

# 注释行
https://eksisozluk.com/topic-b--2
gecersiz-url
https://eksisozluk.com/topic-c--3
`

	urls, err := ReadURLsFromFile(writeTempFile(t, content))
	if err != nil {
		t.Fatalf("ReadURLsFromFile() error = %v", err)
	}

	want := []string{
		"https://eksisozluk.com/topic-a--1",
		"https://eksisozluk.com/topic-b--2",
		"https://eksisozluk.com/topic-c--3",
	}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("ReadURLsFromFile() = %v, want %v", urls, want)
	}
}

func TestReadURLsFromFile_NoValidURLs(t *testing.T) {
	content := `# 只有注释
gecersiz
`
	if _, err := ReadURLsFromFile(writeTempFile(t, content)); err == nil {
		t.Error("没有有效URL时应返回错误")
	}
}

func TestReadURLsFromFile_MissingFile(t *testing.T) {
	if _, err := ReadURLsFromFile("/nonexistent/urls.txt"); err == nil {
		t.Error("文件不存在时应返回错误")
	}
}

func TestHeaderRedactor(t *testing.T) {
	redactor := NewHeaderRedactor()

	tests := []struct {
		name      string
		header    string
		sensitive bool
	}{
		{"Cookie敏感", "Cookie", true},
		{"Authorization敏感", "Authorization", true},
		{"API密钥敏感", "X-Api-Key", true},
		{"User-Agent不敏感", "User-Agent", false},
		{"Accept-Language不敏感", "Accept-Language", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactor.IsSensitiveHeader(tt.header); got != tt.sensitive {
				t.Errorf("IsSensitiveHeader(%s) = %v, want %v", tt.header, got, tt.sensitive)
			}
		})
	}
}

func TestHeaderRedactor_RedactHeaderValue(t *testing.T) {
	redactor := NewHeaderRedactor()

	tests := []struct {
		name   string
		header string
		value  string
		want   string
	}{
		{"Bearer令牌", "Authorization", "Bearer abc123def456", "Bearer ***"},
		{"长cookie", "Cookie", "session=abcdefghij", "sess***ghij"},
		{"短密钥", "X-Token", "abc", "***"},
		{"非敏感原样返回", "User-Agent", "Mozilla/5.0", "Mozilla/5.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactor.RedactHeaderValue(tt.header, tt.value); got != tt.want {
				t.Errorf("RedactHeaderValue() = %v, want %v", got, tt.want)
			}
		})
	}
}
