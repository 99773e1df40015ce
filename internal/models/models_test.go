package models

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"有效的HTTP URL", "http://eksisozluk.com/some-topic--123456", false},
		{"有效的HTTPS URL", "https://eksisozluk.com/some-topic--123456", false},
		{"带query参数的URL", "https://eksisozluk.com/some-topic--123456?a=popular", false},
		{"无效的协议", "ftp://eksisozluk.com", true},
		{"无效的URL", "not a url", true},
		{"空URL", "", true},
		{"无协议", "eksisozluk.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStripQuery(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"无query参数", "https://eksisozluk.com/topic--1", "https://eksisozluk.com/topic--1"},
		{"有query参数", "https://eksisozluk.com/topic--1?p=3", "https://eksisozluk.com/topic--1"},
		{"多个query参数", "https://eksisozluk.com/topic--1?p=3&a=popular", "https://eksisozluk.com/topic--1"},
		{"带fragment", "https://eksisozluk.com/topic--1#entry-5", "https://eksisozluk.com/topic--1"},
		{"空字符串", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripQuery(tt.url); got != tt.want {
				t.Errorf("StripQuery() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScrapeConfig_Validate(t *testing.T) {
	valid := ScrapeConfig{
		MaxRetries:     3,
		Workers:        2,
		MinDelay:       2.0,
		MaxDelay:       5.0,
		RequestTimeout: 30,
		RateLimit:      0.5,
	}

	tests := []struct {
		name    string
		mutate  func(c *ScrapeConfig)
		wantErr bool
	}{
		{"有效配置", func(c *ScrapeConfig) {}, false},
		{"重试次数过小", func(c *ScrapeConfig) { c.MaxRetries = 0 }, true},
		{"重试次数过大", func(c *ScrapeConfig) { c.MaxRetries = 11 }, true},
		{"并发数过小", func(c *ScrapeConfig) { c.Workers = 0 }, true},
		{"并发数过大", func(c *ScrapeConfig) { c.Workers = 17 }, true},
		{"延迟区间倒置", func(c *ScrapeConfig) { c.MinDelay = 5.0; c.MaxDelay = 2.0 }, true},
		{"负延迟", func(c *ScrapeConfig) { c.MinDelay = -1.0 }, true},
		{"超时过大", func(c *ScrapeConfig) { c.RequestTimeout = 301 }, true},
		{"速率为零", func(c *ScrapeConfig) { c.RateLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			tt.mutate(&config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewEntry_Defaults(t *testing.T) {
	tests := []struct {
		name          string
		author        string
		content       string
		date          string
		favorites     string
		wantAuthor    string
		wantContent   string
		wantDate      string
		wantFavorites string
	}{
		{
			name:   "全部字段存在",
			author: "yazar", content: "içerik", date: "01.01.2024", favorites: "42",
			wantAuthor: "yazar", wantContent: "içerik", wantDate: "01.01.2024", wantFavorites: "42",
		},
		{
			name:   "作者缺失",
			author: "", content: "içerik", date: "01.01.2024", favorites: "42",
			wantAuthor: DefaultAuthor, wantContent: "içerik", wantDate: "01.01.2024", wantFavorites: "42",
		},
		{
			name:   "正文缺失",
			author: "yazar", content: "", date: "01.01.2024", favorites: "42",
			wantAuthor: "yazar", wantContent: DefaultContent, wantDate: "01.01.2024", wantFavorites: "42",
		},
		{
			name:   "日期缺失",
			author: "yazar", content: "içerik", date: "", favorites: "42",
			wantAuthor: "yazar", wantContent: "içerik", wantDate: DefaultDate, wantFavorites: "42",
		},
		{
			name:   "收藏数缺失",
			author: "yazar", content: "içerik", date: "01.01.2024", favorites: "",
			wantAuthor: "yazar", wantContent: "içerik", wantDate: "01.01.2024", wantFavorites: DefaultFavorites,
		},
		{
			name:   "全部字段缺失",
			author: "", content: "", date: "", favorites: "",
			wantAuthor: DefaultAuthor, wantContent: DefaultContent, wantDate: DefaultDate, wantFavorites: DefaultFavorites,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewEntry(tt.author, tt.content, tt.date, tt.favorites)
			if entry.Author != tt.wantAuthor {
				t.Errorf("Author = %v, want %v", entry.Author, tt.wantAuthor)
			}
			if entry.Content != tt.wantContent {
				t.Errorf("Content = %v, want %v", entry.Content, tt.wantContent)
			}
			if entry.Date != tt.wantDate {
				t.Errorf("Date = %v, want %v", entry.Date, tt.wantDate)
			}
			if entry.Favorites != tt.wantFavorites {
				t.Errorf("Favorites = %v, want %v", entry.Favorites, tt.wantFavorites)
			}
		})
	}
}

func TestBuildPageJobs(t *testing.T) {
	jobs := BuildPageJobs("https://eksisozluk.com/topic--1", 3)

	if len(jobs) != 3 {
		t.Fatalf("任务数量 = %d, want 3", len(jobs))
	}

	wantURLs := []string{
		"https://eksisozluk.com/topic--1?p=1",
		"https://eksisozluk.com/topic--1?p=2",
		"https://eksisozluk.com/topic--1?p=3",
	}
	for i, job := range jobs {
		if job.Page != i+1 {
			t.Errorf("jobs[%d].Page = %d, want %d", i, job.Page, i+1)
		}
		if job.URL != wantURLs[i] {
			t.Errorf("jobs[%d].URL = %v, want %v", i, job.URL, wantURLs[i])
		}
	}
}

func TestBuildPageJobs_SinglePage(t *testing.T) {
	jobs := BuildPageJobs("https://eksisozluk.com/topic--1", 1)

	if len(jobs) != 1 {
		t.Fatalf("任务数量 = %d, want 1", len(jobs))
	}
	// 单页话题第一页仍会带p=1重新请求
	if jobs[0].URL != "https://eksisozluk.com/topic--1?p=1" {
		t.Errorf("URL = %v, want 带p=1的URL", jobs[0].URL)
	}
}

func TestFetchError(t *testing.T) {
	cause := errors.New("HTTP 503")
	fetchErr := &FetchError{
		URL:      "https://eksisozluk.com/topic--1?p=2",
		Attempts: 3,
		Cause:    cause,
	}

	if !errors.Is(fetchErr, cause) {
		t.Error("FetchError应该能unwrap到底层错误")
	}

	msg := fetchErr.Error()
	if !strings.Contains(msg, "topic--1?p=2") {
		t.Errorf("错误信息应包含URL: %v", msg)
	}
	if !strings.Contains(msg, "3") {
		t.Errorf("错误信息应包含尝试次数: %v", msg)
	}
}

func TestScraperError(t *testing.T) {
	scraperErr := &ScraperError{Reason: "未找到条目或分页信息"}
	if !strings.Contains(scraperErr.Error(), "未找到条目或分页信息") {
		t.Errorf("错误信息应包含原因: %v", scraperErr.Error())
	}
}

func TestNewScrapeTask(t *testing.T) {
	config := ScrapeConfig{
		MaxRetries:     3,
		Workers:        2,
		MinDelay:       2.0,
		MaxDelay:       5.0,
		RequestTimeout: 30,
		RateLimit:      0.5,
	}

	task, err := NewScrapeTask("https://eksisozluk.com/some-topic--123456", config)
	if err != nil {
		t.Fatalf("NewScrapeTask() error = %v", err)
	}

	if task.ID == "" {
		t.Error("任务ID不应为空")
	}
	if task.Domain != "eksisozluk.com" {
		t.Errorf("Domain = %v, want eksisozluk.com", task.Domain)
	}
	if task.Status != TaskStatusPending {
		t.Errorf("Status = %v, want %v", task.Status, TaskStatusPending)
	}
}

func TestScrapeTask_JSON(t *testing.T) {
	config := ScrapeConfig{
		MaxRetries:     3,
		Workers:        2,
		MinDelay:       2.0,
		MaxDelay:       5.0,
		RequestTimeout: 30,
		RateLimit:      0.5,
	}

	task, err := NewScrapeTask("https://eksisozluk.com/some-topic--123456", config)
	if err != nil {
		t.Fatalf("NewScrapeTask() error = %v", err)
	}

	jsonData, err := task.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded ScrapeTask
	if err := decoded.FromJSON(jsonData); err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}

	if decoded.ID != task.ID {
		t.Errorf("解码后的ID不匹配: got %v, want %v", decoded.ID, task.ID)
	}
	if decoded.TopicURL != task.TopicURL {
		t.Errorf("解码后的TopicURL不匹配: got %v, want %v", decoded.TopicURL, task.TopicURL)
	}
}

func TestParseHeaderString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{"标准格式", "User-Agent: MyBot/1.0", "User-Agent", "MyBot/1.0", false},
		{"值中包含冒号", "Referer: https://eksisozluk.com", "Referer", "https://eksisozluk.com", false},
		{"无冒号", "InvalidHeader", "", "", true},
		{"空名称", ": value", "", "", true},
		{"空字符串", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, err := parseHeaderString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseHeaderString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if name != tt.wantName || value != tt.wantValue {
				t.Errorf("parseHeaderString() = (%v, %v), want (%v, %v)", name, value, tt.wantName, tt.wantValue)
			}
		})
	}
}
