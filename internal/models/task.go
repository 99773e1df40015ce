package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// TaskStatus 任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"   // 待执行
	TaskStatusRunning   TaskStatus = "running"   // 执行中
	TaskStatusCompleted TaskStatus = "completed" // 已完成
	TaskStatusFailed    TaskStatus = "failed"    // 失败
)

// ScrapeStats 抓取统计
type ScrapeStats struct {
	TotalPages   int     `json:"total_pages"`   // 解析出的总页数
	SuccessPages int     `json:"success_pages"` // 成功抓取的页数
	FailedPages  int     `json:"failed_pages"`  // 失败的页数
	TotalEntries int     `json:"total_entries"` // 收集的条目总数
	Duration     float64 `json:"duration"`      // 总耗时(秒)
}

// ScrapeConfig 抓取配置
type ScrapeConfig struct {
	MaxRetries      int     `json:"max_retries" mapstructure:"max_retries"`           // 单页最大尝试次数 (默认:3)
	Workers         int     `json:"workers" mapstructure:"workers"`                   // 并发worker数 (默认:2,刻意较小以避免触发站点限流)
	MinDelay        float64 `json:"min_delay" mapstructure:"min_delay"`               // 每次请求前随机延迟下限(秒) (默认:2)
	MaxDelay        float64 `json:"max_delay" mapstructure:"max_delay"`               // 每次请求前随机延迟上限(秒) (默认:5)
	RequestTimeout  int     `json:"request_timeout" mapstructure:"request_timeout"`   // 单次HTTP请求超时(秒) (默认:30)
	RateLimit       float64 `json:"rate_limit" mapstructure:"rate_limit"`             // 全局请求速率上限(次/秒) (默认:0.5)
	BrowserFallback bool    `json:"browser_fallback" mapstructure:"browser_fallback"` // 遇到反爬挑战时是否启用浏览器兜底 (默认:true)
}

// Validate 验证配置
func (c *ScrapeConfig) Validate() error {
	if c.MaxRetries < 1 || c.MaxRetries > 10 {
		return fmt.Errorf("重试次数必须在1-10之间")
	}
	if c.Workers < 1 || c.Workers > 16 {
		return fmt.Errorf("并发数必须在1-16之间")
	}
	if c.MinDelay < 0 || c.MaxDelay < c.MinDelay {
		return fmt.Errorf("延迟区间无效: [%.1f, %.1f]", c.MinDelay, c.MaxDelay)
	}
	if c.RequestTimeout < 1 || c.RequestTimeout > 300 {
		return fmt.Errorf("请求超时必须在1-300秒之间")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("速率上限必须大于0")
	}
	return nil
}

// ScrapeTask 单个话题的抓取任务
type ScrapeTask struct {
	// 基本信息
	ID          string     `json:"id"`                     // 任务唯一ID (UUID)
	TopicURL    string     `json:"topic_url"`              // 话题URL (已去除query参数)
	Domain      string     `json:"domain"`                 // 解析的域名
	CreatedAt   time.Time  `json:"created_at"`             // 创建时间
	StartedAt   *time.Time `json:"started_at,omitempty"`   // 开始时间
	CompletedAt *time.Time `json:"completed_at,omitempty"` // 完成时间

	// 配置快照
	Config ScrapeConfig `json:"config"`

	// 执行状态
	Status TaskStatus `json:"status"`

	// 统计信息
	Stats ScrapeStats `json:"stats"`

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"`
}

// NewScrapeTask 创建新任务
func NewScrapeTask(topicURL string, config ScrapeConfig) (*ScrapeTask, error) {
	if err := ValidateURL(topicURL); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	parsed, _ := url.Parse(topicURL)

	return &ScrapeTask{
		ID:        generateID(),
		TopicURL:  topicURL,
		Domain:    parsed.Host,
		CreatedAt: time.Now(),
		Config:    config,
		Status:    TaskStatusPending,
		Stats:     ScrapeStats{},
	}, nil
}

// ToJSON 序列化为JSON
func (t *ScrapeTask) ToJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// FromJSON 从JSON反序列化
func (t *ScrapeTask) FromJSON(data []byte) error {
	return json.Unmarshal(data, t)
}
