package models

import (
	"encoding/json"
	"time"
)

// ScrapeReport 抓取报告
type ScrapeReport struct {
	// 任务信息
	TaskID   string `json:"task_id"`
	TopicURL string `json:"topic_url"`
	Domain   string `json:"domain"`

	// 时间信息
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Duration  float64   `json:"duration"` // 秒

	// 统计信息
	Stats ScrapeStats `json:"stats"`

	// 失败页面列表
	FailedPages []FailedPageInfo `json:"failed_pages"`

	// 输出路径
	OutputFile string `json:"output_file"` // CSV输出文件
	ReportDir  string `json:"report_dir"`  // 报告目录

	// 配置快照
	Config ScrapeConfig `json:"config"`
}

// FailedPageInfo 失败页面信息
type FailedPageInfo struct {
	Page     int    `json:"page"`
	URL      string `json:"url"`
	ErrorMsg string `json:"error_msg"`
}

// ToJSON 序列化为JSON
func (r *ScrapeReport) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// FromJSON 从JSON反序列化
func (r *ScrapeReport) FromJSON(data []byte) error {
	return json.Unmarshal(data, r)
}
