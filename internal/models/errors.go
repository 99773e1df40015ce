package models

import "fmt"

// FetchError 抓取错误
// 表示重试次数耗尽后的传输层/HTTP层失败
type FetchError struct {
	// URL 失败的页面URL
	URL string

	// Attempts 已尝试次数
	Attempts int

	// Cause 最后一次尝试的底层错误
	Cause error
}

// Error 实现error接口
func (e *FetchError) Error() string {
	return fmt.Sprintf("抓取失败 [%s]: 重试%d次后仍然失败: %v", e.URL, e.Attempts, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ScraperError 结构性错误
// 表示页面结构不符合预期 (既没有分页信息也没有条目列表)
type ScraperError struct {
	// Reason 错误原因
	Reason string
}

// Error 实现error接口
func (e *ScraperError) Error() string {
	return fmt.Sprintf("页面结构错误: %s", e.Reason)
}

// ExtractionError 单条目提取错误
// 始终在页面提取器内部捕获,跳过该条目后继续,不会向外传播
type ExtractionError struct {
	// Index 条目在页面中的序号 (从0开始)
	Index int

	// Cause 底层错误
	Cause error
}

// Error 实现error接口
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("条目提取失败 [第%d条]: %v", e.Index, e.Cause)
}

// Unwrap 支持errors.Unwrap
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
