package models

import "fmt"

// PageJob 表示待抓取的单个页面
// 用途:
//   - 在worker pool的channel中传递页面信息
//   - 构建后不再修改
type PageJob struct {
	// Page 1开始的页码
	Page int

	// URL 该页的完整URL (含 ?p=N 参数)
	URL string
}

// BuildPageJobs 根据话题URL和总页数生成完整的页面列表
// 注意: 第1页也会重新抓取,不复用探测请求的结果,
// 保证每一页都经过同样的限速/重试流程
func BuildPageJobs(topicURL string, pageCount int) []PageJob {
	jobs := make([]PageJob, 0, pageCount)
	for p := 1; p <= pageCount; p++ {
		jobs = append(jobs, PageJob{
			Page: p,
			URL:  fmt.Sprintf("%s?p=%d", topicURL, p),
		})
	}
	return jobs
}

// PageResult 单个页面的抓取结果
// Err非空时Entries为空,该页贡献0条记录,不影响其他页面
type PageResult struct {
	// Job 对应的页面任务
	Job PageJob

	// Entries 从该页提取的条目列表 (可能为空)
	Entries []Entry

	// Err 页面级错误 (抓取或解析失败)
	Err error
}
