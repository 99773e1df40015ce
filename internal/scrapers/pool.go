package scrapers

import (
	"context"
	"sync"

	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// PageTask 处理单个页面的函数: 抓取并提取,返回该页的条目
type PageTask func(ctx context.Context, job models.PageJob) ([]models.Entry, error)

// WorkerPool 固定大小的页面处理worker池
// 职责: 将页面任务分发给固定数量的worker,按完成顺序输出结果。
// worker数量刻意保持较小(默认2)以避免触发站点限流;
// 单页失败转为带Err的结果,不会中止其他页面
type WorkerPool struct {
	workers int
	task    PageTask
}

// NewWorkerPool 创建worker池
func NewWorkerPool(workers int, task PageTask) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	return &WorkerPool{
		workers: workers,
		task:    task,
	}
}

// Run 并发处理所有页面任务
// 返回的channel按完成顺序(而非提交顺序)输出结果,
// 所有任务完成后channel关闭。页面间无顺序保证
func (p *WorkerPool) Run(ctx context.Context, jobs []models.PageJob) <-chan models.PageResult {
	jobCh := make(chan models.PageJob)
	results := make(chan models.PageResult, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobCh {
				utils.Debugf("Worker %d 处理第%d页: %s", workerID, job.Page, job.URL)

				entries, err := p.task(ctx, job)
				if err != nil {
					results <- models.PageResult{Job: job, Err: err}
					continue
				}
				results <- models.PageResult{Job: job, Entries: entries}
			}
		}(i)
	}

	// 投递任务
	go func() {
		defer close(jobCh)
		for _, job := range jobs {
			select {
			case <-ctx.Done():
				return
			case jobCh <- job:
			}
		}
	}()

	// 所有worker退出后关闭结果channel
	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
