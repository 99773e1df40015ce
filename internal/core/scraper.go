package core

import (
	"context"
	"fmt"
	"time"

	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/scrapers"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// Scraper 话题抓取协调器
// 执行流程: 探测第1页 → 解析总页数 → 生成页面列表 →
// worker池并发抓取 → 合并条目 → 导出CSV + 生成报告
type Scraper struct {
	config    *Config
	topicURL  string // 已去除query参数
	task      *models.ScrapeTask
	fetcher   *scrapers.Fetcher
	browser   *scrapers.BrowserClient // 可能为nil (兜底禁用时)

	// 收集结果,只由收集goroutine写入
	collected   []models.Entry
	failedPages []models.FailedPageInfo
}

// NewScraper 创建话题抓取器
// 输入URL的query参数会被去除: .../thread?p=5 与 .../thread 是同一话题
func NewScraper(topicURL string, cfg *Config, headerProvider models.HeaderProvider) (*Scraper, error) {
	topicURL = models.StripQuery(topicURL)

	task, err := models.NewScrapeTask(topicURL, cfg.Scrape)
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.Scrape.RequestTimeout) * time.Second
	static := scrapers.NewStaticClient(timeout, headerProvider)

	// 浏览器兜底 (惰性启动,无挑战页时不产生开销)
	var browser *scrapers.BrowserClient
	var browserFetch scrapers.FetchClient
	if cfg.Scrape.BrowserFallback {
		browser = scrapers.NewBrowserClient(true, 3*time.Second, headerProvider)
		browserFetch = browser
	}

	client := scrapers.NewAntiBotClient(static, browserFetch, scrapers.NewResourceGate())

	return &Scraper{
		config:   cfg,
		topicURL: topicURL,
		task:     task,
		fetcher:  scrapers.NewFetcher(client, cfg.Scrape),
		browser:  browser,
	}, nil
}

// Run 执行抓取任务
// 仅有两种运行级致命情况: 第1页探测失败(无法得知页面集合),
// 以及所有页面处理完后条目总数为0
func (s *Scraper) Run(ctx context.Context) error {
	startTime := time.Now()
	now := time.Now()
	s.task.StartedAt = &now
	s.task.Status = models.TaskStatusRunning

	utils.Infof("🚀 开始抓取话题")
	utils.Infof("话题URL: %s", s.topicURL)
	utils.Infof("并发worker数: %d", s.config.Scrape.Workers)
	utils.Infof("单页最大尝试次数: %d", s.config.Scrape.MaxRetries)

	// 探测第1页并解析总页数
	pageCount, err := s.resolvePageCount(ctx)
	if err != nil {
		utils.Errorf("初始化抓取失败: %v", err)
		s.fail(err)
		return fmt.Errorf("初始化抓取失败: %w", err)
	}

	s.task.Stats.TotalPages = pageCount
	utils.Infof("发现 %d 页待抓取", pageCount)

	// 第1页不复用探测结果,和其他页一样走完整的限速/重试流程
	jobs := models.BuildPageJobs(s.topicURL, pageCount)

	s.runPool(ctx, jobs)

	s.task.Stats.TotalEntries = len(s.collected)
	s.task.Stats.Duration = time.Since(startTime).Seconds()

	if len(s.collected) == 0 {
		err := fmt.Errorf("未收集到任何条目")
		utils.Errorf("未收集到任何条目 (共%d页, 失败%d页)", pageCount, s.task.Stats.FailedPages)
		s.fail(err)
		return err
	}

	// 导出CSV
	exporter := utils.NewCSVExporter(s.config.Output.File)
	if err := exporter.Export(s.collected); err != nil {
		s.fail(err)
		return err
	}

	// 生成JSON报告 (失败不影响任务结果)
	if err := s.writeReport(startTime); err != nil {
		utils.Warnf("生成报告失败: %v", err)
	}

	done := time.Now()
	s.task.CompletedAt = &done
	s.task.Status = models.TaskStatusCompleted

	utils.Infof("✅ 抓取任务完成")
	utils.Infof("成功页数: %d/%d", s.task.Stats.SuccessPages, s.task.Stats.TotalPages)
	utils.Infof("条目总数: %d", s.task.Stats.TotalEntries)
	utils.Infof("总耗时: %.2f秒", s.task.Stats.Duration)

	return nil
}

// resolvePageCount 抓取第1页并解析话题总页数
// 此处的失败对整个运行是致命的: 页面集合未知,无事可做
func (s *Scraper) resolvePageCount(ctx context.Context) (int, error) {
	doc, err := s.fetcher.FetchDocument(ctx, s.topicURL)
	if err != nil {
		return 0, err
	}
	return scrapers.ResolvePageCount(doc)
}

// runPool 通过worker池并发处理所有页面,按完成顺序合并结果
// 单页失败只记录日志和统计,贡献0条记录,不中止其他页面;
// collected只由本方法(单个收集goroutine)写入
func (s *Scraper) runPool(ctx context.Context, jobs []models.PageJob) {
	bar := utils.NewProgressBar(len(jobs), "抓取页面")
	pool := scrapers.NewWorkerPool(s.config.Scrape.Workers, s.scrapePage)
	failedPages := make([]models.FailedPageInfo, 0)

	for result := range pool.Run(ctx, jobs) {
		if result.Err != nil {
			utils.Errorf("第%d页处理失败 [%s]: %v", result.Job.Page, result.Job.URL, result.Err)
			s.task.Stats.FailedPages++
			failedPages = append(failedPages, models.FailedPageInfo{
				Page:     result.Job.Page,
				URL:      result.Job.URL,
				ErrorMsg: result.Err.Error(),
			})
		} else {
			utils.Infof("成功抓取 %s (%d条)", result.Job.URL, len(result.Entries))
			s.task.Stats.SuccessPages++
			s.collected = append(s.collected, result.Entries...)
		}
		_ = bar.Add(1)
	}

	s.failedPages = failedPages
}

// scrapePage 单个页面的抓取+提取 (worker池的任务函数)
func (s *Scraper) scrapePage(ctx context.Context, job models.PageJob) ([]models.Entry, error) {
	doc, err := s.fetcher.FetchDocument(ctx, job.URL)
	if err != nil {
		return nil, err
	}
	return scrapers.ExtractEntries(doc, job.URL), nil
}

// writeReport 生成JSON抓取报告
func (s *Scraper) writeReport(startTime time.Time) error {
	report := &models.ScrapeReport{
		TaskID:      s.task.ID,
		TopicURL:    s.topicURL,
		Domain:      s.task.Domain,
		StartTime:   startTime,
		EndTime:     time.Now(),
		Duration:    s.task.Stats.Duration,
		Stats:       s.task.Stats,
		FailedPages: s.failedPages,
		OutputFile:  s.config.Output.File,
		ReportDir:   s.config.Output.ReportDir,
		Config:      s.config.Scrape,
	}

	reporter := utils.NewReporter(s.config.Output.ReportDir)
	return reporter.GenerateReport(report)
}

// fail 标记任务失败
func (s *Scraper) fail(err error) {
	now := time.Now()
	s.task.CompletedAt = &now
	s.task.Status = models.TaskStatusFailed
	s.task.ErrorMessage = err.Error()
}

// GetStats 获取统计信息
func (s *Scraper) GetStats() models.ScrapeStats {
	return s.task.Stats
}

// Close 释放资源 (关闭浏览器兜底进程)
func (s *Scraper) Close() {
	if s.browser != nil {
		s.browser.Close()
	}
}
