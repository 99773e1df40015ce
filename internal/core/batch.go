package core

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// BatchScraper 批量话题抓取器
// 依次处理URL文件中的多个话题,话题之间插入延迟
type BatchScraper struct {
	config         *Config
	batchDelay     time.Duration
	continueOnErr  bool
	headerProvider models.HeaderProvider
}

// BatchResult 单个话题的批量处理结果
type BatchResult struct {
	URL         string
	Success     bool
	Error       error
	Stats       models.ScrapeStats
	ProcessedAt time.Time
	Duration    float64
}

// BatchSummary 批量抓取摘要
type BatchSummary struct {
	TotalURLs     int
	SuccessCount  int
	FailCount     int
	TotalEntries  int
	TotalDuration float64
	Results       []BatchResult
}

// NewBatchScraper 创建批量抓取器
func NewBatchScraper(config *Config, batchDelay int, continueOnErr bool, headerProvider models.HeaderProvider) *BatchScraper {
	return &BatchScraper{
		config:         config,
		batchDelay:     time.Duration(batchDelay) * time.Second,
		continueOnErr:  continueOnErr,
		headerProvider: headerProvider,
	}
}

// ScrapeBatch 批量抓取话题URL列表
func (bs *BatchScraper) ScrapeBatch(ctx context.Context, urls []string) (*BatchSummary, error) {
	utils.Infof("🚀 开始批量抓取: %d个话题", len(urls))

	summary := &BatchSummary{
		TotalURLs: len(urls),
		Results:   make([]BatchResult, 0, len(urls)),
	}

	startTime := time.Now()

	for i, topicURL := range urls {
		utils.Infof("\n==================== [%d/%d] ====================", i+1, len(urls))
		utils.Infof("话题URL: %s", topicURL)

		result := bs.scrapeSingleTopic(ctx, topicURL)
		summary.Results = append(summary.Results, result)

		if result.Success {
			summary.SuccessCount++
			summary.TotalEntries += result.Stats.TotalEntries
		} else {
			summary.FailCount++
			utils.Errorf("❌ 抓取失败: %v", result.Error)

			if !bs.continueOnErr {
				utils.Warn("批量抓取中止 (--continue-on-error=false)")
				break
			}
		}

		// 话题间延迟(最后一个话题不需要)
		if i < len(urls)-1 && bs.batchDelay > 0 {
			utils.Debugf("等待 %.0f 秒后处理下一个话题...", bs.batchDelay.Seconds())
			time.Sleep(bs.batchDelay)
		}
	}

	summary.TotalDuration = time.Since(startTime).Seconds()

	bs.printSummary(summary)

	if summary.SuccessCount == 0 {
		return summary, fmt.Errorf("所有话题都抓取失败")
	}
	return summary, nil
}

// scrapeSingleTopic 抓取单个话题
// 每个话题使用独立的输出文件,避免批量模式下互相覆盖
func (bs *BatchScraper) scrapeSingleTopic(ctx context.Context, topicURL string) BatchResult {
	result := BatchResult{
		URL:         topicURL,
		ProcessedAt: time.Now(),
	}

	startTime := time.Now()

	cfg := *bs.config
	cfg.Output.File = outputFileForTopic(bs.config.Output.File, topicURL)

	scraper, err := NewScraper(topicURL, &cfg, bs.headerProvider)
	if err != nil {
		result.Error = err
		return result
	}
	defer scraper.Close()

	if err := scraper.Run(ctx); err != nil {
		result.Error = err
		result.Duration = time.Since(startTime).Seconds()
		return result
	}

	result.Success = true
	result.Stats = scraper.GetStats()
	result.Duration = time.Since(startTime).Seconds()
	return result
}

// outputFileForTopic 根据话题URL的最后一段路径生成输出文件名
// entries.csv + /some-topic--123 → entries_some-topic--123.csv
func outputFileForTopic(baseFile string, topicURL string) string {
	parsed, err := url.Parse(models.StripQuery(topicURL))
	if err != nil || parsed.Path == "" || parsed.Path == "/" {
		return baseFile
	}

	slug := path.Base(parsed.Path)
	if slug == "" || slug == "/" || slug == "." {
		return baseFile
	}

	ext := path.Ext(baseFile)
	name := strings.TrimSuffix(baseFile, ext)
	return fmt.Sprintf("%s_%s%s", name, slug, ext)
}

// printSummary 显示批量抓取摘要
func (bs *BatchScraper) printSummary(summary *BatchSummary) {
	utils.Infof("\n==================================================")
	utils.Infof("📊 批量抓取摘要")
	utils.Infof("==================================================")
	utils.Infof("✅ 成功话题数: %d/%d", summary.SuccessCount, summary.TotalURLs)
	utils.Infof("❌ 失败话题数: %d", summary.FailCount)
	utils.Infof("📄 条目总数: %d", summary.TotalEntries)
	utils.Infof("⏱️  总耗时: %.2f秒", summary.TotalDuration)
	utils.Infof("==================================================")
}
