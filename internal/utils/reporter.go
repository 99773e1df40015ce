package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
)

// Reporter 报告生成器
type Reporter struct {
	reportDir string
}

// NewReporter 创建报告生成器
func NewReporter(reportDir string) *Reporter {
	return &Reporter{
		reportDir: reportDir,
	}
}

// GenerateReport 生成抓取报告
func (r *Reporter) GenerateReport(report *models.ScrapeReport) error {
	if err := os.MkdirAll(r.reportDir, 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	// 保存主报告
	if err := r.saveJSONReport("scrape_report.json", report); err != nil {
		return err
	}

	// 保存失败页面列表 (单独文件,便于重试脚本消费)
	if err := r.saveJSONReport("failed_pages.json", report.FailedPages); err != nil {
		return err
	}

	Infof("✅ 报告已生成: %s", r.reportDir)
	return nil
}

// saveJSONReport 保存JSON报告
func (r *Reporter) saveJSONReport(filename string, data interface{}) error {
	filepath := filepath.Join(r.reportDir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化JSON失败: %w", err)
	}

	if err := os.WriteFile(filepath, jsonData, 0644); err != nil {
		return fmt.Errorf("写入报告文件失败: %w", err)
	}

	Debugf("保存报告: %s", filepath)
	return nil
}

// NewProgressBar 创建进度条
func NewProgressBar(max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
