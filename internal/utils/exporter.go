package utils

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/structme/eksi-sozluk-scraper/internal/models"
)

// utf8BOM UTF-8字节序标记
// Excel打开土耳其语内容的CSV时需要BOM才能正确识别编码
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVColumns CSV输出列 (username为行键,允许重复)
var CSVColumns = []string{"username", "entry", "date", "favorites"}

// CSVExporter 条目CSV导出器
type CSVExporter struct {
	outputFile string
}

// NewCSVExporter 创建CSV导出器
func NewCSVExporter(outputFile string) *CSVExporter {
	return &CSVExporter{outputFile: outputFile}
}

// Export 将条目集合写入CSV文件
// 行顺序即合并顺序,不承诺任何页面间顺序
func (e *CSVExporter) Export(entries []models.Entry) error {
	f, err := os.Create(e.outputFile)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()

	// 写入BOM
	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("写入BOM失败: %w", err)
	}

	w := csv.NewWriter(f)

	// 表头
	if err := w.Write(CSVColumns); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	// 数据行
	for _, entry := range entries {
		row := []string{entry.Author, entry.Content, entry.Date, entry.Favorites}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("写入数据行失败: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("刷新CSV缓冲失败: %w", err)
	}

	Infof("✅ 已保存 %d 条记录到 %s", len(entries), e.outputFile)
	return nil
}
