package scrapers

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// 条目节点内的字段选择器
const (
	entryContentSelector = "div.content"
	entryDateSelector    = "a.entry-date.permalink"
)

// ExtractEntries 从页面文档提取全部条目
// 永不因单个坏条目使整页失败:
//   - 条目列表容器缺失 → 记录警告,返回空列表 (无条目的页面是合法的)
//   - 单个条目提取失败 → 记录警告并跳过,继续处理后续条目
//
// 对同一份未修改的文档重复调用,结果完全一致
func ExtractEntries(doc *goquery.Document, pageURL string) []models.Entry {
	list := doc.Find(entryListSelector).First()
	if list.Length() == 0 {
		utils.Warnf("页面中没有条目列表 [%s]", pageURL)
		return []models.Entry{}
	}

	entries := make([]models.Entry, 0)
	list.Find("li").Each(func(i int, li *goquery.Selection) {
		entry, err := extractEntry(li)
		if err != nil {
			utils.Warnf("%v", &models.ExtractionError{Index: i, Cause: err})
			return
		}
		entries = append(entries, entry)
	})

	return entries
}

// extractEntry 提取单个条目
// 每个字段独立取值,缺失时由models.NewEntry填充默认值;
// 提取过程中的panic转为error,由调用方按跳过处理
func extractEntry(li *goquery.Selection) (entry models.Entry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("提取条目时panic: %v", r)
		}
	}()

	author := li.AttrOr("data-author", "")
	content := strings.TrimSpace(li.Find(entryContentSelector).First().Text())
	date := strings.TrimSpace(li.Find(entryDateSelector).First().Text())
	favorites := li.AttrOr("data-favorite-count", "")

	return models.NewEntry(author, content, date, favorites), nil
}
