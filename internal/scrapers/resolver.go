package scrapers

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// 话题页面的结构选择器
const (
	pagerSelector     = "div.pager"
	entryListSelector = "ul#entry-item-list"
)

// pageCountStrategy 分页解析策略
// 返回 (页数, 是否命中);未命中时由下一个策略接手
type pageCountStrategy struct {
	name string
	fn   func(doc *goquery.Document) (int, bool)
}

// pageCountStrategies 按优先级排列的策略链
// 顺序有意义: 第一个是权威信号,后两个是针对标记变体的降级方案
var pageCountStrategies = []pageCountStrategy{
	{"pager页数属性", byPagerAttribute},
	{"pager数字链接", byPagerLinks},
	{"单页条目列表", bySingleEntryPage},
}

// ResolvePageCount 从第一页的文档解析话题总页数
// 所有策略都未命中时返回models.ScraperError,这是本环节唯一的硬失败路径
func ResolvePageCount(doc *goquery.Document) (int, error) {
	for _, s := range pageCountStrategies {
		if count, ok := s.fn(doc); ok {
			utils.Debugf("分页解析策略命中 [%s]: %d页", s.name, count)
			return count, nil
		}
	}
	return 0, &models.ScraperError{Reason: "未找到条目或分页信息"}
}

// byPagerAttribute 读取div.pager的data-pagecount属性
// 站点的data-pagecount相对实际末页差1,这里+1修正
// (该修正是对线上站点行为的如实保留,调整前需先对照真实分页语义验证)
func byPagerAttribute(doc *goquery.Document) (int, bool) {
	pager := doc.Find(pagerSelector).First()
	if pager.Length() == 0 {
		return 0, false
	}

	val, exists := pager.Attr("data-pagecount")
	if !exists {
		return 0, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, false
	}

	return count + 1, true
}

// byPagerLinks 取pager内数字链接文本的最大值
// pager存在但没有任何数字链接时视为单页
func byPagerLinks(doc *goquery.Document) (int, bool) {
	pager := doc.Find(pagerSelector).First()
	if pager.Length() == 0 {
		return 0, false
	}

	max := 0
	pager.Find("a").Each(func(_ int, link *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(link.Text())); err == nil && n > max {
			max = n
		}
	})

	if max == 0 {
		return 1, true
	}
	return max, true
}

// bySingleEntryPage 没有分页标记时,非空条目列表意味着单页话题
func bySingleEntryPage(doc *goquery.Document) (int, bool) {
	list := doc.Find(entryListSelector).First()
	if list.Length() == 0 {
		return 0, false
	}
	if list.Find("li").Length() == 0 {
		return 0, false
	}
	return 1, true
}
