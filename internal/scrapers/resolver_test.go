package scrapers

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
)

func mustParseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("解析测试HTML失败: %v", err)
	}
	return doc
}

func TestResolvePageCount(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		want    int
		wantErr bool
	}{
		{
			name: "pager页数属性",
			html: `<html><body>
				<div class="pager" data-pagecount="41"></div>
				<ul id="entry-item-list"><li data-author="a"></li></ul>
			</body></html>`,
			want: 42,
		},
		{
			name: "pager属性带空白",
			html: `<html><body>
				<div class="pager" data-pagecount=" 7 "></div>
			</body></html>`,
			want: 8,
		},
		{
			name: "无属性时取数字链接最大值",
			html: `<html><body>
				<div class="pager">
					<a href="?p=1">1</a>
					<a href="?p=2">2</a>
					<a href="?p=17">17</a>
					<a href="?p=2">sonraki</a>
				</div>
			</body></html>`,
			want: 17,
		},
		{
			name: "属性非数字时降级到链接",
			html: `<html><body>
				<div class="pager" data-pagecount="abc">
					<a>1</a><a>5</a>
				</div>
			</body></html>`,
			want: 5,
		},
		{
			name: "pager存在但无数字链接",
			html: `<html><body>
				<div class="pager"><a>sonraki</a></div>
			</body></html>`,
			want: 1,
		},
		{
			name: "无pager但有条目列表",
			html: `<html><body>
				<ul id="entry-item-list">
					<li data-author="yazar"><div class="content">tek sayfa</div></li>
				</ul>
			</body></html>`,
			want: 1,
		},
		{
			name:    "空条目列表视为结构错误",
			html:    `<html><body><ul id="entry-item-list"></ul></body></html>`,
			wantErr: true,
		},
		{
			name:    "既无pager也无条目列表",
			html:    `<html><body><p>bir hata oluştu</p></body></html>`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParseHTML(t, tt.html)
			got, err := ResolvePageCount(doc)

			if tt.wantErr {
				if err == nil {
					t.Fatal("期望返回错误,实际成功")
				}
				var scraperErr *models.ScraperError
				if !errors.As(err, &scraperErr) {
					t.Errorf("错误类型 = %T, want *models.ScraperError", err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ResolvePageCount() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolvePageCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolvePageCount_AttributeBeatsLinks(t *testing.T) {
	// 属性和链接同时存在时,属性优先
	html := `<html><body>
		<div class="pager" data-pagecount="10">
			<a>1</a><a>99</a>
		</div>
	</body></html>`

	got, err := ResolvePageCount(mustParseHTML(t, html))
	if err != nil {
		t.Fatalf("ResolvePageCount() error = %v", err)
	}
	if got != 11 {
		t.Errorf("ResolvePageCount() = %d, want 11 (属性值+1优先于链接)", got)
	}
}
