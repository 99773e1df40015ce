package scrapers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// BrowserClient 基于go-rod的浏览器抓取客户端
// 仅作为反爬挑战页的兜底: 真实浏览器环境可以通过JS挑战,
// 等待挑战跳转完成后取最终渲染的HTML。
// 浏览器进程惰性启动,首次Get时才创建。
type BrowserClient struct {
	headless       bool
	waitTime       time.Duration
	headerProvider models.HeaderProvider

	mu      sync.Mutex
	browser *rod.Browser
}

// NewBrowserClient 创建浏览器抓取客户端
func NewBrowserClient(headless bool, waitTime time.Duration, headerProvider models.HeaderProvider) *BrowserClient {
	return &BrowserClient{
		headless:       headless,
		waitTime:       waitTime,
		headerProvider: headerProvider,
	}
}

// ensureBrowser 惰性启动浏览器(幂等)
// 注意: 调用者必须已持有 bc.mu 锁
func (bc *BrowserClient) ensureBrowser() error {
	if bc.browser != nil {
		return nil
	}

	l := launcher.New().Headless(bc.headless)
	// 允许访问自签名或过期证书的HTTPS站点
	l = l.Set("ignore-certificate-errors")

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("启动浏览器失败: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("连接浏览器失败: %w", err)
	}

	bc.browser = browser
	utils.Debugf("浏览器已启动: %s", controlURL)
	return nil
}

// Get 实现FetchClient接口
// 在新标签页中导航到URL,等待加载完成和挑战跳转,返回渲染后的HTML
func (bc *BrowserClient) Get(url string) (*PageResponse, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if err := bc.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := bc.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("创建标签页失败(浏览器可能已崩溃): %w", err)
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			utils.Warnf("关闭标签页失败: %v", closeErr)
		}
	}()

	// 应用自定义User-Agent (其余头部由浏览器自己生成,更接近真实环境)
	if bc.headerProvider != nil {
		if headers, headerErr := bc.headerProvider.GetHeaders(); headerErr == nil {
			if ua := headers.Get("User-Agent"); ua != "" {
				if uaErr := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: ua}); uaErr != nil {
					utils.Warnf("设置User-Agent失败: %v", uaErr)
				}
			}
		}
	}

	if err := page.Navigate(url); err != nil {
		return nil, fmt.Errorf("导航失败: %w", err)
	}

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("等待页面加载失败: %w", err)
	}

	// 额外等待,给挑战脚本执行和跳转留时间
	time.Sleep(bc.waitTime)

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("获取页面HTML失败: %w", err)
	}

	utils.Debugf("浏览器兜底成功: %s (%d bytes)", url, len(html))

	// 浏览器渲染结果没有底层状态码,能拿到HTML即视为成功
	return &PageResponse{
		StatusCode:  http.StatusOK,
		Body:        []byte(html),
		ContentType: "text/html; charset=utf-8",
	}, nil
}

// Close 关闭浏览器,释放所有资源
func (bc *BrowserClient) Close() {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	if bc.browser != nil {
		bc.browser.MustClose()
		bc.browser = nil
		utils.Debugf("浏览器已关闭")
	}
}
