package scrapers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

// PageResponse 一次GET请求的原始响应
type PageResponse struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

// FetchClient 页面获取能力的抽象
// 流水线的其余部分只依赖这一个操作,不关心反爬挑战如何被解决
type FetchClient interface {
	// Get 对URL发起GET请求,返回状态码和响应体
	Get(url string) (*PageResponse, error)
}

// fetchHolder 通过colly.Context在回调间传递单次请求的结果
type fetchHolder struct {
	resp *PageResponse
	err  error
}

// StaticClient 基于Colly的静态抓取客户端
// 携带浏览器伪装头部,自动解压压缩响应体;
// cookie由Colly内部的cookiejar跨请求保持
type StaticClient struct {
	collector      *colly.Collector
	headerProvider models.HeaderProvider
}

// NewStaticClient 创建静态抓取客户端
func NewStaticClient(requestTimeout time.Duration, headerProvider models.HeaderProvider) *StaticClient {
	c := colly.NewCollector(
		// 重试会重复访问同一URL,必须允许revisit
		colly.AllowURLRevisit(),
		// 4xx/5xx响应也交给OnResponse,反爬挑战页需要读取body做特征检测
		colly.ParseHTTPErrorResponse(),
		colly.IgnoreRobotsTxt(),
	)

	c.SetClient(&http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true,
			},
		},
		Timeout: requestTimeout,
	})
	c.SetRequestTimeout(requestTimeout)

	sc := &StaticClient{
		collector:      c,
		headerProvider: headerProvider,
	}
	sc.setupCallbacks()
	return sc
}

// setupCallbacks 设置Colly回调
func (sc *StaticClient) setupCallbacks() {
	sc.collector.OnRequest(func(r *colly.Request) {
		// 应用浏览器伪装头部
		if sc.headerProvider != nil {
			headers, err := sc.headerProvider.GetHeaders()
			if err != nil {
				utils.Warnf("获取HTTP头部失败: %v", err)
			} else {
				for name, values := range headers {
					if len(values) > 0 {
						r.Headers.Set(name, values[0])
					}
				}
			}
		}
		utils.Debugf("访问: %s", r.URL.String())
	})

	sc.collector.OnResponse(func(r *colly.Response) {
		holder, ok := r.Request.Ctx.GetAny("holder").(*fetchHolder)
		if !ok {
			return
		}

		body := r.Body
		contentEncoding := r.Headers.Get("Content-Encoding")
		if contentEncoding != "" {
			decompressed, err := decompressResponse(contentEncoding, r.Body)
			if err != nil {
				utils.Warnf("解压响应失败 [%s] (编码=%s): %v", r.Request.URL, contentEncoding, err)
				// 解压失败,仍然尝试使用原始body
			} else {
				body = decompressed
			}
		}

		holder.resp = &PageResponse{
			StatusCode:  r.StatusCode,
			Body:        body,
			ContentType: r.Headers.Get("Content-Type"),
		}
	})

	sc.collector.OnError(func(r *colly.Response, err error) {
		holder, ok := r.Request.Ctx.GetAny("holder").(*fetchHolder)
		if !ok {
			return
		}
		holder.err = err
	})
}

// Get 实现FetchClient接口
// 同步执行: 返回时本次请求的回调已全部完成
func (sc *StaticClient) Get(url string) (*PageResponse, error) {
	holder := &fetchHolder{}
	ctx := colly.NewContext()
	ctx.Put("holder", holder)

	if err := sc.collector.Request("GET", url, nil, ctx, nil); err != nil {
		return nil, fmt.Errorf("发起请求失败: %w", err)
	}
	sc.collector.Wait()

	if holder.err != nil {
		return nil, holder.err
	}
	if holder.resp == nil {
		return nil, fmt.Errorf("请求未产生响应: %s", url)
	}
	return holder.resp, nil
}

// challengeMarkers 反爬挑战页的内容特征
var challengeMarkers = []string{
	"just a moment",
	"checking your browser",
	"cf-browser-verification",
	"cf-chl",
	"challenge-platform",
}

// IsChallengeResponse 判断响应是否为反爬挑战页
// 判断规则: 403/503状态码 + body中出现已知挑战特征
func IsChallengeResponse(resp *PageResponse) bool {
	if resp == nil {
		return false
	}
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusServiceUnavailable {
		return false
	}

	// 只检查前4KB,挑战页的特征都在头部
	sample := resp.Body
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	lower := strings.ToLower(string(sample))

	for _, marker := range challengeMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// decompressResponse 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli) 三种压缩格式
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "":
		return body, nil

	default:
		// 未知编码,返回警告但仍然返回原始内容
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}

// AntiBotClient 组合静态客户端与浏览器兜底的抓取客户端
// 正常情况走StaticClient;检测到反爬挑战页时,若浏览器兜底可用
// 且系统资源允许,改用BrowserClient重新获取该页
type AntiBotClient struct {
	static  FetchClient
	browser FetchClient
	gate    *ResourceGate
}

// NewAntiBotClient 创建组合客户端
// browser为nil时表示禁用浏览器兜底,挑战页直接按失败处理
func NewAntiBotClient(static FetchClient, browser FetchClient, gate *ResourceGate) *AntiBotClient {
	return &AntiBotClient{
		static:  static,
		browser: browser,
		gate:    gate,
	}
}

// Get 实现FetchClient接口
func (c *AntiBotClient) Get(url string) (*PageResponse, error) {
	resp, err := c.static.Get(url)
	if err != nil {
		return nil, err
	}

	if !IsChallengeResponse(resp) {
		return resp, nil
	}

	if c.browser == nil {
		return nil, fmt.Errorf("检测到反爬挑战页 [%s]: 浏览器兜底未启用 (HTTP %d)", url, resp.StatusCode)
	}

	if c.gate != nil {
		if ok, reason := c.gate.CheckResourceAvailability(); !ok {
			return nil, fmt.Errorf("检测到反爬挑战页 [%s]: 资源不足,无法启动浏览器兜底: %s", url, reason)
		}
	}

	utils.Warnf("检测到反爬挑战页 [%s] (HTTP %d),切换浏览器兜底", url, resp.StatusCode)
	return c.browser.Get(url)
}
