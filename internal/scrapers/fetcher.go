package scrapers

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/structme/eksi-sozluk-scraper/internal/models"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"
)

// Fetcher 带重试的页面抓取器
// 每次尝试前随机延迟[MinDelay, MaxDelay]秒(限流礼貌性抖动,与尝试次数无关),
// 失败后按2^attempt秒指数退避,最多MaxRetries次。
// 所有worker共享同一个Fetcher,limiter作为全局请求速率下限。
type Fetcher struct {
	client  FetchClient
	config  models.ScrapeConfig
	limiter *rate.Limiter
}

// NewFetcher 创建抓取器
func NewFetcher(client FetchClient, config models.ScrapeConfig) *Fetcher {
	return &Fetcher{
		client: client,
		config: config,
		// burst=1: 请求之间严格保持间隔,不允许突发
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
	}
}

// FetchDocument 抓取并解析一个页面
// 重试耗尽后返回models.FetchError;该错误只代表本次抓取失败,
// 是否致命由调用方决定
func (f *Fetcher) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error

	for attempt := 0; attempt < f.config.MaxRetries; attempt++ {
		// 请求前随机延迟
		if err := sleepCtx(ctx, f.jitter()); err != nil {
			return nil, err
		}
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		doc, err := f.fetchOnce(pageURL)
		if err == nil {
			utils.Debugf("抓取成功 [%s] (第%d次尝试)", pageURL, attempt+1)
			return doc, nil
		}

		lastErr = err
		utils.Warnf("第%d/%d次尝试失败 [%s]: %v", attempt+1, f.config.MaxRetries, pageURL, err)

		// 最后一次失败后不再退避,直接向上传播
		if attempt < f.config.MaxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			if err := sleepCtx(ctx, backoff); err != nil {
				return nil, err
			}
		}
	}

	utils.Errorf("重试%d次后仍无法抓取 %s", f.config.MaxRetries, pageURL)
	return nil, &models.FetchError{
		URL:      pageURL,
		Attempts: f.config.MaxRetries,
		Cause:    lastErr,
	}
}

// fetchOnce 单次抓取+解析
func (f *Fetcher) fetchOnce(pageURL string) (*goquery.Document, error) {
	resp, err := f.client.Get(pageURL)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	// 按Content-Type声明的字符集解码 (站点偶尔返回非UTF-8页面)
	reader, err := charset.NewReader(bytes.NewReader(resp.Body), resp.ContentType)
	if err != nil {
		return nil, fmt.Errorf("字符集解码失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败: %w", err)
	}

	return doc, nil
}

// jitter 计算[MinDelay, MaxDelay]区间内的随机延迟
func (f *Fetcher) jitter() time.Duration {
	span := f.config.MaxDelay - f.config.MinDelay
	seconds := f.config.MinDelay + rand.Float64()*span
	return time.Duration(seconds * float64(time.Second))
}

// sleepCtx 可被context中断的睡眠
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
