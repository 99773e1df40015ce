// Package scrapers 提供话题页面的抓取与条目提取功能
//
// # 概述
//
// scrapers包实现了抓取流水线的四个核心环节:带重试的页面抓取、
// 分页总数解析、容错的条目提取、固定大小的并发worker池。
// 页面获取由FetchClient接口抽象,默认实现为Colly静态客户端,
// 遇到反爬挑战页时可切换go-rod无头浏览器兜底。
//
// # 核心组件
//
// ## StaticClient / BrowserClient / AntiBotClient
//
// StaticClient基于Colly发起同步GET请求,携带浏览器伪装头部,
// 自动解压gzip/deflate/brotli响应体。BrowserClient基于go-rod,
// 仅在StaticClient返回疑似反爬挑战页(403/503+特征标记)时启用,
// 启动前经ResourceGate检查系统内存和CPU负载。
// AntiBotClient将两者组合为单一的FetchClient,流水线其余部分
// 只依赖 Get(url) 这一个操作。
//
//	client := NewAntiBotClient(static, browser, gate)
//	resp, err := client.Get("https://eksisozluk.com/some-topic--123")
//
// ## Fetcher (重试抓取器)
//
// 包装FetchClient,每次尝试前随机延迟[min_delay, max_delay]秒
// (对站点限流的礼貌性抖动),尝试之间按2^attempt秒指数退避,
// 默认最多3次。所有worker共享一个全局速率限制器。
// 成功时返回解析好的goquery文档,失败时返回models.FetchError。
//
//	fetcher := NewFetcher(client, config)
//	doc, err := fetcher.FetchDocument(ctx, pageURL)
//
// ## ResolvePageCount (分页解析)
//
// 按序尝试多个策略,第一个命中的策略生效:
//  1. div.pager的data-pagecount属性 (站点该属性相对实际末页差1,取值+1)
//  2. pager内数字链接的最大值 (无数字链接时为1)
//  3. 存在非空条目列表 → 单页话题
//
// 三个策略都未命中时返回models.ScraperError。
//
// ## ExtractEntries (条目提取)
//
// 从ul#entry-item-list提取条目,每个字段缺失时填充默认值,
// 单个条目的提取失败只跳过该条目,不影响整页。
// 列表容器缺失时记录警告并返回空列表,不视为错误。
//
// ## WorkerPool (worker池)
//
// 固定大小的worker池(默认2个,刻意较小以避免触发站点限流),
// 结果按完成顺序输出,单页失败不影响其他页面。
package scrapers
