package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/structme/eksi-sozluk-scraper/internal/core"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// 命令行参数
var (
	// 全局参数
	configFile string
	verbose    bool
	logLevel   string

	// HTTP头部参数
	headers        []string // 自定义HTTP请求头
	validateConfig bool     // 验证配置文件

	// 抓取参数
	urlFile    string
	maxRetries int
	workers    int
	minDelay   float64
	maxDelay   float64
	outputFile string
	noBrowser  bool

	// 批量处理参数
	batchDelay      int
	continueOnError bool
)

var rootCmd = &cobra.Command{
	Use:   "eksiscraper <话题URL>",
	Short: "Ekşi Sözlük话题条目抓取工具",
	Long: `EksiScraper - Ekşi Sözlük话题条目抓取工具 (Go版本)

自动抓取指定话题的全部分页条目并导出CSV,支持:
  • 分页自动发现
  • 并发抓取与失败重试
  • 反爬验证页浏览器回退
  • 批量话题处理
  • 自定义HTTP请求头

使用示例:
  # 抓取单个话题
  eksiscraper https://eksisozluk.com/some-topic--123456

  # 指定输出文件和并发数
  eksiscraper https://eksisozluk.com/some-topic--123456 -o topic.csv --workers 2

  # 批量模式
  eksiscraper -f topics.txt --batch-delay 10

  # 验证头部配置文件
  eksiscraper --validate-config

版本: ` + Version + `
构建时间: ` + BuildTime,
	Version: Version,
	Args: func(cmd *cobra.Command, args []string) error {
		// 验证配置模式和批量模式不需要位置参数
		if validateConfig || urlFile != "" {
			if len(args) != 0 {
				return fmt.Errorf("批量模式下不接受位置参数,收到%d个", len(args))
			}
			return nil
		}
		if len(args) != 1 {
			return fmt.Errorf("需要且仅需要一个话题URL参数,收到%d个", len(args))
		}
		return nil
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 加载配置
		config, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 初始化日志系统
		logConfig := utils.LogConfig{
			Level:      config.Logging.Level,
			LogDir:     config.Logging.LogDir,
			MaxSize:    config.Logging.Rotation.MaxSize,
			MaxBackups: config.Logging.Rotation.MaxBackups,
			MaxAge:     config.Logging.Rotation.MaxAge,
			Compress:   config.Logging.Rotation.Compress,
		}

		// 命令行参数覆盖配置文件
		if logLevel != "" {
			logConfig.Level = logLevel
		}

		if err := utils.InitLogger(logConfig); err != nil {
			return fmt.Errorf("初始化日志系统失败: %w", err)
		}

		if verbose {
			utils.Info("详细模式已启用")
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 设置信号处理(Ctrl+C优雅退出)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		go func() {
			sig := <-sigChan
			utils.Warnf("\n收到中断信号: %v, 正在优雅关闭...", sig)
			cancel()
		}()

		appConfig, err := core.LoadConfig(configFile)
		if err != nil {
			return fmt.Errorf("加载配置失败: %w", err)
		}

		// 创建HTTP头部管理器
		headerManager, err := core.NewHeaderManager(configFile, headers)
		if err != nil {
			return fmt.Errorf("创建HTTP头部管理器失败: %w", err)
		}

		// 如果用户请求验证配置
		if validateConfig {
			utils.Info("🔍 验证HTTP头部配置...")
			if err := headerManager.LoadConfig(); err != nil {
				return fmt.Errorf("加载配置失败: %w", err)
			}

			// 显示合并后的头部(脱敏)
			safeHeaders := headerManager.GetSafeHeaders()
			utils.Info("✅ 配置验证通过!")
			utils.Infof("当前有效的HTTP头部 (%d个):", len(safeHeaders))
			for name, value := range safeHeaders {
				utils.Infof("  %s: %s", name, value)
			}
			return nil
		}

		// 命令行参数覆盖配置文件
		appConfig.MergeCLIFlags(maxRetries, workers, outputFile)
		if cmd.Flags().Changed("min-delay") {
			appConfig.Scrape.MinDelay = minDelay
		}
		if cmd.Flags().Changed("max-delay") {
			appConfig.Scrape.MaxDelay = maxDelay
		}
		if noBrowser {
			appConfig.Scrape.BrowserFallback = false
		}

		// 验证参数
		if err := ValidateFlags(appConfig, urlFile); err != nil {
			return err
		}

		// 批量处理模式
		if urlFile != "" {
			urls, err := utils.ReadURLsFromFile(urlFile)
			if err != nil {
				return fmt.Errorf("读取URL文件失败: %w", err)
			}

			batchScraper := core.NewBatchScraper(appConfig, batchDelay, continueOnError, headerManager)

			if _, err := batchScraper.ScrapeBatch(ctx, urls); err != nil {
				return fmt.Errorf("批量抓取失败: %w", err)
			}

			utils.Info("✨ 批量抓取任务完成!")
			return nil
		}

		// 单话题抓取模式
		topicURL := args[0]
		if err := ValidateURL(topicURL); err != nil {
			return fmt.Errorf("无效的话题URL: %w", err)
		}

		scraper, err := core.NewScraper(topicURL, appConfig, headerManager)
		if err != nil {
			return fmt.Errorf("创建抓取器失败: %w", err)
		}
		defer scraper.Close()

		if err := scraper.Run(ctx); err != nil {
			return fmt.Errorf("抓取失败: %w", err)
		}

		// 显示统计结果
		stats := scraper.GetStats()
		fmt.Println("\n==================================================")
		fmt.Println("📊 抓取统计")
		fmt.Println("==================================================")
		fmt.Printf("✅ 总页数: %d\n", stats.TotalPages)
		fmt.Printf("✅ 成功页数: %d\n", stats.SuccessPages)
		fmt.Printf("❌ 失败页数: %d\n", stats.FailedPages)
		fmt.Printf("📄 条目总数: %d\n", stats.TotalEntries)
		fmt.Printf("⏱️  总耗时: %.2f秒\n", stats.Duration)
		fmt.Println("==================================================")

		utils.Info("✨ 抓取任务完成!")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("EksiScraper %s\n", Version)
		fmt.Printf("构建时间: %s\n", BuildTime)
		fmt.Println("Go实现版本 - Ekşi Sözlük话题条目抓取工具")
	},
}

func init() {
	// 全局参数
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出模式")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace|debug|info|warn|error)")

	// HTTP头部参数
	rootCmd.PersistentFlags().StringSliceVarP(&headers, "header", "H", []string{}, "自定义HTTP头部,格式: 'Name: Value',可多次指定")
	rootCmd.PersistentFlags().BoolVar(&validateConfig, "validate-config", false, "验证配置文件正确性")

	// 抓取参数
	rootCmd.Flags().StringVarP(&urlFile, "url-file", "f", "", "包含话题URL列表的文件路径")
	rootCmd.Flags().IntVar(&maxRetries, "max-retries", 0, "单页最大尝试次数 (1-10, 0表示使用配置文件值)")
	rootCmd.Flags().IntVar(&workers, "workers", 0, "并发抓取协程数 (1-16, 0表示使用配置文件值)")
	rootCmd.Flags().Float64Var(&minDelay, "min-delay", 2.0, "请求前最小随机延迟(秒)")
	rootCmd.Flags().Float64Var(&maxDelay, "max-delay", 5.0, "请求前最大随机延迟(秒)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "CSV输出文件路径 (默认entries.csv)")
	rootCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "禁用浏览器回退")

	// 批量处理参数
	rootCmd.Flags().IntVar(&batchDelay, "batch-delay", 5, "批量处理话题间延迟(秒)")
	rootCmd.Flags().BoolVar(&continueOnError, "continue-on-error", true, "遇到错误继续处理")

	// 添加子命令
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
