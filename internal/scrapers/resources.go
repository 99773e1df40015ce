package scrapers

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/structme/eksi-sozluk-scraper/internal/utils"
)

const (
	// MinAvailableMemory 启动浏览器所需的最低可用内存 (500MB)
	// 无头Chrome单实例的典型内存消耗加安全余量
	MinAvailableMemory = 500 * 1024 * 1024

	// MaxCPULoad 启动浏览器允许的最高CPU使用率(%)
	MaxCPULoad = 85.0
)

// ResourceGate 系统资源门禁
// 浏览器兜底开销较大,启动前检查可用内存和CPU负载,
// 资源不足时放弃兜底,让该页按抓取失败处理
type ResourceGate struct {
	minAvailableMemory uint64
	maxCPULoad         float64
}

// NewResourceGate 创建资源门禁
func NewResourceGate() *ResourceGate {
	return &ResourceGate{
		minAvailableMemory: MinAvailableMemory,
		maxCPULoad:         MaxCPULoad,
	}
}

// CheckResourceAvailability 检查当前资源是否允许启动浏览器
// 返回: (是否允许, 拒绝原因)
func (rg *ResourceGate) CheckResourceAvailability() (bool, string) {
	vmStat, err := mem.VirtualMemory()
	if err != nil {
		// 读取失败时放行,避免监控故障阻塞抓取
		utils.Warnf("获取系统内存失败: %v", err)
		return true, ""
	}

	if vmStat.Available < rg.minAvailableMemory {
		return false, fmt.Sprintf("可用内存不足: %.0fMB < %.0fMB",
			float64(vmStat.Available)/(1024*1024),
			float64(rg.minAvailableMemory)/(1024*1024))
	}

	cpuPercents, err := cpu.Percent(200*time.Millisecond, false)
	if err != nil || len(cpuPercents) == 0 {
		utils.Warnf("获取CPU使用率失败: %v", err)
		return true, ""
	}

	if cpuPercents[0] > rg.maxCPULoad {
		return false, fmt.Sprintf("CPU负载过高: %.1f%% > %.1f%%", cpuPercents[0], rg.maxCPULoad)
	}

	return true, ""
}
