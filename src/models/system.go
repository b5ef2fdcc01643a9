package models

import (
	"fmt"
	"time"
)

// Unknown is rendered for facts the operating system does not report.
const Unknown = "Unknown"

// HostInfo 主机基本信息
type HostInfo struct {
	// System 操作系统 linux windows darwin
	System   string `json:"system"`
	Hostname string `json:"hostname"`
	// Release 内核版本
	Release string `json:"release"`
	// Version 发行版及版本 ubuntu 22.04
	Version string `json:"version"`
	// Machine CPU 架构 x86_64 aarch64
	Machine string `json:"machine"`
	// Processor CPU 型号, 取不到时为 Unknown
	Processor string    `json:"processor"`
	BootTime  time.Time `json:"bootTime"`
	// Uptime 开机时长
	Uptime time.Duration `json:"uptime"`
}

// UptimeString formats the uptime as "{d}d {h}h {m}m".
func (h *HostInfo) UptimeString() string {
	total := int64(h.Uptime / time.Second)
	days := total / (24 * 3600)
	hours := (total % (24 * 3600)) / 3600
	minutes := (total % 3600) / 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// BootTimeString formats the boot time the same way the rest of the agent does.
func (h *HostInfo) BootTimeString() string {
	return h.BootTime.Format("2006-01-02 15:04:05")
}

// Frequency is a CPU clock rate in MHz. FrequencyUnknown marks platforms
// that do not expose it.
type Frequency float64

const FrequencyUnknown Frequency = -1

// Known reports whether the frequency was reported by the platform.
func (f Frequency) Known() bool {
	return f > 0
}

func (f Frequency) String() string {
	if !f.Known() {
		return Unknown
	}
	return fmt.Sprintf("%.2f MHz", float64(f))
}

// MarshalText keeps the sentinel explicit in JSON output.
func (f Frequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(text []byte) error {
	s := string(text)
	if s == Unknown {
		*f = FrequencyUnknown
		return nil
	}
	var mhz float64
	if _, err := fmt.Sscanf(s, "%f MHz", &mhz); err != nil {
		return fmt.Errorf("invalid frequency %q: %w", s, err)
	}
	*f = Frequency(mhz)
	return nil
}

type CPUInfo struct {
	// PhysicalCores 物理核数
	PhysicalCores int `json:"physicalCores"`
	// LogicalCores 逻辑核数
	LogicalCores int       `json:"logicalCores"`
	MaxFreq      Frequency `json:"maxFreq"`
	CurrentFreq  Frequency `json:"currentFreq"`
	// Percent 采样窗口内的总占用率
	Percent float64 `json:"percent"`
}

type MemoryInfo struct {
	// Total 总内存
	Total uint64 `json:"total"`
	// Available 可使用量
	Available uint64 `json:"available"`
	// Used 已经使用量
	Used uint64 `json:"used"`
	Free uint64 `json:"free"`
	// Percent 使用率
	Percent float64 `json:"percent"`
}

// DiskPartitionInfo is recomputed on every query; a partition that goes away
// simply disappears from the next result.
type DiskPartitionInfo struct {
	Device     string  `json:"device"`
	Mountpoint string  `json:"mountpoint"`
	Fstype     string  `json:"fstype"`
	Total      uint64  `json:"total"`
	Used       uint64  `json:"used"`
	Free       uint64  `json:"free"`
	Percent    float64 `json:"percent"`
}

// Sample is one poll tick worth of utilization.
type Sample struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUPercent    float64   `json:"cpuPercent"`
	MemoryPercent float64   `json:"memoryPercent"`
}

// SystemReport is the one-shot output of the info command.
type SystemReport struct {
	Host   *HostInfo            `json:"host"`
	CPU    *CPUInfo             `json:"cpu"`
	Memory *MemoryInfo          `json:"memory"`
	Disks  []*DiskPartitionInfo `json:"disks"`
}
