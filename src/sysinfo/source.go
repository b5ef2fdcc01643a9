package sysinfo

import (
	"context"
	"time"

	"github.com/clarechu/sys-assistant/src/models"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Source is the operating-system boundary the Provider reads from. The
// default implementation is backed by gopsutil; tests substitute a fake.
type Source interface {
	Host(ctx context.Context) (*host.InfoStat, error)
	CPUPercent(ctx context.Context, interval time.Duration) ([]float64, error)
	CPUCounts(ctx context.Context, logical bool) (int, error)
	CPUInfo(ctx context.Context) ([]cpu.InfoStat, error)
	// CPUFrequency never fails; missing values come back as
	// models.FrequencyUnknown.
	CPUFrequency(ctx context.Context) (current, maximum models.Frequency)
	VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error)
	Partitions(ctx context.Context) ([]disk.PartitionStat, error)
	Usage(ctx context.Context, path string) (*disk.UsageStat, error)
}

// NewDefaultSource returns a Source that queries the running host.
func NewDefaultSource() Source {
	return &gopsutilSource{}
}

type gopsutilSource struct{}

func (s *gopsutilSource) Host(ctx context.Context) (*host.InfoStat, error) {
	return host.InfoWithContext(ctx)
}

func (s *gopsutilSource) CPUPercent(ctx context.Context, interval time.Duration) ([]float64, error) {
	return cpu.PercentWithContext(ctx, interval, false)
}

func (s *gopsutilSource) CPUCounts(ctx context.Context, logical bool) (int, error) {
	return cpu.CountsWithContext(ctx, logical)
}

func (s *gopsutilSource) CPUInfo(ctx context.Context) ([]cpu.InfoStat, error) {
	return cpu.InfoWithContext(ctx)
}

func (s *gopsutilSource) CPUFrequency(ctx context.Context) (models.Frequency, models.Frequency) {
	current, maximum := readCPUFrequency()
	if !maximum.Known() {
		// cpu.Info reports the rated clock where sysfs cpufreq is absent.
		if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 && infos[0].Mhz > 0 {
			maximum = models.Frequency(infos[0].Mhz)
		}
	}
	return current, maximum
}

func (s *gopsutilSource) VirtualMemory(ctx context.Context) (*mem.VirtualMemoryStat, error) {
	return mem.VirtualMemoryWithContext(ctx)
}

func (s *gopsutilSource) Partitions(ctx context.Context) ([]disk.PartitionStat, error) {
	return disk.PartitionsWithContext(ctx, false)
}

func (s *gopsutilSource) Usage(ctx context.Context, path string) (*disk.UsageStat, error) {
	return disk.UsageWithContext(ctx, path)
}
