// Package sysinfo answers point-in-time questions about the host: host
// facts, CPU, memory and mounted disks. Nothing is cached between calls.
package sysinfo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"

	"github.com/clarechu/sys-assistant/src/models"
	"k8s.io/klog/v2"
)

// DefaultSampleWindow is how long CPUInfo measures utilization for.
const DefaultSampleWindow = 100 * time.Millisecond

// Provider is the metrics provider used by the poller, the CLI and the HTTP
// API. It holds no state besides its configuration.
type Provider struct {
	source Source
	window time.Duration
	goos   string
	now    func() time.Time
}

type Option func(*Provider)

// WithSource replaces the operating-system source.
func WithSource(s Source) Option {
	return func(p *Provider) {
		p.source = s
	}
}

// WithSampleWindow sets the CPU utilization window. CPUInfo blocks for this
// long.
func WithSampleWindow(d time.Duration) Option {
	return func(p *Provider) {
		if d > 0 {
			p.window = d
		}
	}
}

func withGOOS(goos string) Option {
	return func(p *Provider) {
		p.goos = goos
	}
}

func withClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

func NewProvider(opts ...Option) *Provider {
	p := &Provider{
		source: NewDefaultSource(),
		window: DefaultSampleWindow,
		goos:   runtime.GOOS,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HostInfo 获取当前主机的基本信息
func (p *Provider) HostInfo(ctx context.Context) (*models.HostInfo, error) {
	info, err := p.source.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("get host info: %w", err)
	}
	bootTime := time.Unix(int64(info.BootTime), 0)
	uptime := p.now().Sub(bootTime)
	if uptime < 0 {
		uptime = 0
	}
	machine := info.KernelArch
	if machine == "" {
		machine = runtime.GOARCH
	}
	return &models.HostInfo{
		System:    info.OS,
		Hostname:  info.Hostname,
		Release:   info.KernelVersion,
		Version:   strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Machine:   machine,
		Processor: p.processorName(ctx),
		BootTime:  bootTime,
		Uptime:    uptime,
	}, nil
}

func (p *Provider) processorName(ctx context.Context) string {
	infos, err := p.source.CPUInfo(ctx)
	if err != nil {
		klog.V(2).Infof("get cpu info: %s", err)
		return models.Unknown
	}
	for _, info := range infos {
		if name := strings.TrimSpace(info.ModelName); name != "" {
			return name
		}
	}
	return models.Unknown
}

// CPUPercent samples total utilization over the configured window and
// therefore blocks the caller for that long.
func (p *Provider) CPUPercent(ctx context.Context) (float64, error) {
	percent, err := p.source.CPUPercent(ctx, p.window)
	if err != nil {
		return 0, fmt.Errorf("get cpu percent: %w", err)
	}
	if len(percent) == 0 {
		return 0, errors.New("get cpu percent: no value reported")
	}
	return percent[0], nil
}

// CPUInfo returns core counts, clock rates and utilization. Like CPUPercent
// it blocks for the sample window.
func (p *Provider) CPUInfo(ctx context.Context) (*models.CPUInfo, error) {
	percent, err := p.CPUPercent(ctx)
	if err != nil {
		return nil, err
	}
	physical, err := p.source.CPUCounts(ctx, false)
	if err != nil {
		klog.V(2).Infof("get physical core count: %s", err)
	}
	logical, err := p.source.CPUCounts(ctx, true)
	if err != nil {
		klog.V(2).Infof("get logical core count: %s", err)
	}
	current, maximum := p.source.CPUFrequency(ctx)
	return &models.CPUInfo{
		PhysicalCores: physical,
		LogicalCores:  logical,
		MaxFreq:       maximum,
		CurrentFreq:   current,
		Percent:       percent,
	}, nil
}

func (p *Provider) MemoryInfo(ctx context.Context) (*models.MemoryInfo, error) {
	v, err := p.source.VirtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("get memory info: %w", err)
	}
	return &models.MemoryInfo{
		Total:     v.Total,
		Available: v.Available,
		Used:      v.Used,
		Free:      v.Free,
		Percent:   v.UsedPercent,
	}, nil
}

// DiskPartitions lists mounted partitions with their usage. Mount points
// that cannot be read are left out of the result.
func (p *Provider) DiskPartitions(ctx context.Context) ([]*models.DiskPartitionInfo, error) {
	partitions, err := p.source.Partitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list partitions: %w", err)
	}
	disks := make([]*models.DiskPartitionInfo, 0, len(partitions))
	for _, d := range partitions {
		if p.goos == "windows" && (d.Fstype == "" || hasOpt(d.Opts, "cdrom")) {
			continue
		}
		usage, err := p.source.Usage(ctx, d.Mountpoint)
		if err != nil {
			if !errors.Is(err, fs.ErrPermission) {
				klog.Warningf("get usage of %s: %s", d.Mountpoint, err)
			}
			continue
		}
		disks = append(disks, &models.DiskPartitionInfo{
			Device:     d.Device,
			Mountpoint: d.Mountpoint,
			Fstype:     d.Fstype,
			Total:      usage.Total,
			Used:       usage.Used,
			Free:       usage.Free,
			Percent:    usage.UsedPercent,
		})
	}
	return disks, nil
}

func hasOpt(opts []string, want string) bool {
	for _, o := range opts {
		if strings.Contains(o, want) {
			return true
		}
	}
	return false
}
