//go:build linux
// +build linux

package sysinfo

import (
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/prometheus/procfs/sysfs"
	"k8s.io/klog/v2"
)

// readCPUFrequency reads cpu0's cpufreq entries from /sys. Values are kHz.
func readCPUFrequency() (current, maximum models.Frequency) {
	current, maximum = models.FrequencyUnknown, models.FrequencyUnknown
	fs, err := sysfs.NewDefaultFS()
	if err != nil {
		klog.V(2).Infof("open sysfs: %s", err)
		return
	}
	stats, err := fs.SystemCpufreq()
	if err != nil || len(stats) == 0 {
		klog.V(2).Infof("read cpufreq: %v", err)
		return
	}
	return cpufreqToFrequency(stats[0])
}

func cpufreqToFrequency(stat sysfs.SystemCPUCpufreqStats) (current, maximum models.Frequency) {
	current, maximum = models.FrequencyUnknown, models.FrequencyUnknown
	switch {
	case stat.ScalingCurrentFrequency != nil && *stat.ScalingCurrentFrequency > 0:
		current = models.Frequency(float64(*stat.ScalingCurrentFrequency) / 1000)
	case stat.CpuinfoCurrentFrequency != nil && *stat.CpuinfoCurrentFrequency > 0:
		current = models.Frequency(float64(*stat.CpuinfoCurrentFrequency) / 1000)
	}
	if stat.CpuinfoMaximumFrequency != nil && *stat.CpuinfoMaximumFrequency > 0 {
		maximum = models.Frequency(float64(*stat.CpuinfoMaximumFrequency) / 1000)
	}
	return current, maximum
}
