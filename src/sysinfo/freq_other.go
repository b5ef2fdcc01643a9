//go:build !linux
// +build !linux

package sysinfo

import "github.com/clarechu/sys-assistant/src/models"

// readCPUFrequency has no cpufreq interface outside Linux; the caller falls
// back to the rated clock from cpu.Info.
func readCPUFrequency() (current, maximum models.Frequency) {
	return models.FrequencyUnknown, models.FrequencyUnknown
}
