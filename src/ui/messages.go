package ui

import (
	"time"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/clarechu/sys-assistant/src/poller"
)

// SampleMsg carries one poll tick into the program.
type SampleMsg struct {
	Snapshot poller.Snapshot
}

// PollErrorMsg reports a tick that produced no sample.
type PollErrorMsg struct {
	Err error
}

// OperationEventMsg carries maintenance progress into the program.
type OperationEventMsg struct {
	Event maintenance.Event
}

type hostInfoMsg struct {
	info *models.HostInfo
	err  error
}

type cpuInfoMsg struct {
	info *models.CPUInfo
	err  error
}

type disksMsg struct {
	disks []*models.DiskPartitionInfo
	err   error
}

type refreshTickMsg time.Time
