package poller

import "time"

// Timer is a pending wake-up.
type Timer interface {
	// Stop prevents the wake-up from firing. It reports whether the call
	// stopped it, false if it already fired or was stopped.
	Stop() bool
}

// Scheduler runs f once after d. It decouples the poll loop from any
// particular clock or UI toolkit.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, f func()) Timer

func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// TimerScheduler schedules on the runtime timer heap.
var TimerScheduler Scheduler = SchedulerFunc(func(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
})
