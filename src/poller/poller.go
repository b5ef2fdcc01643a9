// Package poller samples CPU and memory utilization on a fixed interval and
// keeps the history windows the dashboard charts.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/clarechu/sys-assistant/src/history"
	"github.com/clarechu/sys-assistant/src/models"
	"k8s.io/klog/v2"
)

// DefaultInterval is the time between two ticks.
const DefaultInterval = time.Second

// MetricsSource is the part of sysinfo.Provider the poller reads.
type MetricsSource interface {
	CPUPercent(ctx context.Context) (float64, error)
	MemoryInfo(ctx context.Context) (*models.MemoryInfo, error)
}

// Snapshot is handed to the sample callback after every successful tick.
// The history slices are copies, ordered oldest to newest.
type Snapshot struct {
	Sample        models.Sample `json:"sample"`
	CPUHistory    []float64     `json:"cpuHistory"`
	MemoryHistory []float64     `json:"memoryHistory"`
}

// Config holds the poll loop tunables.
type Config struct {
	Interval    time.Duration
	HistorySize int
	Scheduler   Scheduler
	// OnError is called when a tick fails to read a metric. Optional.
	OnError func(error)
}

// Poller is either idle (no wake-up pending) or scheduled (exactly one
// wake-up pending). Ticks never overlap, and the history buffers are only
// touched from inside a tick.
type Poller struct {
	source    MetricsSource
	onSample  func(Snapshot)
	onError   func(error)
	scheduler Scheduler
	interval  time.Duration
	now       func() time.Time

	// tickMu serializes ticks and lets Stop wait for one in flight.
	tickMu sync.Mutex
	cpu    *history.Buffer
	memory *history.Buffer

	mu       sync.Mutex
	timer    Timer
	stopped  bool
	latest   Snapshot
	hasValue bool
	// generation identifies the armed timer. A wake-up carrying an older
	// value was superseded by Stop or a restart and does nothing.
	generation uint64
}

// New builds an idle poller. onSample runs on the poller's goroutine and
// must hand the snapshot off rather than touch UI state directly; it must
// not call Stop.
func New(source MetricsSource, onSample func(Snapshot), cfg Config) (*Poller, error) {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = history.DefaultCapacity
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = TimerScheduler
	}
	if onSample == nil {
		onSample = func(Snapshot) {}
	}
	cpu, err := history.New(cfg.HistorySize, 0)
	if err != nil {
		return nil, err
	}
	memory, err := history.New(cfg.HistorySize, 0)
	if err != nil {
		return nil, err
	}
	return &Poller{
		source:    source,
		onSample:  onSample,
		onError:   cfg.OnError,
		scheduler: cfg.Scheduler,
		interval:  cfg.Interval,
		now:       time.Now,
		cpu:       cpu,
		memory:    memory,
	}, nil
}

// Start arms the first wake-up, which fires immediately. Calling Start on a
// scheduled poller does nothing.
func (p *Poller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = false
	if p.timer != nil {
		return
	}
	p.arm(0)
}

// arm must be called with mu held.
func (p *Poller) arm(d time.Duration) {
	p.generation++
	generation := p.generation
	p.timer = p.scheduler.AfterFunc(d, func() { p.wake(generation) })
}

// Stop cancels the pending wake-up and waits for a tick already in flight.
// No sample callback runs after Stop returns.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.generation++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mu.Unlock()

	p.tickMu.Lock()
	defer p.tickMu.Unlock()
}

// Scheduled reports whether a wake-up is pending.
func (p *Poller) Scheduled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timer != nil
}

// Latest returns the most recent snapshot, if any tick has completed.
func (p *Poller) Latest() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.hasValue
}

func (p *Poller) wake(generation uint64) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.mu.Lock()
	if p.stopped || generation != p.generation {
		p.mu.Unlock()
		return
	}
	p.timer = nil
	p.mu.Unlock()

	snapshot, err := p.tick(context.Background())

	p.mu.Lock()
	stopped := p.stopped
	if err == nil {
		p.latest, p.hasValue = snapshot, true
	}
	p.mu.Unlock()

	switch {
	case stopped:
	case err != nil:
		klog.Warningf("poll metrics: %s", err)
		if p.onError != nil {
			p.onError(err)
		}
	default:
		p.onSample(snapshot)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.stopped && p.timer == nil {
		p.arm(p.interval)
	}
}

func (p *Poller) tick(ctx context.Context) (Snapshot, error) {
	cpuPercent, err := p.source.CPUPercent(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	memory, err := p.source.MemoryInfo(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	p.cpu.Append(cpuPercent)
	p.memory.Append(memory.Percent)
	return Snapshot{
		Sample: models.Sample{
			Timestamp:     p.now(),
			CPUPercent:    p.cpu.Last(),
			MemoryPercent: p.memory.Last(),
		},
		CPUHistory:    p.cpu.Snapshot(),
		MemoryHistory: p.memory.Snapshot(),
	}, nil
}
