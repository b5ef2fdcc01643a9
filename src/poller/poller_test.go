package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/clarechu/sys-assistant/src/history"
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu     sync.Mutex
	cpu    float64
	memory float64
	cpuErr error
	calls  int
}

func (f *fakeSource) CPUPercent(context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.cpu, f.cpuErr
}

func (f *fakeSource) MemoryInfo(context.Context) (*models.MemoryInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.MemoryInfo{Percent: f.memory}, nil
}

type fakeTimer struct {
	s       *fakeScheduler
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler records wake-ups; tests fire them by hand.
type fakeScheduler struct {
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{s: s, d: d, f: f}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the single pending wake-up.
func (s *fakeScheduler) fire(t *testing.T) {
	t.Helper()
	pending := s.pending()
	require.Len(t, pending, 1)
	pending[0].fired = true
	pending[0].f()
}

func newTestPoller(t *testing.T, src MetricsSource, onSample func(Snapshot)) (*Poller, *fakeScheduler) {
	t.Helper()
	sched := &fakeScheduler{}
	p, err := New(src, onSample, Config{Interval: time.Second, Scheduler: sched})
	require.NoError(t, err)
	return p, sched
}

func TestPoller_TickAppendsAndNotifies(t *testing.T) {
	src := &fakeSource{cpu: 42.5, memory: 61}
	var got []Snapshot
	p, sched := newTestPoller(t, src, func(s Snapshot) { got = append(got, s) })

	p.Start()
	pending := sched.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, time.Duration(0), pending[0].d)

	sched.fire(t)

	require.Len(t, got, 1)
	snap := got[0]
	assert.Equal(t, 42.5, snap.Sample.CPUPercent)
	assert.Equal(t, 61.0, snap.Sample.MemoryPercent)
	require.Len(t, snap.CPUHistory, history.DefaultCapacity)
	assert.Equal(t, 42.5, snap.CPUHistory[len(snap.CPUHistory)-1])
	assert.Equal(t, 61.0, snap.MemoryHistory[len(snap.MemoryHistory)-1])

	// re-armed for the next interval
	pending = sched.pending()
	require.Len(t, pending, 1)
	assert.Equal(t, time.Second, pending[0].d)

	latest, ok := p.Latest()
	require.True(t, ok)
	assert.Equal(t, snap.Sample, latest.Sample)
}

func TestPoller_HistoryLengthFixed(t *testing.T) {
	tests := []struct {
		name  string
		ticks int
	}{
		{name: "none", ticks: 0},
		{name: "one", ticks: 1},
		{name: "exactly full", ticks: history.DefaultCapacity},
		{name: "wrapped", ticks: 2*history.DefaultCapacity + 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}
			var last Snapshot
			p, sched := newTestPoller(t, src, func(s Snapshot) { last = s })
			p.Start()
			for i := 0; i < tt.ticks; i++ {
				src.cpu = float64(i)
				sched.fire(t)
				require.Len(t, last.CPUHistory, history.DefaultCapacity)
				require.Len(t, last.MemoryHistory, history.DefaultCapacity)
			}
			assert.Equal(t, tt.ticks, src.calls)
		})
	}
}

func TestPoller_StartIsIdempotent(t *testing.T) {
	p, sched := newTestPoller(t, &fakeSource{}, nil)
	p.Start()
	p.Start()
	assert.Len(t, sched.pending(), 1)
	assert.True(t, p.Scheduled())

	sched.fire(t)
	p.Start()
	assert.Len(t, sched.pending(), 1)
}

func TestPoller_StopUnschedules(t *testing.T) {
	var calls int
	p, sched := newTestPoller(t, &fakeSource{}, func(Snapshot) { calls++ })
	p.Start()
	sched.fire(t)
	require.Equal(t, 1, calls)

	armed := sched.pending()
	require.Len(t, armed, 1)

	p.Stop()
	assert.Empty(t, sched.pending())
	assert.False(t, p.Scheduled())

	// a wake-up that raced with Stop must not reach the callback
	armed[0].f()
	assert.Equal(t, 1, calls)
	assert.Empty(t, sched.pending())
}

func TestPoller_ErrorSkipsSampleButReArms(t *testing.T) {
	src := &fakeSource{cpuErr: errors.New("no /proc")}
	var samples, failures int
	sched := &fakeScheduler{}
	p, err := New(src, func(Snapshot) { samples++ }, Config{
		Scheduler: sched,
		OnError:   func(error) { failures++ },
	})
	require.NoError(t, err)

	p.Start()
	sched.fire(t)
	assert.Equal(t, 0, samples)
	assert.Equal(t, 1, failures)
	assert.Len(t, sched.pending(), 1)
	_, ok := p.Latest()
	assert.False(t, ok)
}

func TestPoller_InvalidHistorySize(t *testing.T) {
	_, err := New(&fakeSource{}, nil, Config{HistorySize: -1})
	require.ErrorIs(t, err, history.ErrInvalidCapacity)
}

func TestPoller_RealTimer(t *testing.T) {
	var ticks atomic.Int32
	p, err := New(&fakeSource{cpu: 1}, func(Snapshot) { ticks.Add(1) }, Config{Interval: 5 * time.Millisecond})
	require.NoError(t, err)

	p.Start()
	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, 2*time.Second, time.Millisecond)
	p.Stop()

	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ticks.Load())
}

func TestPoller_RestartIgnoresStaleWakeUp(t *testing.T) {
	var calls int
	p, sched := newTestPoller(t, &fakeSource{}, func(Snapshot) { calls++ })
	p.Start()
	first := sched.pending()
	require.Len(t, first, 1)

	// the timer fires but its callback is delayed past a Stop and Start
	first[0].fired = true
	p.Stop()
	p.Start()
	require.Len(t, sched.pending(), 1)

	first[0].f()
	assert.Equal(t, 0, calls)
	assert.Len(t, sched.pending(), 1)
	assert.True(t, p.Scheduled())

	sched.fire(t)
	assert.Equal(t, 1, calls)
	assert.Len(t, sched.pending(), 1)
}
