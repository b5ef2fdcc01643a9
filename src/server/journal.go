package server

import (
	"context"
	"sync"

	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/models"
	"k8s.io/klog/v2"
)

// OperationObserver is told when operations begin and end.
type OperationObserver interface {
	OperationStarted(operation string)
	OperationFinished(result models.MaintenanceResult)
}

// Journal drains the orchestrator's events, keeping the most recent log
// lines and the last result for the status endpoint. The running operation
// and the last result change together, so a status never pairs "idle" with
// the result of the operation before.
type Journal struct {
	events   <-chan maintenance.Event
	observer OperationObserver
	maxLines int

	mu         sync.RWMutex
	running    string
	lines      []string
	lastResult *models.MaintenanceResult
}

func NewJournal(events <-chan maintenance.Event, observer OperationObserver, maxLines int) *Journal {
	if maxLines <= 0 {
		maxLines = 500
	}
	return &Journal{
		events:   events,
		observer: observer,
		maxLines: maxLines,
	}
}

// Run consumes events until ctx is done.
func (j *Journal) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-j.events:
			j.apply(ev)
		}
	}
}

func (j *Journal) apply(ev maintenance.Event) {
	switch ev.Type {
	case maintenance.EventStarted:
		j.mu.Lock()
		j.running = ev.Operation
		j.lines = j.lines[:0]
		j.mu.Unlock()
		if j.observer != nil {
			j.observer.OperationStarted(ev.Operation)
		}
	case maintenance.EventLine:
		klog.V(3).Infof("[%s] %s", ev.Operation, ev.Line)
		j.mu.Lock()
		j.lines = append(j.lines, ev.Line)
		if over := len(j.lines) - j.maxLines; over > 0 {
			j.lines = append(j.lines[:0], j.lines[over:]...)
		}
		j.mu.Unlock()
	case maintenance.EventFinished:
		j.mu.Lock()
		j.running = ""
		if ev.Result == nil {
			j.mu.Unlock()
			return
		}
		result := *ev.Result
		j.lastResult = &result
		j.mu.Unlock()
		if j.observer != nil {
			j.observer.OperationFinished(result)
		}
	}
}

// Status returns a copy of the journal's view. Operations is left for the
// caller to fill in.
func (j *Journal) Status() models.MaintenanceStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	status := models.MaintenanceStatus{
		Busy: j.running != "",
		Log:  append([]string{}, j.lines...),
	}
	if j.lastResult != nil {
		result := *j.lastResult
		status.LastResult = &result
	}
	return status
}
