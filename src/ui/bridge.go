package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/poller"
)

// Sender is satisfied by *tea.Program. Send is safe from any goroutine and
// returns once the program has exited.
type Sender interface {
	Send(msg tea.Msg)
}

// SampleForwarder is a poller callback that hands snapshots to the program.
func SampleForwarder(s Sender) func(poller.Snapshot) {
	return func(snapshot poller.Snapshot) {
		s.Send(SampleMsg{Snapshot: snapshot})
	}
}

// ErrorForwarder is a poller error callback.
func ErrorForwarder(s Sender) func(error) {
	return func(err error) {
		s.Send(PollErrorMsg{Err: err})
	}
}

// ForwardEvents relays orchestrator events until ctx is done.
func ForwardEvents(ctx context.Context, events <-chan maintenance.Event, s Sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			s.Send(OperationEventMsg{Event: ev})
		}
	}
}
