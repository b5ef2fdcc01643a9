// Package maintenance sequences package-manager commands into named
// operations and reports one result per operation.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clarechu/sys-assistant/src/models"
	"k8s.io/klog/v2"
)

var (
	// ErrBusy is returned when an operation is already running.
	ErrBusy = errors.New("maintenance: another operation is in progress")
	// ErrUnknownOperation is returned for names outside the catalogue.
	ErrUnknownOperation = errors.New("maintenance: unknown operation")
)

// PermissionMessage is logged when the process lacks elevated privileges.
const PermissionMessage = "This operation requires root privileges. Please run with sudo."

// CommandRunner is satisfied by *command.Runner.
type CommandRunner interface {
	Privileged() bool
	Run(ctx context.Context, argv []string, onLine func(string)) (models.CommandOutcome, error)
}

type EventType int

const (
	EventStarted EventType = iota
	EventLine
	EventFinished
)

func (t EventType) String() string {
	switch t {
	case EventStarted:
		return "started"
	case EventLine:
		return "line"
	case EventFinished:
		return "finished"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Event is delivered on the orchestrator's channel for operations launched
// with Start. Result is set only on EventFinished.
type Event struct {
	Type      EventType
	Operation string
	Line      string
	Result    *models.MaintenanceResult
}

// DefaultEventBuffer is the capacity of the event channel.
const DefaultEventBuffer = 256

// Orchestrator runs at most one operation at a time.
type Orchestrator struct {
	runner     CommandRunner
	order      []string
	operations map[string]Operation
	inFlight   atomic.Bool
	events     chan Event
	now        func() time.Time
}

// New builds an orchestrator over the given catalogue. A later operation
// with the same name replaces an earlier one.
func New(runner CommandRunner, operations ...Operation) *Orchestrator {
	o := &Orchestrator{
		runner:     runner,
		operations: make(map[string]Operation, len(operations)),
		events:     make(chan Event, DefaultEventBuffer),
		now:        time.Now,
	}
	for _, op := range operations {
		if _, ok := o.operations[op.Name]; !ok {
			o.order = append(o.order, op.Name)
		}
		o.operations[op.Name] = op
	}
	return o
}

// Operations returns the catalogue in registration order.
func (o *Orchestrator) Operations() []Operation {
	out := make([]Operation, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.operations[name])
	}
	return out
}

// Busy reports whether an operation is in flight.
func (o *Orchestrator) Busy() bool {
	return o.inFlight.Load()
}

// Events carries progress of operations launched with Start. The consumer
// must keep reading while an operation runs; the worker blocks when the
// buffer is full.
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// Start launches the named operation on a worker goroutine and returns
// immediately. Progress and the final result arrive on Events. The busy flag
// is cleared before EventFinished is delivered, so a consumer reacting to it
// can start the next operation.
func (o *Orchestrator) Start(ctx context.Context, name string) error {
	op, err := o.acquire(name)
	if err != nil {
		return err
	}
	go func() {
		o.events <- Event{Type: EventStarted, Operation: name}
		result := o.execute(ctx, op, func(line string) {
			o.events <- Event{Type: EventLine, Operation: name, Line: line}
		})
		o.inFlight.Store(false)
		o.events <- Event{Type: EventFinished, Operation: name, Result: &result}
	}()
	return nil
}

// RunOperation runs the named operation on the calling goroutine, passing
// each log line to onLine. Only ErrBusy and ErrUnknownOperation are returned
// as errors; every other failure is described by the result.
func (o *Orchestrator) RunOperation(ctx context.Context, name string, onLine func(string)) (models.MaintenanceResult, error) {
	op, err := o.acquire(name)
	if err != nil {
		return models.MaintenanceResult{Operation: name}, err
	}
	defer o.inFlight.Store(false)
	if onLine == nil {
		onLine = func(string) {}
	}
	return o.execute(ctx, op, onLine), nil
}

func (o *Orchestrator) acquire(name string) (Operation, error) {
	op, ok := o.operations[name]
	if !ok {
		return Operation{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if !o.inFlight.CompareAndSwap(false, true) {
		return Operation{}, ErrBusy
	}
	return op, nil
}

// execute never panics; a panic in a step is logged and turned into a
// failed result.
func (o *Orchestrator) execute(ctx context.Context, op Operation, onLine func(string)) (result models.MaintenanceResult) {
	result = models.MaintenanceResult{Operation: op.Name, StartedAt: o.now()}
	defer func() {
		if r := recover(); r != nil {
			klog.Errorf("maintenance %s: recovered from panic: %v", op.Name, r)
			msg := fmt.Sprintf("Unexpected error: %v", r)
			safeLine(onLine, msg)
			result.Succeeded = false
			result.ExitCode = -1
			result.Error = msg
		}
		result.FinishedAt = o.now()
		klog.Infof("maintenance %s finished: succeeded=%t failedStep=%q exitCode=%d",
			op.Name, result.Succeeded, result.FailedStep, result.ExitCode)
	}()

	onLine(fmt.Sprintf("Starting %s...", lowerFirst(op.Title)))
	if !o.runner.Privileged() {
		klog.Warningf("maintenance %s: elevated privileges required", op.Name)
		onLine(PermissionMessage)
		result.PermissionDenied = true
		result.ExitCode = -1
		result.Error = PermissionMessage
		return result
	}

	for i, step := range op.Steps {
		if i > 0 {
			onLine("")
		}
		onLine(step.Title + "...")
		klog.Infof("maintenance %s: running step %s: %s", op.Name, step.Name, strings.Join(step.Argv, " "))
		outcome, err := o.runner.Run(ctx, step.Argv, onLine)
		result.Steps = append(result.Steps, models.StepResult{Step: step.Name, Outcome: outcome})
		if err != nil {
			klog.Errorf("maintenance %s: step %s: %s", op.Name, step.Name, err)
			msg := fmt.Sprintf("Unexpected error: %s", err)
			onLine(msg)
			result.FailedStep = step.Name
			result.ExitCode = -1
			result.Error = msg
			return result
		}
		if outcome.PermissionDenied {
			onLine(PermissionMessage)
			result.FailedStep = step.Name
			result.PermissionDenied = true
			result.ExitCode = outcome.ExitCode
			result.Error = PermissionMessage
			return result
		}
		if !outcome.Succeeded {
			onLine(fmt.Sprintf("Error %s: exit code %d.", lowerFirst(step.Title), outcome.ExitCode))
			if result.FailedStep == "" {
				result.FailedStep = step.Name
				result.ExitCode = outcome.ExitCode
				result.Error = outcome.Error
			}
			if step.AllowFailure {
				klog.Warningf("maintenance %s: step %s failed with code %d, continuing", op.Name, step.Name, outcome.ExitCode)
				continue
			}
			return result
		}
	}

	// A tolerated failure lets later steps run but still fails the operation.
	if result.FailedStep != "" {
		onLine("")
		onLine(op.Title + " completed with errors.")
		return result
	}
	result.Succeeded = true
	onLine("")
	onLine(op.Title + " completed successfully!")
	return result
}

// safeLine forwards a line from the recover path, where onLine itself may
// be what panicked.
func safeLine(onLine func(string), line string) {
	defer func() {
		_ = recover()
	}()
	onLine(line)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
