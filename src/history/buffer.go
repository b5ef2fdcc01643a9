// Package history keeps the fixed-size sample windows drawn by the charts.
package history

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned when a buffer is built with capacity < 1.
var ErrInvalidCapacity = errors.New("history: capacity must be positive")

// DefaultCapacity is one minute of samples at the default poll interval.
const DefaultCapacity = 60

// Buffer is a fixed-capacity FIFO window. It is always full: construction
// fills every slot, and each Append evicts the oldest value.
//
// Buffer is not safe for concurrent use; the poller owns it.
type Buffer struct {
	values []float64
	// head is the index of the oldest value.
	head int
}

// New returns a buffer of the given capacity with every slot set to fill.
func New(capacity int, fill float64) (*Buffer, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	values := make([]float64, capacity)
	for i := range values {
		values[i] = fill
	}
	return &Buffer{values: values}, nil
}

// Append evicts the oldest value and stores v as the newest.
func (b *Buffer) Append(v float64) {
	b.values[b.head] = v
	b.head = (b.head + 1) % len(b.values)
}

// Snapshot returns the window ordered oldest to newest. The returned slice
// is a copy.
func (b *Buffer) Snapshot() []float64 {
	out := make([]float64, 0, len(b.values))
	out = append(out, b.values[b.head:]...)
	out = append(out, b.values[:b.head]...)
	return out
}

// Last returns the newest value.
func (b *Buffer) Last() float64 {
	return b.values[(b.head+len(b.values)-1)%len(b.values)]
}
