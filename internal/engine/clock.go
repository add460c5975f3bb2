package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies wall time for configuration timing.
//
// Runtimes are the only wall-clock values the engine records. Tests inject
// a stepping clock so that reported runtimes are reproducible.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sequence is a monotonic counter that stamps every configuration run with
// its position in the whole run. It is safe for concurrent use.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next sequence number, starting at 1.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last number handed out without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
