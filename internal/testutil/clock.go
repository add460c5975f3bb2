package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant a StepClock reports.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// StepClock is a deterministic clock for tests. Every call to Now advances
// it by a fixed step, so a configuration timed with two Now calls always
// measures exactly one step.
//
// Unlike engine.SystemClock, StepClock can be reset for test reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	step  time.Duration
	ticks int64
}

// NewStepClock creates a clock that advances by step on every Now call.
//
// The first call to Now returns Epoch.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{step: step}
}

// Now returns the current instant and advances the clock.
//
// Implements engine.Clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := Epoch.Add(time.Duration(c.ticks) * c.step)
	c.ticks++
	return now
}

// Ticks returns how many times Now has been called.
func (c *StepClock) Ticks() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Reset rewinds the clock to Epoch.
//
// Used for test reuse. After Reset(), the next call to Now returns Epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ticks = 0
}
