package testutil

import (
	"sync"
	"time"
)

// Epoch2024 is the fixed instant most fixtures start from.
var Epoch2024 = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FixedClock is a thread-safe clock for tests that hands out predictable
// instants: the first call to Now returns start, every later call advances
// by step.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int64
}

// NewFixedClock creates a clock starting at start. A zero step makes every
// call return start.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{start: start, step: step}
}

// Now returns the next instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *FixedClock) Calls() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next call to Now returns start again.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}

// MustTime parses an RFC 3339 instant and panics on malformed input.
func MustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		panic(err)
	}
	return t
}
