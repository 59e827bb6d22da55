package hardware

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic millisecond counter. It wraps around at 2^32.
type Clock interface {
	Millis() uint32
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct {
	start time.Time
}

// NewSystemClock returns a clock starting at zero now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Millis returns the elapsed milliseconds modulo 2^32.
func (c *SystemClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds()) //nolint:gosec // Wraparound is expected.
}

// ManualClock is a clock advanced explicitly, for tests and replay.
type ManualClock struct {
	now atomic.Uint32
}

// NewManualClock returns a clock reading start.
func NewManualClock(start uint32) *ManualClock {
	c := new(ManualClock)
	c.now.Store(start)

	return c
}

// Millis returns the current reading.
func (c *ManualClock) Millis() uint32 {
	return c.now.Load()
}

// Advance moves the clock forward by ms, wrapping at 2^32.
func (c *ManualClock) Advance(ms uint32) {
	c.now.Add(ms)
}
