package sequencer

import "math"

// msPerSecond converts the configured timeout to milliseconds.
const msPerSecond = 1000

// TimeoutGuard trips when the key request is held longer than the
// configured transmit timeout. Once tripped it stays tripped until the
// request is observed released.
type TimeoutGuard struct {
	held    uint32
	tripped bool
}

// Update accounts elapsed milliseconds since the previous tick and returns
// the timeout flag. A timeout of zero disables the guard.
func (g *TimeoutGuard) Update(combined bool, elapsed uint32, timeout uint16) bool {
	if !combined {
		g.held = 0
		g.tripped = false

		return false
	}

	if elapsed > math.MaxUint32-g.held {
		g.held = math.MaxUint32
	} else {
		g.held += elapsed
	}

	if timeout == 0 {
		g.tripped = false
		return false
	}

	if g.held > uint32(timeout)*msPerSecond {
		g.tripped = true
	}

	return g.tripped
}

// Tripped returns the current flag.
func (g *TimeoutGuard) Tripped() bool {
	return g.tripped
}

// Held returns how long the request has been held, in milliseconds.
func (g *TimeoutGuard) Held() uint32 {
	return g.held
}
