package sequencer

// StepTimer measures the dwell of a transitional state against a
// wrapping millisecond counter.
type StepTimer struct {
	start uint32
	delay uint32
	armed bool
}

// Arm starts a dwell of delay milliseconds at now.
func (t *StepTimer) Arm(now uint32, delay uint8) {
	t.start = now
	t.delay = uint32(delay)
	t.armed = true
}

// Disarm discards the timer.
func (t *StepTimer) Disarm() {
	*t = StepTimer{}
}

// Armed reports whether a dwell is running.
func (t *StepTimer) Armed() bool {
	return t.armed
}

// Elapsed returns the milliseconds since Arm. Modular subtraction keeps it
// correct across counter wraparound.
func (t *StepTimer) Elapsed(now uint32) uint32 {
	if !t.armed {
		return 0
	}

	return now - t.start
}

// Expired reports whether the dwell has run out.
func (t *StepTimer) Expired(now uint32) bool {
	return t.armed && t.Elapsed(now) >= t.delay
}

// Remaining returns the milliseconds left, zero once expired.
func (t *StepTimer) Remaining(now uint32) uint32 {
	elapsed := t.Elapsed(now)
	if !t.armed || elapsed >= t.delay {
		return 0
	}

	return t.delay - elapsed
}
