package sequencer

import (
	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
)

// Outputs receives the relay and CTS writes of the machine.
type Outputs interface {
	SetRelay(step uint8, position domain.Polarity)
	SetCTS(asserted bool)
}

// Machine walks the ten-state chain. It owns the dwell timer of the
// current transitional state and is not safe for concurrent use.
type Machine struct {
	state domain.State
	timer StepTimer
	// held is set while a relay stays in transmit position after the key
	// dropped mid-step; it is released once its Rx dwell has run out.
	held bool
}

// NewMachine returns a machine in Rx.
func NewMachine() *Machine {
	return &Machine{state: domain.Rx}
}

// State returns the current state.
func (m *Machine) State() domain.State {
	return m.state
}

// Remaining returns the milliseconds left in the current dwell.
func (m *Machine) Remaining(now uint32) uint32 {
	return m.timer.Remaining(now)
}

// Reset puts the machine back in Rx and drives every relay to its idle
// position with CTS deasserted, as after power-up. A key still held
// starts a fresh forward chain from there.
func (m *Machine) Reset(cfg *domain.Config, out Outputs) {
	m.state = domain.Rx
	m.timer.Disarm()
	m.held = false

	driveIdle(cfg, out)
}

// Step advances one tick with the gated key at time now and returns the
// state the tick started from.
func (m *Machine) Step(key bool, now uint32, cfg *domain.Config, out Outputs) domain.State {
	prev := m.state

	ev := domain.Event{
		Key:          key,
		DwellElapsed: m.dwellElapsed(now),
	}

	next := domain.Transition(prev, ev)
	if next == prev {
		m.stay(now, cfg, out)
		return prev
	}

	m.enter(prev, next, now, cfg, out)
	m.state = next

	return prev
}

// dwellElapsed reports whether the current step may move on. A step whose
// relay is still held over from a reversal has not started its own dwell.
func (m *Machine) dwellElapsed(now uint32) bool {
	return m.state.Transitional() && !m.held && m.timer.Expired(now)
}

func (m *Machine) stay(now uint32, cfg *domain.Config, out Outputs) {
	switch m.state.Kind {
	case domain.KindReceive:
		driveIdle(cfg, out)
	case domain.KindTransmit:
		out.SetCTS(cfg.Keying.CTSEnable)
	case domain.KindRxStep:
		// The held relay is released once its Rx dwell has run out, then
		// dwells again in its idle position before the chain moves down.
		if m.held && m.timer.Expired(now) {
			step := cfg.Steps[m.state.Step]
			out.SetRelay(m.state.Step, step.RxPolarity)
			m.held = false
			m.timer.Arm(now, step.RxDelay)
		}
	case domain.KindTxStep:
	}
}

func (m *Machine) enter(prev, next domain.State, now uint32, cfg *domain.Config, out Outputs) {
	switch next.Kind {
	case domain.KindReceive:
		m.timer.Disarm()
		m.held = false
		driveIdle(cfg, out)
	case domain.KindTxStep:
		step := cfg.Steps[next.Step]
		out.SetRelay(next.Step, step.TxPolarity())
		m.held = false
		m.timer.Arm(now, step.TxDelay)
	case domain.KindTransmit:
		m.timer.Disarm()
		out.SetCTS(cfg.Keying.CTSEnable)
	case domain.KindRxStep:
		if prev.Kind == domain.KindTransmit {
			out.SetCTS(false)
		}

		step := cfg.Steps[next.Step]
		if domain.Reversal(prev, next) {
			m.held = true
		} else {
			out.SetRelay(next.Step, step.RxPolarity)
		}

		m.timer.Arm(now, step.RxDelay)
	}
}

func driveIdle(cfg *domain.Config, out Outputs) {
	for i, step := range cfg.Steps {
		out.SetRelay(uint8(i), step.RxPolarity) //nolint:gosec // i < StepCount.
	}

	out.SetCTS(false)
}
