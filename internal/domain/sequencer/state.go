package sequencer

import "fmt"

// Kind tells which part of the chain a State belongs to.
type Kind uint8

const (
	// KindReceive is the idle receive state.
	KindReceive Kind = iota
	// KindTxStep is a timed step moving toward transmit.
	KindTxStep
	// KindTransmit is the steady transmit state.
	KindTransmit
	// KindRxStep is a timed step moving toward receive.
	KindRxStep
)

// State is a position in the chain
//
//	Rx -> S1T -> S2T -> S3T -> S4T -> Tx -> S4R -> S3R -> S2R -> S1R -> Rx
//
// Step carries the zero-based relay index for TxStep and RxStep states and
// is zero otherwise.
type State struct {
	Kind Kind
	Step uint8
}

var (
	// Rx is the receive state.
	Rx = State{Kind: KindReceive}
	// Tx is the transmit state.
	Tx = State{Kind: KindTransmit}
)

// TxStep returns the state asserting relay step on the way to transmit.
func TxStep(step uint8) State {
	return State{Kind: KindTxStep, Step: step}
}

// RxStep returns the state releasing relay step on the way to receive.
func RxStep(step uint8) State {
	return State{Kind: KindRxStep, Step: step}
}

// Transitional reports whether the state runs a dwell timer.
func (s State) Transitional() bool {
	return s.Kind == KindTxStep || s.Kind == KindRxStep
}

// Known reports whether the state is one of the ten chain states.
func (s State) Known() bool {
	switch s.Kind {
	case KindReceive, KindTransmit:
		return s.Step == 0
	case KindTxStep, KindRxStep:
		return s.Step < StepCount
	default:
		return false
	}
}

// String returns the conventional state name, e.g. "S2T".
func (s State) String() string {
	switch {
	case !s.Known():
		return fmt.Sprintf("Unknown(%d,%d)", s.Kind, s.Step)
	case s.Kind == KindReceive:
		return "Rx"
	case s.Kind == KindTransmit:
		return "Tx"
	case s.Kind == KindTxStep:
		return fmt.Sprintf("S%dT", s.Step+1)
	default:
		return fmt.Sprintf("S%dR", s.Step+1)
	}
}

// Event is what the machine observed during one tick.
type Event struct {
	// Key is the gated keying signal.
	Key bool
	// DwellElapsed reports that the current step's dwell has run out.
	DwellElapsed bool
}

// Transition returns the state following s for the observed event.
// Unknown states are held unchanged.
func Transition(s State, ev Event) State {
	if !s.Known() {
		return s
	}

	switch s.Kind {
	case KindReceive:
		if ev.Key {
			return TxStep(0)
		}
	case KindTxStep:
		switch {
		case !ev.Key:
			return RxStep(s.Step)
		case !ev.DwellElapsed:
		case s.Step == StepCount-1:
			return Tx
		default:
			return TxStep(s.Step + 1)
		}
	case KindTransmit:
		if !ev.Key {
			return RxStep(StepCount - 1)
		}
	case KindRxStep:
		switch {
		case ev.Key:
			return TxStep(s.Step)
		case !ev.DwellElapsed:
		case s.Step == 0:
			return Rx
		default:
			return RxStep(s.Step - 1)
		}
	}

	return s
}

// Reversal reports whether moving from prev to next flips direction at
// the same step.
func Reversal(prev, next State) bool {
	if !prev.Transitional() || !next.Transitional() {
		return false
	}

	return prev.Step == next.Step && prev.Kind != next.Kind
}
