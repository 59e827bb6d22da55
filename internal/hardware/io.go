package hardware

import (
	"errors"
	"fmt"
)

// Pin identifies a digital pin by its driver-specific number.
type Pin uint8

// Level is the electrical level of a pin.
type Level bool

const (
	// Low is the low level.
	Low Level = false
	// High is the high level.
	High Level = true
)

// String returns "High" or "Low".
func (l Level) String() string {
	if l {
		return "High"
	}

	return "Low"
}

// Mode is the direction of a pin.
type Mode uint8

const (
	// Input is a floating input.
	Input Mode = iota
	// InputPullUp is an input with the internal pull-up enabled.
	InputPullUp
	// Output is a push-pull output.
	Output
)

// IO reads and drives digital pins. Calls have no error path; hardware
// faults are not detected at this layer.
type IO interface {
	Read(pin Pin) Level
	Write(pin Pin, level Level)
	Configure(pin Pin, mode Mode)
}

// RelayCount is the number of relay outputs.
const RelayCount = 4

// Pins maps the sequencer roles to pins.
type Pins struct {
	// Key is the active-low hardware key input.
	Key Pin `yaml:"key"`
	// RTS is the active-low serial RTS input.
	RTS Pin `yaml:"rts"`
	// CTS is the active-low serial CTS output.
	CTS Pin `yaml:"cts"`
	// Relays are the step outputs, innermost first.
	Relays [RelayCount]Pin `yaml:"relays"`
}

// Active levels of the sequencer lines.
const (
	// KeyActive is the key input level while keyed.
	KeyActive = Low
	// RTSActive is the RTS input level while RTS is up.
	RTSActive = Low
	// CTSActive is the CTS output level while CTS is up.
	CTSActive = Low
)

// ErrDuplicatePin is returned when two roles share a pin.
var ErrDuplicatePin = errors.New("pin assigned to more than one role")

// Validate checks that every role has its own pin.
func (p Pins) Validate() error {
	seen := make(map[Pin]string, RelayCount+3)

	check := func(pin Pin, role string) error {
		if other, ok := seen[pin]; ok {
			return fmt.Errorf("%w: pin %d used by %s and %s", ErrDuplicatePin, pin, other, role)
		}

		seen[pin] = role

		return nil
	}

	if err := check(p.Key, "key"); err != nil {
		return err
	}

	if err := check(p.RTS, "rts"); err != nil {
		return err
	}

	if err := check(p.CTS, "cts"); err != nil {
		return err
	}

	for i, pin := range p.Relays {
		if err := check(pin, fmt.Sprintf("relay %d", i)); err != nil {
			return err
		}
	}

	return nil
}

// Init configures the pin directions: key and RTS as pulled-up inputs,
// CTS deasserted, relays as outputs.
func Init(io IO, pins Pins) {
	io.Configure(pins.Key, InputPullUp)
	io.Configure(pins.RTS, InputPullUp)

	io.Configure(pins.CTS, Output)
	io.Write(pins.CTS, !CTSActive)

	for _, pin := range pins.Relays {
		io.Configure(pin, Output)
	}
}
