// Package raspi drives sequencer pins on a Raspberry Pi through go-rpio.
// Pin numbers are BCM GPIO numbers.
package raspi

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"github.com/tinyseq/sequencer/internal/hardware"
)

// GPIO implements hardware.IO over the memory-mapped GPIO block.
type GPIO struct{}

// Open maps the GPIO registers. Close must be called to release them.
func Open() (*GPIO, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("open gpio: %w", err)
	}

	return new(GPIO), nil
}

// Close unmaps the GPIO registers.
func (g *GPIO) Close() error {
	return rpio.Close()
}

// Read returns the level of pin.
func (g *GPIO) Read(pin hardware.Pin) hardware.Level {
	return rpio.Pin(pin).Read() == rpio.High
}

// Write drives pin to level.
func (g *GPIO) Write(pin hardware.Pin, level hardware.Level) {
	if level == hardware.High {
		rpio.Pin(pin).High()
		return
	}

	rpio.Pin(pin).Low()
}

// Configure sets the pin direction and pull.
func (g *GPIO) Configure(pin hardware.Pin, mode hardware.Mode) {
	p := rpio.Pin(pin)

	switch mode {
	case hardware.Input:
		p.Input()
		p.PullOff()
	case hardware.InputPullUp:
		p.Input()
		p.PullUp()
	case hardware.Output:
		p.Output()
	}
}
