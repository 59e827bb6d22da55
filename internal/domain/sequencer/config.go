package sequencer

import (
	"fmt"
	"strings"

	"github.com/howeyc/crc16"
)

// StepCount is the number of relay steps in the chain.
const StepCount = 4

// Polarity is the contact position of a relay.
type Polarity uint8

const (
	// Open means the relay contacts are open.
	Open Polarity = iota
	// Closed means the relay contacts are closed.
	Closed
)

// Opposite returns the other contact position.
func (p Polarity) Opposite() Polarity {
	if p == Closed {
		return Open
	}

	return Closed
}

// String returns a human-readable polarity name.
func (p Polarity) String() string {
	if p == Closed {
		return "Closed"
	}

	return "Open"
}

// StepConfig configures one relay step.
type StepConfig struct {
	// RxPolarity is the contact position while receiving (idle).
	RxPolarity Polarity
	// TxDelay is the dwell in milliseconds after asserting the relay.
	TxDelay uint8
	// RxDelay is the dwell in milliseconds after releasing the relay.
	RxDelay uint8
}

// TxPolarity returns the contact position while transmitting.
func (s StepConfig) TxPolarity() Polarity {
	return s.RxPolarity.Opposite()
}

// KeyingConfig configures the keying inputs and the transmit timeout.
type KeyingConfig struct {
	// RTSEnable allows the serial RTS line to key the sequencer.
	RTSEnable bool
	// CTSEnable asserts CTS once the sequence reaches Tx.
	CTSEnable bool
	// Timeout is the maximum transmit hold in seconds, 0 disables it.
	Timeout uint16
}

// Config is the persisted sequencer configuration.
type Config struct {
	// Steps are ordered from the innermost to the outermost relay.
	Steps [StepCount]StepConfig
	// Keying holds the key/RTS/CTS and timeout settings.
	Keying KeyingConfig
	// Checksum is the CRC16 of every other field in record form.
	Checksum uint16
}

// Default values for the factory configuration.
const (
	DefaultTxDelay = 50
	DefaultRxDelay = 50
	DefaultTimeout = 120
)

// Defaults returns the factory configuration, already sealed.
func Defaults() Config {
	var cfg Config

	for i := range cfg.Steps {
		cfg.Steps[i] = StepConfig{
			RxPolarity: Open,
			TxDelay:    DefaultTxDelay,
			RxDelay:    DefaultRxDelay,
		}
	}

	cfg.Keying = KeyingConfig{
		RTSEnable: true,
		CTSEnable: true,
		Timeout:   DefaultTimeout,
	}

	cfg.Seal()

	return cfg
}

// ComputeChecksum returns the CRC16 over the record without its checksum.
func (c *Config) ComputeChecksum() uint16 {
	record := c.record()

	return crc16.ChecksumIBM(record[:checksumOffset])
}

// Seal recomputes the checksum after a mutation.
func (c *Config) Seal() {
	c.Checksum = c.ComputeChecksum()
}

// Valid reports whether the stored checksum matches the contents and every
// step polarity is Open or Closed.
func (c *Config) Valid() bool {
	for _, step := range c.Steps {
		if step.RxPolarity > Closed {
			return false
		}
	}

	return c.Checksum == c.ComputeChecksum()
}

// Validate reports whether cfg is present and Valid.
func Validate(cfg *Config) bool {
	return cfg != nil && cfg.Valid()
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cloned := *c

	return &cloned
}

// Format renders the configuration for the console and logs.
func (c *Config) Format() string {
	var b strings.Builder

	for i, step := range c.Steps {
		fmt.Fprintf(&b, "Step %d, %-6s on Rx, Tx delay %3d ms, Rx delay %3d ms\n",
			i, step.RxPolarity, step.TxDelay, step.RxDelay)
	}

	fmt.Fprintf(&b, "RTS %s, CTS %s\n", enabledString(c.Keying.RTSEnable), enabledString(c.Keying.CTSEnable))

	if c.Keying.Timeout == 0 {
		b.WriteString("Tx timeout disabled\n")
	} else {
		fmt.Fprintf(&b, "Tx timeout %d s\n", c.Keying.Timeout)
	}

	fmt.Fprintf(&b, "CRC 0x%04x", c.Checksum)

	return b.String()
}

func enabledString(enabled bool) string {
	if enabled {
		return "enabled"
	}

	return "disabled"
}
