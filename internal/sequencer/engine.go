package sequencer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
	"github.com/tinyseq/sequencer/internal/hardware"
	"github.com/tinyseq/sequencer/internal/logger"
)

// DefaultTickInterval is the period of the tick loop.
const DefaultTickInterval = 10 * time.Millisecond

var (
	// errInvalidConfig is returned when a Config fails its checksum.
	errInvalidConfig = errors.New("configuration checksum mismatch")
	// errInvalidInterval is returned for a non-positive tick interval.
	errInvalidInterval = errors.New("tick interval must be positive")
)

// Status is a copy of the engine state after a tick.
type Status struct {
	// State is the machine state.
	State domain.State
	// Keys is the keying picture of the tick.
	Keys KeyState
	// Relays are the positions last written to the relays.
	Relays [domain.StepCount]domain.Polarity
	// CTS reports whether CTS is asserted.
	CTS bool
	// Held is how long the key request has been held, in milliseconds.
	Held uint32
	// Remaining is what is left of the current dwell, in milliseconds.
	Remaining uint32
	// Config is the configuration the tick ran with.
	Config domain.Config
	// Ticks counts completed ticks.
	Ticks uint64
	// Millis is the clock reading of the tick.
	Millis uint32
}

// Engine runs the per-tick pipeline over injected I/O and clock.
type Engine struct {
	io    hardware.IO
	clock hardware.Clock
	pins  hardware.Pins

	// config is replaced whole by SetConfig; a tick loads it once.
	config atomic.Pointer[domain.Config]
	// resetRequested is consumed by the next tick.
	resetRequested atomic.Bool

	// tickMu serializes ticks.
	tickMu   sync.Mutex
	machine  *Machine
	guard    TimeoutGuard
	outputs  *pinOutputs
	lastTick uint32
	ticks    uint64

	// statusMu protects status.
	statusMu sync.RWMutex
	status   Status
}

// NewEngine creates an engine in Rx running cfg. The Config must be valid.
func NewEngine(io hardware.IO, clock hardware.Clock, pins hardware.Pins, cfg *domain.Config) (*Engine, error) {
	if !domain.Validate(cfg) {
		return nil, errInvalidConfig
	}

	if err := pins.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		io:       io,
		clock:    clock,
		pins:     pins,
		machine:  NewMachine(),
		outputs:  &pinOutputs{io: io, pins: pins},
		lastTick: clock.Millis(),
	}

	e.config.Store(cfg.Clone())

	return e, nil
}

// InitPins configures the pin directions and drives every output to its
// receive position.
func (e *Engine) InitPins() {
	hardware.Init(e.io, e.pins)
	driveIdle(e.config.Load(), e.outputs)
}

// Config returns a copy of the running configuration.
func (e *Engine) Config() *domain.Config {
	return e.config.Load().Clone()
}

// SetConfig replaces the running configuration. The next tick sees either
// the old or the new Config, never a mix.
func (e *Engine) SetConfig(cfg *domain.Config) error {
	if !domain.Validate(cfg) {
		return errInvalidConfig
	}

	e.config.Store(cfg.Clone())

	return nil
}

// Reset returns the machine to Rx on the next tick. That tick drives every
// output idle before the key is evaluated, so a held key restarts from S1T.
func (e *Engine) Reset() {
	e.resetRequested.Store(true)
}

// Status returns the state after the most recent tick.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()

	return e.status
}

// Tick runs one full pass: read inputs, combine, guard, advance, write.
func (e *Engine) Tick(ctx context.Context) {
	e.tickMu.Lock()
	defer e.tickMu.Unlock()

	cfg := e.config.Load()
	now := e.clock.Millis()
	elapsed := now - e.lastTick
	e.lastTick = now

	if e.resetRequested.CompareAndSwap(true, false) {
		e.machine.Reset(cfg, e.outputs)
		logger.Info(ctx, "Sequencer reset to Rx, outputs idle")
	}

	keys := KeyState{
		RawKey: e.io.Read(e.pins.Key),
		RawRTS: e.io.Read(e.pins.RTS),
	}

	wasTripped := e.guard.Tripped()
	keys.Combined = Combine(keys.RawKey, keys.RawRTS, cfg.Keying)
	keys.TimeoutFlag = e.guard.Update(keys.Combined, elapsed, cfg.Keying.Timeout)
	keys.Key = Gate(keys.Combined, keys.TimeoutFlag, cfg.Keying)

	switch {
	case keys.TimeoutFlag && !wasTripped:
		logger.WarnKV(ctx, "Transmit timeout, forcing receive", "timeout_s", cfg.Keying.Timeout, "held_ms", e.guard.Held())
	case !keys.TimeoutFlag && wasTripped:
		logger.Info(ctx, "Key released, transmit timeout cleared")
	}

	prev := e.machine.Step(keys.Key, now, cfg, e.outputs)
	if state := e.machine.State(); state != prev {
		logger.DebugKV(ctx, "State changed", "from", prev.String(), "to", state.String(), "ms", now)
	}

	e.ticks++
	e.publish(keys, now, cfg)
}

// Run ticks every interval until ctx is done.
func (e *Engine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return errInvalidInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.InfoKV(ctx, "Sequencer running", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Sequencer stopped")
			return nil
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

func (e *Engine) publish(keys KeyState, now uint32, cfg *domain.Config) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status = Status{
		State:     e.machine.State(),
		Keys:      keys,
		Relays:    e.outputs.relays,
		CTS:       e.outputs.cts,
		Held:      e.guard.Held(),
		Remaining: e.machine.Remaining(now),
		Config:    *cfg,
		Ticks:     e.ticks,
		Millis:    now,
	}
}

// pinOutputs maps relay positions and CTS onto pin levels and remembers
// what was written last.
type pinOutputs struct {
	io     hardware.IO
	pins   hardware.Pins
	relays [domain.StepCount]domain.Polarity
	cts    bool
}

// SetRelay drives a relay: Closed is High, Open is Low.
func (o *pinOutputs) SetRelay(step uint8, position domain.Polarity) {
	o.io.Write(o.pins.Relays[step], position == domain.Closed)
	o.relays[step] = position
}

// SetCTS drives the active-low CTS line.
func (o *pinOutputs) SetCTS(asserted bool) {
	level := hardware.CTSActive
	if !asserted {
		level = !level
	}

	o.io.Write(o.pins.CTS, level)
	o.cts = asserted
}
