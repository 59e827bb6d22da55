package hardware

import "sync"

// Bench is an in-memory pin bank. Unconfigured and pulled-up pins read
// High, like a floating line with the pull-up enabled.
type Bench struct {
	levels map[Pin]Level
	modes  map[Pin]Mode
	// writes counts Write calls per pin.
	writes map[Pin]int
	mu     sync.Mutex
}

// NewBench returns an empty pin bank.
func NewBench() *Bench {
	return &Bench{
		levels: make(map[Pin]Level),
		modes:  make(map[Pin]Mode),
		writes: make(map[Pin]int),
	}
}

// Read returns the level of pin.
func (b *Bench) Read(pin Pin) Level {
	b.mu.Lock()
	defer b.mu.Unlock()

	level, ok := b.levels[pin]
	if !ok {
		return High
	}

	return level
}

// Write drives pin to level.
func (b *Bench) Write(pin Pin, level Level) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.levels[pin] = level
	b.writes[pin]++
}

// Configure records the pin mode.
func (b *Bench) Configure(pin Pin, mode Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.modes[pin] = mode
}

// Set forces an input line to level, as external equipment would.
func (b *Bench) Set(pin Pin, level Level) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.levels[pin] = level
}

// Mode returns the configured mode of pin and whether it was configured.
func (b *Bench) Mode(pin Pin) (Mode, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	mode, ok := b.modes[pin]

	return mode, ok
}

// Writes returns how many times pin was written.
func (b *Bench) Writes(pin Pin) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.writes[pin]
}
