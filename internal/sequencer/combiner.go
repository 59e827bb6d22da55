package sequencer

import (
	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
	"github.com/tinyseq/sequencer/internal/hardware"
)

// KeyState is the keying picture of one tick. It is never persisted.
type KeyState struct {
	// RawKey is the level read from the key line.
	RawKey hardware.Level
	// RawRTS is the level read from the RTS line.
	RawRTS hardware.Level
	// Combined is the key request before timeout gating.
	Combined bool
	// TimeoutFlag is set while the transmit timeout is tripped.
	TimeoutFlag bool
	// Key is the signal the machine acts on.
	Key bool
}

// Combine merges the active-low key and RTS lines into one key request.
// RTS only counts when enabled.
func Combine(rawKey, rawRTS hardware.Level, keying domain.KeyingConfig) bool {
	positiveKey := rawKey == hardware.KeyActive
	positiveRTS := keying.RTSEnable && rawRTS == hardware.RTSActive

	return positiveKey || positiveRTS
}

// Gate applies the timeout flag to the combined request. With the
// timeout disabled the flag is ignored.
func Gate(combined, timeoutFlag bool, keying domain.KeyingConfig) bool {
	if keying.Timeout > 0 {
		return combined && !timeoutFlag
	}

	return combined
}
