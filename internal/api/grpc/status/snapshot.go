package status

import (
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Top-level field names of a status snapshot.
const (
	fieldState       = "state"
	fieldRelays      = "relays"
	fieldCTS         = "cts"
	fieldHeld        = "held_ms"
	fieldRemaining   = "remaining_ms"
	fieldTicks       = "ticks"
	fieldMillis      = "millis"
	fieldHost        = "host"
	fieldTime        = "time"
	fieldKeys        = "keys"
	fieldConfig      = "config"
	fieldTimeoutFlag = "timeout"
)

// Snapshot is the decoded form of a status reply.
type Snapshot struct {
	// State is the conventional state name, e.g. "S2T".
	State string
	// Relays are the relay positions, innermost first.
	Relays []string
	// CTS reports whether CTS is asserted.
	CTS bool
	// Key is the gated key the machine saw.
	Key bool
	// TimedOut reports a tripped transmit timeout.
	TimedOut bool
	// Held is how long the key request has been held.
	Held time.Duration
	// Remaining is what is left of the current dwell.
	Remaining time.Duration
	// Ticks counts completed ticks.
	Ticks uint64
	// Host is the machine running the sequencer.
	Host string
	// Time is when the snapshot was taken; zero if absent.
	Time time.Time
}

// ParseSnapshot decodes a status reply. Missing fields stay at their zero value.
func ParseSnapshot(reply *structpb.Struct) Snapshot {
	fields := reply.GetFields()

	snapshot := Snapshot{
		State:     fields[fieldState].GetStringValue(),
		CTS:       fields[fieldCTS].GetBoolValue(),
		TimedOut:  fields[fieldTimeoutFlag].GetBoolValue(),
		Held:      millis(fields[fieldHeld]),
		Remaining: millis(fields[fieldRemaining]),
		Ticks:     uint64(fields[fieldTicks].GetNumberValue()),
		Host:      fields[fieldHost].GetStringValue(),
		Key:       fields[fieldKeys].GetStructValue().GetFields()["key"].GetBoolValue(),
	}

	for _, relay := range fields[fieldRelays].GetListValue().GetValues() {
		snapshot.Relays = append(snapshot.Relays, relay.GetStringValue())
	}

	if stamp, err := time.Parse(time.RFC3339Nano, fields[fieldTime].GetStringValue()); err == nil {
		snapshot.Time = stamp
	}

	return snapshot
}

func millis(v *structpb.Value) time.Duration {
	return time.Duration(v.GetNumberValue()) * time.Millisecond
}
