package status

import (
	"context"
	"os"
	"time"

	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
	"github.com/tinyseq/sequencer/internal/hardware"
	"github.com/tinyseq/sequencer/internal/sequencer"
)

// Source provides the status of the running sequencer.
type Source interface {
	Status() sequencer.Status
}

// Server implements the StatusService gRPC API.
type Server struct {
	// source is the running engine.
	source Source
	// hostname is reported with every snapshot.
	hostname string
	// now stamps snapshots.
	now func() time.Time
}

// NewServer wires the provided source into a gRPC handler.
func NewServer(source Source) *Server {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return &Server{
		source:   source,
		hostname: hostname,
		now:      time.Now,
	}
}

// GetStatus returns a snapshot of the last tick.
func (s *Server) GetStatus(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snapshot, err := structpb.NewStruct(toFields(s.source.Status(), s.hostname, s.now()))
	if err != nil {
		return nil, grpcstatus.Error(codes.Internal, "unable to encode status")
	}

	return snapshot, nil
}

// toFields converts an engine status to the generic structure sent on the wire.
func toFields(st sequencer.Status, hostname string, now time.Time) map[string]any {
	relays := make([]any, 0, len(st.Relays))
	for _, position := range st.Relays {
		relays = append(relays, position.String())
	}

	return map[string]any{
		fieldState:       st.State.String(),
		fieldRelays:      relays,
		fieldCTS:         st.CTS,
		fieldHeld:        st.Held,
		fieldRemaining:   st.Remaining,
		fieldTicks:       st.Ticks,
		fieldMillis:      st.Millis,
		fieldHost:        hostname,
		fieldTime:        now.UTC().Format(time.RFC3339Nano),
		fieldKeys:        keysFields(st.Keys),
		fieldConfig:      configFields(&st.Config),
		fieldTimeoutFlag: st.Keys.TimeoutFlag,
	}
}

func keysFields(keys sequencer.KeyState) map[string]any {
	return map[string]any{
		"key_line": keys.RawKey == hardware.KeyActive,
		"rts_line": keys.RawRTS == hardware.RTSActive,
		"combined": keys.Combined,
		"key":      keys.Key,
	}
}

func configFields(cfg *domain.Config) map[string]any {
	steps := make([]any, 0, len(cfg.Steps))
	for _, step := range cfg.Steps {
		steps = append(steps, map[string]any{
			"rx_polarity": step.RxPolarity.String(),
			"tx_delay_ms": uint32(step.TxDelay),
			"rx_delay_ms": uint32(step.RxDelay),
		})
	}

	return map[string]any{
		"steps":      steps,
		"rts_enable": cfg.Keying.RTSEnable,
		"cts_enable": cfg.Keying.CTSEnable,
		"timeout_s":  uint32(cfg.Keying.Timeout),
		"checksum":   uint32(cfg.Checksum),
	}
}
