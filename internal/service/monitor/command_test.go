package monitor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tinyseq/sequencer/internal/logger"
)

var errTestUnavailable = errors.New("unavailable")

// scriptedClient replays a list of states.
type scriptedClient struct {
	states []string
	calls  int
	err    error
}

func (c *scriptedClient) GetStatus(context.Context) (*structpb.Struct, error) {
	if c.err != nil {
		return nil, c.err
	}

	state := c.states[min(c.calls, len(c.states)-1)]
	c.calls++

	return structpb.NewStruct(map[string]any{
		"state":   state,
		"timeout": state == "Rx-timeout",
		"relays":  []any{"Open", "Open", "Open", "Open"},
		"host":    "bench",
	})
}

func observedContext() (context.Context, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)

	return logger.ToContext(context.Background(), zap.New(core).Sugar()), logs
}

// TestPoll_LogsChangesOnly reports the first snapshot and every state change.
func TestPoll_LogsChangesOnly(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()
	client := &scriptedClient{states: []string{"Rx", "Rx", "S1T", "S1T", "Rx-timeout", "Rx"}}

	err := poll(ctx, client, &Options{PollInterval: time.Millisecond, Count: 6})
	require.NoError(t, err)
	require.Equal(t, 6, client.calls)

	require.Equal(t, 1, logs.FilterMessage("Sequencer status").Len())
	require.Equal(t, 3, logs.FilterMessage("State changed").Len())
	require.Equal(t, 1, logs.FilterMessage("Transmit timeout tripped").Len())
	require.Equal(t, 1, logs.FilterMessage("Transmit timeout cleared").Len())
}

// TestPoll_JSON prints every snapshot as one JSON line.
func TestPoll_JSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	client := &scriptedClient{states: []string{"Rx", "S1T"}}

	err := poll(context.Background(), client, &Options{PollInterval: time.Millisecond, Count: 2, JSON: true, Output: &out})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &decoded))
	require.Equal(t, "S1T", decoded["state"])
}

// TestPoll_ErrorsAreLogged keeps polling when the server is unavailable.
func TestPoll_ErrorsAreLogged(t *testing.T) {
	t.Parallel()

	ctx, logs := observedContext()
	client := &scriptedClient{err: errTestUnavailable}

	require.NoError(t, poll(ctx, client, &Options{PollInterval: time.Millisecond, Count: 3}))
	require.Equal(t, 3, logs.FilterMessage("Check status failed").Len())
}

// TestPoll_StopsOnCancel returns once the context is canceled.
func TestPoll_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, poll(ctx, &scriptedClient{states: []string{"Rx"}}, &Options{PollInterval: time.Hour}))
}
