package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestFromContext_FallsBackToGlobal verifies a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithNameAndFields checks named loggers and fields reach the core.
func TestWithNameAndFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	ctx = WithName(ctx, "sequencer")
	ctx = WithKV(ctx, "driver", "bench")
	ctx = WithFields(ctx, "tick_ms", 10)

	InfoKV(ctx, "State changed", "to", "S1T")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "sequencer", entries[0].LoggerName)
	require.Equal(t, "State changed", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "bench", fields["driver"])
	require.EqualValues(t, 10, fields["tick_ms"])
	require.Equal(t, "S1T", fields["to"])
}

// TestWithMinLevel lets one logger write below the level of its core.
func TestWithMinLevel(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())

	Debug(ctx, "dropped")
	require.Zero(t, logs.Len())

	traced := WithMinLevel(ctx, zapcore.DebugLevel)
	DebugKV(traced, "State changed", "to", "S1T")
	require.Equal(t, 1, logs.FilterMessage("State changed").Len())

	quiet := WithMinLevel(ctx, zapcore.ErrorLevel)
	Warn(quiet, "dropped")
	require.Equal(t, 1, logs.Len())
}
