package logger

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel accepts every zap level name, any case, and rejects the rest.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":    zapcore.DebugLevel,
		" Info ":   zapcore.InfoLevel,
		"WARN":     zapcore.WarnLevel,
		"error":    zapcore.ErrorLevel,
		"dpanic":   zapcore.DPanicLevel,
		"panic":    zapcore.PanicLevel,
		"fatal":    zapcore.FatalLevel,
		"\tdebug ": zapcore.DebugLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got, s)
	}

	got, ok := ParseLogLevel("verbose")
	require.False(t, ok)
	require.Equal(t, zapcore.InfoLevel, got)
}

// captureOutput redirects the shared output into a buffer until the test ends.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stdout) })

	return &buf
}

// TestSetOutput moves both new and existing loggers to the new writer.
func TestSetOutput(t *testing.T) {
	buf := captureOutput(t)

	New(zapcore.DebugLevel).Debug("engine tick")
	Info(context.Background(), "relay 1 closed")

	require.Contains(t, buf.String(), "engine tick")
	require.Contains(t, buf.String(), "relay 1 closed")
}

// TestSetLevel filters loggers that follow the global level.
func TestSetLevel(t *testing.T) {
	buf := captureOutput(t)

	previous := Level()
	t.Cleanup(func() { SetLevel(previous) })

	SetLevel(zapcore.WarnLevel)
	require.Equal(t, zapcore.WarnLevel, Level())

	log := New(nil)
	log.Info("step armed")
	log.Warn("transmit timeout")

	require.NotContains(t, buf.String(), "step armed")
	require.Contains(t, buf.String(), "transmit timeout")

	SetLevel(zapcore.DebugLevel)
	log.Debug("dwell elapsed")
	require.Contains(t, buf.String(), "dwell elapsed")
}
