package console

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
)

// fakeEditor keeps the configuration in memory and counts calls.
type fakeEditor struct {
	cfg     domain.Config
	saves   int
	resets  int
	reboots int
	failErr error
}

func newFakeEditor() *fakeEditor {
	return &fakeEditor{cfg: domain.Defaults()}
}

func (f *fakeEditor) Current() *domain.Config {
	return f.cfg.Clone()
}

func (f *fakeEditor) Update(_ context.Context, mutate func(cfg *domain.Config) error) error {
	if f.failErr != nil {
		return f.failErr
	}

	next := f.cfg.Clone()
	if err := mutate(next); err != nil {
		return err
	}

	next.Seal()
	f.cfg = *next
	f.saves++

	return nil
}

func (f *fakeEditor) Reset(_ context.Context) error {
	f.cfg = domain.Defaults()
	f.resets++

	return nil
}

func (f *fakeEditor) Reboot(_ context.Context) error {
	f.reboots++
	return nil
}

// fakeLines records the simulated line levels.
type fakeLines struct {
	key, rts bool
}

func (f *fakeLines) SetKey(active bool) { f.key = active }
func (f *fakeLines) SetRTS(active bool) { f.rts = active }

// TestExecute_Edits covers the configuration editing commands.
func TestExecute_Edits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	editor := newFakeEditor()

	var out bytes.Buffer

	in := NewInterpreter(editor, nil, &out)

	require.NoError(t, in.Execute(ctx, "s 0 t 100"))
	require.NoError(t, in.Execute(ctx, "STEP 1 Rx 7"))
	require.NoError(t, in.Execute(ctx, "step 3 closed"))
	require.NoError(t, in.Execute(ctx, "step 3 o"))
	require.NoError(t, in.Execute(ctx, "step 2 c"))
	require.NoError(t, in.Execute(ctx, "r d"))
	require.NoError(t, in.Execute(ctx, "cts disable"))
	require.NoError(t, in.Execute(ctx, "t 0"))

	cfg := editor.cfg
	require.EqualValues(t, 100, cfg.Steps[0].TxDelay)
	require.EqualValues(t, 7, cfg.Steps[1].RxDelay)
	require.Equal(t, domain.Open, cfg.Steps[3].RxPolarity)
	require.Equal(t, domain.Closed, cfg.Steps[2].RxPolarity)
	require.False(t, cfg.Keying.RTSEnable)
	require.False(t, cfg.Keying.CTSEnable)
	require.Zero(t, cfg.Keying.Timeout)
	require.True(t, cfg.Valid())
	require.Equal(t, 8, editor.saves)

	require.Contains(t, out.String(), "Tx timeout disabled")

	require.NoError(t, in.Execute(ctx, "timeout 65535"))
	require.EqualValues(t, 65535, editor.cfg.Keying.Timeout)
}

// TestExecute_Rejects verifies malformed commands leave the configuration alone.
func TestExecute_Rejects(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	editor := newFakeEditor()
	in := NewInterpreter(editor, nil, new(bytes.Buffer))

	cases := []struct {
		line string
		want error
	}{
		{"step", ErrUsage},
		{"step 4 t 10", ErrUsage},
		{"step -1 t 10", ErrUsage},
		{"step x t 10", ErrUsage},
		{"step 0 t", ErrUsage},
		{"step 0 t 256", ErrUsage},
		{"step 0 x", ErrUsage},
		{"rts", ErrUsage},
		{"cts maybe", ErrUsage},
		{"timeout", ErrUsage},
		{"timeout 65536", ErrUsage},
		{"timeout -5", ErrUsage},
		{"init", ErrUsage},
		{"INIT", ErrUsage},
		{"boot", ErrUsage},
		{"line key on", ErrUnknownCommand},
		{"zap", ErrUnknownCommand},
	}

	for _, tc := range cases {
		require.ErrorIs(t, in.Execute(ctx, tc.line), tc.want, tc.line)
	}

	require.Zero(t, editor.saves)
	require.Zero(t, editor.resets)
	require.Zero(t, editor.reboots)
	require.Equal(t, domain.Defaults(), editor.cfg)
}

// TestExecute_InitBootHelpQuit covers the whole-word and informational commands.
func TestExecute_InitBootHelpQuit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	editor := newFakeEditor()

	var out bytes.Buffer

	in := NewInterpreter(editor, nil, &out)

	require.NoError(t, in.Execute(ctx, "t 5"))
	require.NoError(t, in.Execute(ctx, "Init"))
	require.Equal(t, 1, editor.resets)
	require.Equal(t, domain.Defaults(), editor.cfg)

	require.NoError(t, in.Execute(ctx, "Boot"))
	require.Equal(t, 1, editor.reboots)

	out.Reset()
	require.NoError(t, in.Execute(ctx, "help"))
	require.Contains(t, out.String(), "Sequencer console commands")

	out.Reset()
	require.NoError(t, in.Execute(ctx, "d"))
	require.Contains(t, out.String(), "Step 0")

	require.NoError(t, in.Execute(ctx, "   "))
	require.ErrorIs(t, in.Execute(ctx, "quit"), ErrQuit)
}

// TestExecute_EditorError passes store failures through.
func TestExecute_EditorError(t *testing.T) {
	t.Parallel()

	editor := newFakeEditor()
	editor.failErr = errors.New("disk full")

	in := NewInterpreter(editor, nil, new(bytes.Buffer))

	require.ErrorIs(t, in.Execute(context.Background(), "r e"), editor.failErr)
}

// TestExecute_Lines drives the bench input lines.
func TestExecute_Lines(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	lines := new(fakeLines)
	in := NewInterpreter(newFakeEditor(), lines, new(bytes.Buffer))

	require.NoError(t, in.Execute(ctx, "line key on"))
	require.True(t, lines.key)
	require.NoError(t, in.Execute(ctx, "l rts 1"))
	require.True(t, lines.rts)
	require.NoError(t, in.Execute(ctx, "line key off"))
	require.False(t, lines.key)

	require.ErrorIs(t, in.Execute(ctx, "line cts on"), ErrUsage)
	require.ErrorIs(t, in.Execute(ctx, "line key maybe"), ErrUsage)
	require.ErrorIs(t, in.Execute(ctx, "line"), ErrUsage)
}
