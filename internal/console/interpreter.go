package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	domain "github.com/tinyseq/sequencer/internal/domain/sequencer"
)

// Editor is the configuration contract the console works against.
type Editor interface {
	// Current returns a copy of the running configuration.
	Current() *domain.Config
	// Update applies mutate to a copy of the running configuration, then
	// seals, persists and activates it.
	Update(ctx context.Context, mutate func(cfg *domain.Config) error) error
	// Reset replaces the configuration with the defaults.
	Reset(ctx context.Context) error
	// Reboot reloads the stored configuration and restarts the sequencer.
	Reboot(ctx context.Context) error
}

// Lines drives the simulated input lines of the bench driver.
type Lines interface {
	SetKey(active bool)
	SetRTS(active bool)
}

var (
	// ErrUnknownCommand is returned for input that matches no command.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned for a known command with bad arguments.
	ErrUsage = errors.New("invalid arguments")
	// ErrQuit is returned by the quit command.
	ErrQuit = errors.New("quit")
)

// Interpreter executes console commands against an Editor.
type Interpreter struct {
	editor Editor
	// lines is nil unless the bench driver is in use.
	lines Lines
	out   io.Writer
}

// NewInterpreter creates an interpreter writing its replies to out. lines
// may be nil.
func NewInterpreter(editor Editor, lines Lines, out io.Writer) *Interpreter {
	return &Interpreter{
		editor: editor,
		lines:  lines,
		out:    out,
	}
}

// Execute runs a single input line. Blank lines are ignored.
func (i *Interpreter) Execute(ctx context.Context, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}

	name, args := tokens[0], tokens[1:]

	switch strings.ToLower(name)[0] {
	case 's':
		return i.step(ctx, args)
	case 'r':
		return i.toggle(ctx, "rts", args, func(cfg *domain.Config, on bool) { cfg.Keying.RTSEnable = on })
	case 'c':
		return i.toggle(ctx, "cts", args, func(cfg *domain.Config, on bool) { cfg.Keying.CTSEnable = on })
	case 't':
		return i.timeout(ctx, args)
	case 'd':
		i.display()
		return nil
	case 'i':
		return i.init(ctx, name)
	case 'b':
		return i.boot(ctx, name)
	case 'h', '?':
		i.printf("%s", helpText)
		return nil
	case 'l':
		if i.lines != nil {
			return i.line(args)
		}
	case 'q', 'e':
		return ErrQuit
	}

	return fmt.Errorf("%w: %q, type 'help' for commands", ErrUnknownCommand, name)
}

// step handles "step <0-3> tx <ms>|rx <ms>|open|closed".
func (i *Interpreter) step(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: step <0-3> tx <ms>|rx <ms>|open|closed", ErrUsage)
	}

	idx, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || idx >= domain.StepCount {
		return fmt.Errorf("%w: step index %q out of range 0:%d", ErrUsage, args[0], domain.StepCount-1)
	}

	var mutate func(step *domain.StepConfig)

	switch kind := strings.ToLower(args[1])[0]; kind {
	case 't', 'r':
		ms, err := parseDelay(args[2:])
		if err != nil {
			return err
		}

		if kind == 't' {
			mutate = func(step *domain.StepConfig) { step.TxDelay = ms }
		} else {
			mutate = func(step *domain.StepConfig) { step.RxDelay = ms }
		}
	case 'o':
		mutate = func(step *domain.StepConfig) { step.RxPolarity = domain.Open }
	case 'c':
		mutate = func(step *domain.StepConfig) { step.RxPolarity = domain.Closed }
	default:
		return fmt.Errorf("%w: step argument %q, want tx, rx, open or closed", ErrUsage, args[1])
	}

	return i.update(ctx, func(cfg *domain.Config) error {
		mutate(&cfg.Steps[idx])
		return nil
	})
}

func parseDelay(args []string) (uint8, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing delay", ErrUsage)
	}

	ms, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: delay %q out of range 0:255 ms", ErrUsage, args[0])
	}

	return uint8(ms), nil
}

// toggle handles "rts|cts enable|disable".
func (i *Interpreter) toggle(ctx context.Context, name string, args []string, set func(cfg *domain.Config, on bool)) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: %s enable|disable", ErrUsage, name)
	}

	var on bool

	switch strings.ToLower(args[0])[0] {
	case 'e':
		on = true
	case 'd':
		on = false
	default:
		return fmt.Errorf("%w: %s enable|disable", ErrUsage, name)
	}

	return i.update(ctx, func(cfg *domain.Config) error {
		set(cfg, on)
		return nil
	})
}

// timeout handles "timeout <s>", where zero disables the guard.
func (i *Interpreter) timeout(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: timeout <seconds>", ErrUsage)
	}

	seconds, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("%w: timeout %q out of range 0:65535 s", ErrUsage, args[0])
	}

	return i.update(ctx, func(cfg *domain.Config) error {
		cfg.Keying.Timeout = uint16(seconds)
		return nil
	})
}

func (i *Interpreter) init(ctx context.Context, name string) error {
	if name != "Init" {
		return fmt.Errorf("%w: type 'Init' in full, case sensitive", ErrUsage)
	}

	if err := i.editor.Reset(ctx); err != nil {
		return err
	}

	i.display()

	return nil
}

func (i *Interpreter) boot(ctx context.Context, name string) error {
	if name != "Boot" {
		return fmt.Errorf("%w: type 'Boot' in full, case sensitive", ErrUsage)
	}

	if err := i.editor.Reboot(ctx); err != nil {
		return err
	}

	i.printf("Rebooted\n")
	i.display()

	return nil
}

// line handles "line key|rts on|off".
func (i *Interpreter) line(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: line key|rts on|off", ErrUsage)
	}

	var active bool

	switch strings.ToLower(args[1]) {
	case "on", "1":
		active = true
	case "off", "0":
		active = false
	default:
		return fmt.Errorf("%w: line level %q, want on or off", ErrUsage, args[1])
	}

	switch strings.ToLower(args[0]) {
	case "key", "k":
		i.lines.SetKey(active)
	case "rts", "r":
		i.lines.SetRTS(active)
	default:
		return fmt.Errorf("%w: line %q, want key or rts", ErrUsage, args[0])
	}

	return nil
}

func (i *Interpreter) update(ctx context.Context, mutate func(cfg *domain.Config) error) error {
	if err := i.editor.Update(ctx, mutate); err != nil {
		return err
	}

	i.display()

	return nil
}

func (i *Interpreter) display() {
	i.printf("%s\n", i.editor.Current().Format())
}

func (i *Interpreter) printf(format string, args ...any) {
	//nolint:errcheck // Console output is best effort.
	fmt.Fprintf(i.out, format, args...)
}
