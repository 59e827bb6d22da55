package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/tinyseq/sequencer/internal/logger"
)

// Prompt is printed before every console line.
const Prompt = "sequencer> "

// Shell is the interactive readline front end of the interpreter.
type Shell struct {
	rl          *readline.Instance
	interpreter *Interpreter
}

// NewShell creates a shell on the terminal.
func NewShell(editor Editor, lines Lines) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline: %w", err)
	}

	return &Shell{
		rl:          rl,
		interpreter: NewInterpreter(editor, lines, rl.Stdout()),
	}, nil
}

// Stdout returns a writer that does not tear the prompt. Use it for logs.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	defer s.rl.Close()

	go func() {
		<-ctx.Done()
		//nolint:errcheck // Unblocks Readline on shutdown.
		s.rl.Close()
	}()

	s.interpreter.display()

	for {
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}

			// EOF, or the instance was closed.
			return nil
		}

		err = s.interpreter.Execute(ctx, strings.TrimSpace(line))

		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case errors.Is(err, ErrUnknownCommand), errors.Is(err, ErrUsage):
			s.interpreter.printf("%v\n", err)
		case err != nil:
			logger.ErrorKV(ctx, "Console command failed", "command", line, "error", err)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}
