package sequencer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning indicates another sequencer process owns the I/O.
var ErrAlreadyRunning = errors.New("another sequencer is already running")

// ensureSingleInstance fails if another process runs the same executable.
func ensureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	processList, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if pid, found := findOther(processList, os.Getpid(), filepath.Base(executable)); found {
		return fmt.Errorf("%w: pid %d", ErrAlreadyRunning, pid)
	}

	return nil
}

// findOther returns the first process other than self named name.
func findOther(processList []ps.Process, self int, name string) (int, bool) {
	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if process.Executable() == name {
			return process.Pid(), true
		}
	}

	return 0, false
}
