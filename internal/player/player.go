// Package player launches the user's configured video player on resolved
// episode files.
package player

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/mondohq/mondo/internal/logging"
)

// Launcher starts an external player process.
type Launcher struct {
	Command string
	Args    []string
	Logger  *logging.Logger
}

// New creates a Launcher for the given player command.
func New(command string, args []string, logger *logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Launcher{
		Command: command,
		Args:    args,
		Logger:  logger,
	}
}

// Play starts the player on path and returns without waiting for it to
// exit. The process is released so it outlives the caller.
func (l *Launcher) Play(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("episode file not found: %w", err)
	}

	cmd := exec.Command(l.Command, append(l.Args, path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %q: %w", l.Command, err)
	}

	l.Logger.Info("player", "player started",
		logging.F("command", l.Command),
		logging.F("file", path),
		logging.F("pid", cmd.Process.Pid))

	return cmd.Process.Release()
}

// PlayAndWait starts the player on path and blocks until it exits or ctx is
// cancelled, for flows that record progress after the player closes.
func (l *Launcher) PlayAndWait(ctx context.Context, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("episode file not found: %w", err)
	}

	cmd := exec.CommandContext(ctx, l.Command, append(l.Args, path)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start player %q: %w", l.Command, err)
	}

	l.Logger.Info("player", "player started",
		logging.F("command", l.Command),
		logging.F("file", path),
		logging.F("pid", cmd.Process.Pid))

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("player exited abnormally: %w", err)
	}
	return nil
}
