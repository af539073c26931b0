// Package reload asks the running compositor to re-read its config.
package reload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/hyprconf/hyprconf/internal/logging"
)

// DefaultTimeout bounds a reload when none is configured.
const DefaultTimeout = 5 * time.Second

const waitDelay = 500 * time.Millisecond

// DefaultCommand is the argv used when none is configured.
var DefaultCommand = []string{"hyprctl", "reload"}

// ReloadError reports a reload that could not run or exited non-zero. A
// preceding save is not rolled back.
type ReloadError struct {
	Command string
	Code    int // exit code, -1 if the process did not exit normally
	Output  string
	Err     error
}

func (e *ReloadError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Command)
	if e.Code >= 0 {
		msg = fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Reloader runs the reload command.
type Reloader struct {
	command []string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Reloader. An empty command or non-positive timeout selects
// the defaults.
func New(command []string, timeout time.Duration, logger *slog.Logger) *Reloader {
	if len(command) == 0 {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reloader{command: command, timeout: timeout, logger: logger}
}

// Reload runs the command and returns its trimmed combined output.
func (r *Reloader) Reload(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	name := strings.Join(r.command, " ")
	r.logger.Debug("Running reload command.", "command", name, "timeout", r.timeout)

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	// Children that inherit the output pipe must not outlive the timeout.
	cmd.WaitDelay = waitDelay
	output, err := cmd.CombinedOutput()
	out := strings.TrimSpace(string(output))
	if err == nil {
		r.logger.Info("Reload succeeded.", "command", name)
		return out, nil
	}

	rerr := &ReloadError{Command: name, Code: -1, Output: out, Err: err}
	var exitErr *exec.ExitError
	if ctx.Err() != nil {
		rerr.Err = fmt.Errorf("timed out after %s: %w", r.timeout, ctx.Err())
	} else if errors.As(err, &exitErr) {
		rerr.Code = exitErr.ExitCode()
	}
	r.logger.Warn("Reload failed.", "command", name, "code", rerr.Code, "error", err)
	return out, rerr
}

// Available checks if the reload binary exists and is executable.
func (r *Reloader) Available() bool {
	_, err := exec.LookPath(r.command[0])
	return err == nil
}

// Command returns the configured argv.
func (r *Reloader) Command() []string {
	return r.command
}
