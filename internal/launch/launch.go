// Package launch runs a child process with inherited standard streams and
// reports its exit code.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// ErrSpawn is returned when the child cannot be started.
var ErrSpawn = errors.New("launch: spawn failed")

// FailureCode is the exit code reported when the child never ran or was
// killed by a signal.
const FailureCode = 1

// DefaultGracePeriod is how long a canceled child may take to exit after
// the interrupt before it is killed.
const DefaultGracePeriod = 5 * time.Second

// Launcher starts child processes. The zero value inherits the parent's
// standard streams and environment and logs nothing.
type Launcher struct {
	Logger *slog.Logger

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Env, when non-nil, replaces the inherited environment.
	Env []string

	// GracePeriod bounds the wait after an interrupt on cancellation.
	// Zero uses DefaultGracePeriod.
	GracePeriod time.Duration
}

// Run starts name with args, waits for it and returns its exit code.
//
// A child that runs and exits non-zero is not an error: its code is
// returned with a nil error. A child that cannot be started returns
// FailureCode and an error wrapping ErrSpawn. Canceling ctx interrupts
// the child and kills it after the grace period.
func (l *Launcher) Run(ctx context.Context, name string, args ...string) (int, error) {
	log := l.logger()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = orDefault[io.Reader](l.Stdin, os.Stdin)
	cmd.Stdout = orDefault[io.Writer](l.Stdout, os.Stdout)
	cmd.Stderr = orDefault[io.Writer](l.Stderr, os.Stderr)
	cmd.Env = l.Env
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }
	cmd.WaitDelay = l.GracePeriod
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultGracePeriod
	}

	if err := cmd.Start(); err != nil {
		log.Error("launch: spawn failed", "command", name, "err", err)
		return FailureCode, fmt.Errorf("%w: %s: %w", ErrSpawn, name, err)
	}
	log.Info("launch: started", "command", name, "pid", cmd.Process.Pid)

	err := cmd.Wait()
	code := cmd.ProcessState.ExitCode()

	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		log.Info("launch: exited", "command", name, "code", code)
		return exitCode(code), nil
	default:
		log.Warn("launch: wait failed", "command", name, "code", code, "err", err)
		return exitCode(code), fmt.Errorf("launch: wait %s: %w", name, err)
	}
}

// exitCode maps the -1 reported for signal deaths to FailureCode.
func exitCode(code int) int {
	if code < 0 {
		return FailureCode
	}
	return code
}

func (l *Launcher) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.Logger
}

// orDefault returns def when v is a nil interface. Only the interface is
// checked, so v may hold a value of a type that is not comparable.
func orDefault[T any](v, def T) T {
	if any(v) == nil {
		return def
	}
	return v
}
