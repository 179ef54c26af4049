package gpucam

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gpucam/internal/gpu"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for gpucam and its GPU layer.
// By default, gpucam produces no log output. Pass nil to restore silence.
//
// Log levels used by gpucam:
//   - [slog.LevelDebug]: per-frame diagnostics (resize, reconfigure, skipped frames)
//   - [slog.LevelInfo]: lifecycle events (backend probed, adapter selected, setup complete)
//   - [slog.LevelWarn]: skipped frames after a draw failure
//   - [slog.LevelError]: capability and initialization failures
//
// Example:
//
//	gpucam.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by gpucam.
// Integration packages call this to share the same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
