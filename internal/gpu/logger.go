package gpu

import (
	"log/slog"
	"sync/atomic"
)

// discard is used until SetLogger installs a logger.
var discard = slog.New(slog.DiscardHandler)

// current holds the installed logger, already tagged with component=gpu.
var current atomic.Pointer[slog.Logger]

// slogger returns the GPU layer's logger.
func slogger() *slog.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return discard
}

// SetLogger installs l for the GPU layer. Records are tagged with
// component=gpu so they can be told apart from the App's own lines.
// A nil l silences the layer again. gpucam.SetLogger calls it.
func SetLogger(l *slog.Logger) {
	if l == nil {
		current.Store(nil)
		return
	}
	current.Store(l.With("component", "gpu"))
}
