package gpucam

import (
	"fmt"
	"log/slog"
	"strings"
)

// Status texts shown to the user.
const (
	StatusReady       = "Ready"
	StatusRendering   = "Rendering Quad"
	StatusInitialized = "Initialized"
	StatusUnsupported = "GPU not supported on this system"
)

// StatusSink receives human-readable status text.
type StatusSink interface {
	SetStatus(text string)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(text string)

// SetStatus calls f(text).
func (f StatusFunc) SetStatus(text string) { f(text) }

// ErrorStatus formats err the way the status sink shows failures.
func ErrorStatus(err error) string {
	return "Error: " + err.Error()
}

// LogStatus returns a sink that writes every status change to l at info
// level. A nil logger uses the package logger.
func LogStatus(l *slog.Logger) StatusSink {
	return StatusFunc(func(text string) {
		lg := l
		if lg == nil {
			lg = Logger()
		}
		lg.Info("gpucam: status", "text", text)
	})
}

// MultiStatus fans status text out to every non-nil sink in order.
func MultiStatus(sinks ...StatusSink) StatusSink {
	var live []StatusSink
	for _, s := range sinks {
		if s != nil {
			live = append(live, s)
		}
	}
	return StatusFunc(func(text string) {
		for _, s := range live {
			s.SetStatus(text)
		}
	})
}

// Variant selects the text shown once setup completes.
type Variant int

const (
	// VariantFull reports "Rendering Quad".
	VariantFull Variant = iota
	// VariantReduced reports "Initialized".
	VariantReduced
)

// String returns the lowercase config name of v.
func (v Variant) String() string {
	switch v {
	case VariantFull:
		return "full"
	case VariantReduced:
		return "reduced"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// DoneStatus is the status text set after a successful setup.
func (v Variant) DoneStatus() string {
	if v == VariantReduced {
		return StatusInitialized
	}
	return StatusRendering
}

func parseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "":
		return VariantFull, nil
	case "reduced":
		return VariantReduced, nil
	default:
		return 0, fmt.Errorf("%w: unknown variant %q", ErrInvalidConfig, s)
	}
}
