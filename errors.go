package gpucam

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the renderer reports.
type ErrorKind int

const (
	// KindNone is reported for a nil error or one raised outside the renderer.
	KindNone ErrorKind = iota

	// KindCapabilityAbsent means no usable GPU backend exists on this system.
	KindCapabilityAbsent

	// KindInitialization means setup failed after the capability probe:
	// adapter, device, drawable context, surface, shader, geometry or
	// pipeline.
	KindInitialization

	// KindRuntimeDraw means a single frame could not be recorded or
	// submitted.
	KindRuntimeDraw
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindCapabilityAbsent:
		return "CapabilityAbsent"
	case KindInitialization:
		return "InitializationFailure"
	case KindRuntimeDraw:
		return "RuntimeDrawFailure"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors.
var (
	// ErrCapabilityAbsent matches any KindCapabilityAbsent error.
	ErrCapabilityAbsent = errors.New("gpucam: GPU not supported on this system")

	// ErrContextUnavailable is returned when the canvas cannot provide a
	// drawable surface.
	ErrContextUnavailable = errors.New("gpucam: drawable context not available")

	// ErrNoCanvas is returned by Start when the App was built without a canvas.
	ErrNoCanvas = errors.New("gpucam: no canvas")

	// ErrZeroSize is returned when the canvas has no pixels at setup time.
	ErrZeroSize = errors.New("gpucam: canvas has zero size")

	// ErrNotReady is returned when a frame is requested before setup
	// completed or after the renderer halted.
	ErrNotReady = errors.New("gpucam: renderer not ready")

	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("gpucam: already started")

	// ErrLoopRunning is returned by Loop.Run when the loop is already running.
	ErrLoopRunning = errors.New("gpucam: loop already running")

	// ErrSourceClosed is returned by a FrameSource that will not produce
	// further frames. The loop treats it as a normal exit.
	ErrSourceClosed = errors.New("gpucam: frame source closed")

	// ErrInvalidConfig wraps every configuration parse or validation error.
	ErrInvalidConfig = errors.New("gpucam: invalid config")
)

// Error is a classified renderer failure.
type Error struct {
	Kind ErrorKind
	Op   string // step that failed, e.g. "request adapter"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports ErrCapabilityAbsent for capability errors whatever the cause.
func (e *Error) Is(target error) bool {
	return target == ErrCapabilityAbsent && e.Kind == KindCapabilityAbsent
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNone
}

func initError(op string, err error) *Error {
	return &Error{Kind: KindInitialization, Op: op, Err: err}
}

func drawError(op string, err error) *Error {
	return &Error{Kind: KindRuntimeDraw, Op: op, Err: err}
}
