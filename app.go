package gpucam

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gpucam/shaders"
)

// State is the lifecycle position of an App.
type State int

const (
	// StateUninitialized is the state before Start.
	StateUninitialized State = iota
	// StateReady means setup completed and no frame has been drawn yet.
	StateReady
	// StateRendering means at least one frame was attempted.
	StateRendering
	// StateFailed means setup failed. No frame is ever drawn.
	StateFailed
	// StateHalted means a draw failure stopped rendering.
	StateHalted
	// StateClosed means Close released every GPU resource.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateReady:
		return "Ready"
	case StateRendering:
		return "Rendering"
	case StateFailed:
		return "Failed"
	case StateHalted:
		return "Halted"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Stats counts frame outcomes since Start.
type Stats struct {
	Frames     uint64 // frames submitted
	Skipped    uint64 // frames skipped because the canvas had no pixels
	Failed     uint64 // frames that returned a draw failure
	Configures uint64 // surface configurations, including the initial one
}

// App owns one canvas, its GPU resources and the frame loop.
//
// The zero value is not usable; create one with New.
type App struct {
	mu sync.Mutex

	cfg    Config
	canvas Canvas
	status StatusSink
	source shaders.Source
	drv    driver

	state          State
	loop           *Loop
	resizeBound    bool
	forceConfigure bool
	stats          Stats
}

// New returns an App drawing into canvas. Nothing touches the GPU until
// Start.
func New(canvas Canvas, opts ...Option) *App {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.resolve()
	return &App{
		cfg:    o.cfg,
		canvas: canvas,
		status: o.status,
		source: o.source,
		drv:    o.drv,
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() Config { return a.cfg }

// Start probes for a GPU and builds every resource the quad needs, in
// order: adapter, device, surface, surface configuration, shader source,
// geometry, pipeline.
//
// A probe failure returns a KindCapabilityAbsent error and sets the
// unsupported status. Any later failure returns a KindInitialization
// error, sets the "Error: " status and releases what was created.
// On success the App is Ready and the done status of the configured
// variant is shown.
func (a *App) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateUninitialized {
		return fmt.Errorf("%w: state %s", ErrAlreadyStarted, a.state)
	}

	if err := a.drv.Probe(); err != nil {
		a.state = StateFailed
		Logger().Error("gpucam: GPU capability absent", "err", err)
		a.status.SetStatus(StatusUnsupported)
		return &Error{Kind: KindCapabilityAbsent, Op: "probe", Err: err}
	}
	a.status.SetStatus(StatusReady)

	if err := a.initialize(ctx); err != nil {
		a.state = StateFailed
		a.drv.Release()
		Logger().Error("gpucam: setup failed", "err", err)
		a.status.SetStatus(ErrorStatus(err))
		return err
	}

	a.state = StateReady
	Logger().Info("gpucam: setup complete", "configures", a.stats.Configures)
	a.status.SetStatus(a.cfg.Variant.DoneStatus())
	return nil
}

func (a *App) initialize(ctx context.Context) error {
	info, err := a.drv.RequestAdapter()
	if err != nil {
		return initError("request adapter", err)
	}
	Logger().Info("gpucam: adapter ready", "name", info.Name, "backend", info.Backend, "type", info.DeviceType)

	if err := a.drv.RequestDevice(); err != nil {
		return initError("request device", err)
	}

	if a.canvas == nil {
		return initError("get context", ErrNoCanvas)
	}
	display, window, err := a.canvas.SurfaceHandles()
	if err != nil {
		return initError("get context", fmt.Errorf("%w: %w", ErrContextUnavailable, err))
	}
	if err := a.drv.CreateSurface(display, window); err != nil {
		return initError("get context", fmt.Errorf("%w: %w", ErrContextUnavailable, err))
	}

	w, h := Resize(a.canvas)
	if w <= 0 || h <= 0 {
		return initError("configure surface", fmt.Errorf("%w: %dx%d", ErrZeroSize, w, h))
	}
	format, err := a.drv.ConfigureSurface(uint32(w), uint32(h))
	if err != nil {
		return initError("configure surface", err)
	}
	a.stats.Configures++
	Logger().Debug("gpucam: surface configured", "width", w, "height", h, "format", format)

	src, err := a.source.Load(ctx)
	if err != nil {
		return initError("load shader", err)
	}
	if err := a.drv.CreateGeometry(); err != nil {
		return initError("create geometry", err)
	}
	if err := a.drv.CreatePipeline(src); err != nil {
		return initError("create pipeline", err)
	}
	return nil
}

// Frame draws one frame: clear, draw the quad, submit.
//
// A canvas with no pixels skips the frame without error. When the backing
// size differs from the surface and ReconfigureOnResize is set, the
// surface is reconfigured first. A lost or outdated surface is always
// reconfigured on the next frame.
//
// Draw failures return a KindRuntimeDraw error. Under DrawFailureHalt the
// App also moves to StateHalted, stops its loop and shows the error status.
func (a *App) Frame() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case StateReady:
		a.state = StateRendering
	case StateRendering:
	default:
		return drawError("frame", fmt.Errorf("%w: state %s", ErrNotReady, a.state))
	}

	w, h := a.canvas.BackingSize()
	if w <= 0 || h <= 0 {
		a.stats.Skipped++
		Logger().Debug("gpucam: frame skipped, canvas has no pixels", "width", w, "height", h)
		return nil
	}

	if a.needsConfigure(w, h) {
		if _, err := a.drv.ConfigureSurface(uint32(w), uint32(h)); err != nil {
			return a.drawFailed("configure surface", err)
		}
		a.forceConfigure = false
		a.stats.Configures++
		Logger().Debug("gpucam: surface reconfigured", "width", w, "height", h)
	}

	if err := a.drv.DrawFrame(a.cfg.ClearColor); err != nil {
		if errors.Is(err, hal.ErrSurfaceOutdated) || errors.Is(err, hal.ErrSurfaceLost) {
			a.forceConfigure = true
		}
		return a.drawFailed("draw", err)
	}
	a.stats.Frames++
	return nil
}

func (a *App) needsConfigure(w, h int) bool {
	if a.forceConfigure {
		return true
	}
	if !a.cfg.ReconfigureOnResize {
		return false
	}
	sw, sh := a.drv.SurfaceSize()
	return uint32(w) != sw || uint32(h) != sh
}

func (a *App) drawFailed(op string, err error) error {
	a.stats.Failed++
	e := drawError(op, err)
	if a.cfg.DrawFailure == DrawFailureHalt {
		a.state = StateHalted
		if a.loop != nil {
			a.loop.Stop()
		}
		Logger().Error("gpucam: rendering halted", "err", e)
		a.status.SetStatus(ErrorStatus(e))
		return e
	}
	Logger().Warn("gpucam: frame failed", "err", e)
	return e
}

// OnResize recomputes the canvas backing size from its layout size and
// pixel ratio. It touches no GPU state; the next frame picks up the change.
func (a *App) OnResize() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.canvas == nil || a.state == StateClosed {
		return
	}
	w, h := Resize(a.canvas)
	Logger().Debug("gpucam: canvas resized", "width", w, "height", h)
}

// BindResize registers OnResize with events. Only the first call binds;
// later calls do nothing.
func (a *App) BindResize(events gpucontext.EventSource) {
	a.mu.Lock()
	if a.resizeBound || events == nil {
		a.mu.Unlock()
		return
	}
	a.resizeBound = true
	a.mu.Unlock()

	events.OnResize(func(int, int) { a.OnResize() })
}

// Run draws a frame for every frame of source until Stop, Close, ctx
// cancellation or the source closing. Under DrawFailureSkip draw failures
// are logged and the loop continues; under DrawFailureHalt the first one
// is returned.
func (a *App) Run(ctx context.Context, source FrameSource) error {
	a.mu.Lock()
	switch {
	case a.state != StateReady && a.state != StateRendering:
		a.mu.Unlock()
		return drawError("run", fmt.Errorf("%w: state %s", ErrNotReady, a.state))
	case a.loop != nil:
		a.mu.Unlock()
		return ErrLoopRunning
	}
	loop := NewLoop(source, a.step)
	a.loop = loop
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.loop = nil
		a.mu.Unlock()
	}()
	return loop.Run(ctx)
}

func (a *App) step() error {
	err := a.Frame()
	if err == nil {
		return nil
	}
	if KindOf(err) == KindRuntimeDraw && a.cfg.DrawFailure == DrawFailureSkip {
		return nil
	}
	return err
}

// Stop ends a running loop. It does nothing when no loop runs.
func (a *App) Stop() {
	a.mu.Lock()
	loop := a.loop
	a.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
}

// Close stops the loop and releases every GPU resource in reverse order of
// creation. It is safe to call more than once.
func (a *App) Close() {
	a.Stop()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state == StateClosed {
		return
	}
	a.drv.Release()
	a.state = StateClosed
	Logger().Debug("gpucam: closed", "frames", a.stats.Frames)
}

// State returns the current lifecycle state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Stats returns frame counters.
func (a *App) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// DeviceProvider exposes the GPU device for other gogpu libraries. It
// returns nil when the driver does not provide one.
func (a *App) DeviceProvider() gpucontext.DeviceProvider {
	if p, ok := a.drv.(gpucontext.DeviceProvider); ok {
		return p
	}
	return nil
}
