package gpucam

import (
	"context"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpucam/shaders"
)

// fakeDriver records every call the App makes. Errors set on it are
// returned by the matching method.
type fakeDriver struct {
	mu sync.Mutex

	calls []string

	probeErr     error
	adapterErr   error
	deviceErr    error
	surfaceErr   error
	configureErr error
	geometryErr  error
	pipelineErr  error
	// drawErrs are returned by successive DrawFrame calls; nil entries and
	// calls past the end succeed.
	drawErrs []error

	format     gputypes.TextureFormat
	width      uint32
	height     uint32
	configures [][2]uint32
	draws      []gputypes.Color
	source     string
	released   int
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{format: gputypes.TextureFormatBGRA8Unorm}
}

func (d *fakeDriver) record(name string) {
	d.calls = append(d.calls, name)
}

func (d *fakeDriver) Probe() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Probe")
	return d.probeErr
}

func (d *fakeDriver) RequestAdapter() (gputypes.AdapterInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("RequestAdapter")
	if d.adapterErr != nil {
		return gputypes.AdapterInfo{}, d.adapterErr
	}
	return gputypes.AdapterInfo{Name: "Fake Adapter", Backend: gputypes.BackendEmpty}, nil
}

func (d *fakeDriver) RequestDevice() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("RequestDevice")
	return d.deviceErr
}

func (d *fakeDriver) CreateSurface(display, window uintptr) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateSurface")
	return d.surfaceErr
}

func (d *fakeDriver) ConfigureSurface(width, height uint32) (gputypes.TextureFormat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("ConfigureSurface")
	if d.configureErr != nil {
		return gputypes.TextureFormatUndefined, d.configureErr
	}
	d.width, d.height = width, height
	d.configures = append(d.configures, [2]uint32{width, height})
	return d.format, nil
}

func (d *fakeDriver) SurfaceSize() (uint32, uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.width, d.height
}

func (d *fakeDriver) CreateGeometry() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreateGeometry")
	return d.geometryErr
}

func (d *fakeDriver) CreatePipeline(source string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("CreatePipeline")
	d.source = source
	return d.pipelineErr
}

func (d *fakeDriver) DrawFrame(clear gputypes.Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("DrawFrame")
	n := len(d.draws)
	d.draws = append(d.draws, clear)
	if n < len(d.drawErrs) {
		return d.drawErrs[n]
	}
	return nil
}

func (d *fakeDriver) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("Release")
	d.released++
}

func (d *fakeDriver) count(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.calls {
		if c == name {
			n++
		}
	}
	return n
}

// statusLog collects status texts in order.
type statusLog struct {
	mu    sync.Mutex
	texts []string
}

func (s *statusLog) SetStatus(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, text)
}

func (s *statusLog) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func (s *statusLog) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.texts) == 0 {
		return ""
	}
	return s.texts[len(s.texts)-1]
}

// testApp builds an App on a fake driver and a 300x150 layout at ratio 2.
func testApp(cfg Config, opts ...Option) (*App, *fakeDriver, *statusLog, *HeadlessCanvas) {
	drv := newFakeDriver()
	status := &statusLog{}
	canvas := NewHeadlessCanvas(300, 150, 2)
	all := append([]Option{
		WithConfig(cfg),
		WithStatus(status),
		WithShaderSource(shaders.Embedded()),
		withDriver(drv),
	}, opts...)
	return New(canvas, all...), drv, status, canvas
}

// countingSource ends after n frames.
func countingSource(n int) FrameSource {
	var mu sync.Mutex
	seen := 0
	return FrameSourceFunc(func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		if seen >= n {
			return ErrSourceClosed
		}
		seen++
		return nil
	})
}

// resizeEvents captures the resize callback registered through
// gpucontext.EventSource.
type resizeEvents struct {
	gpucontext.NullEventSource
	callbacks []func(int, int)
}

func (e *resizeEvents) OnResize(fn func(int, int)) {
	e.callbacks = append(e.callbacks, fn)
}

func (e *resizeEvents) fire(w, h int) {
	for _, fn := range e.callbacks {
		fn(w, h)
	}
}
