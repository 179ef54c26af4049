package gpucam

import (
	"math"
	"sync"

	"github.com/gogpu/gpucontext"
)

// Canvas is the drawable region the quad is rendered into.
//
// Size and ScaleFactor report the layout size in logical points and the
// device pixel ratio. The backing size is the pixel size of the drawing
// buffer; Resize keeps it equal to layout size times the ratio.
type Canvas interface {
	gpucontext.WindowProvider

	// BackingSize returns the drawing buffer size in physical pixels.
	BackingSize() (width, height int)

	// SetBackingSize sets the drawing buffer size in physical pixels.
	SetBackingSize(width, height int)

	// SurfaceHandles returns the platform handles used to create a GPU
	// surface for this canvas.
	SurfaceHandles() (display, window uintptr, err error)
}

// FramebufferSizer is implemented by canvases that know their exact pixel
// size, such as a window whose framebuffer ratio differs per axis. Resize
// prefers it over the layout size times the scale factor.
type FramebufferSizer interface {
	FramebufferSize() (width, height int)
}

// PixelRatio returns the scale factor of w, or 1.0 when w reports a
// ratio that is zero, negative or not finite.
func PixelRatio(w gpucontext.WindowProvider) float64 {
	r := w.ScaleFactor()
	if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1.0
	}
	return r
}

// PixelSize returns the layout size of w multiplied by its pixel ratio,
// rounded down. Negative layout sizes count as zero.
func PixelSize(w gpucontext.WindowProvider) (width, height int) {
	lw, lh := w.Size()
	ratio := PixelRatio(w)
	return scaleDim(lw, ratio), scaleDim(lh, ratio)
}

func scaleDim(v int, ratio float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(float64(v) * ratio))
}

// Resize sets the backing size of c to its pixel size and returns it.
func Resize(c Canvas) (width, height int) {
	width, height = PixelSize(c)
	if fs, ok := c.(FramebufferSizer); ok {
		width, height = fs.FramebufferSize()
		width, height = max(width, 0), max(height, 0)
	}
	c.SetBackingSize(width, height)
	return width, height
}

// HeadlessCanvas is a Canvas with no window. Its surface handles are zero,
// which only the noop and software backends accept.
type HeadlessCanvas struct {
	mu      sync.Mutex
	layout  gpucontext.NullWindowProvider
	backing [2]int
}

// NewHeadlessCanvas returns a canvas with the given layout size and scale
// factor. Its backing size stays zero until Resize is called.
func NewHeadlessCanvas(width, height int, scale float64) *HeadlessCanvas {
	return &HeadlessCanvas{layout: gpucontext.NullWindowProvider{W: width, H: height, SF: scale}}
}

// Size returns the layout size in logical points.
func (c *HeadlessCanvas) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.Size()
}

// ScaleFactor returns the configured scale factor, 1.0 when unset.
func (c *HeadlessCanvas) ScaleFactor() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.ScaleFactor()
}

// RequestRedraw does nothing.
func (c *HeadlessCanvas) RequestRedraw() {}

// SetLayout changes the layout size and scale factor, as a window resize
// or a move to another display would.
func (c *HeadlessCanvas) SetLayout(width, height int, scale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layout = gpucontext.NullWindowProvider{W: width, H: height, SF: scale}
}

// BackingSize returns the drawing buffer size.
func (c *HeadlessCanvas) BackingSize() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.backing[0], c.backing[1]
}

// SetBackingSize sets the drawing buffer size.
func (c *HeadlessCanvas) SetBackingSize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backing = [2]int{width, height}
}

// SurfaceHandles returns zero handles.
func (c *HeadlessCanvas) SurfaceHandles() (display, window uintptr, err error) {
	return 0, 0, nil
}

var _ Canvas = (*HeadlessCanvas)(nil)
