// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glfwcanvas

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gpucam"
)

// Common errors returned by Window operations.
var (
	// ErrUnsupportedPlatform is returned by SurfaceHandles on platforms
	// without a native handle mapping.
	ErrUnsupportedPlatform = errors.New("glfwcanvas: native surface handles not supported on this platform")

	// ErrWindowClosed is returned when operations are attempted on a closed window.
	ErrWindowClosed = errors.New("glfwcanvas: window is closed")
)

// idleWait is how long WaitFrame blocks for events while the window has no
// pixels, so a minimized window does not spin.
const idleWait = 0.1 // seconds

// Window is a GLFW window without a client API, ready for a WebGPU surface.
//
// Window is NOT safe for concurrent use. See the package documentation.
type Window struct {
	gpucontext.NullEventSource

	win     *glfw.Window
	title   string
	backing [2]int
	resize  []func(width, height int)
	closed  bool
}

// New initializes GLFW and opens a window with the title and layout size
// from cfg.
func New(cfg gpucam.Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwcanvas: init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwcanvas: create window: %w", err)
	}

	w := &Window{win: win, title: cfg.Title}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, _, _ int) {
		w.fireResize()
	})
	gpucam.Logger().Debug("glfwcanvas: window created", "width", cfg.Width, "height", cfg.Height)
	return w, nil
}

func (w *Window) fireResize() {
	width, height := w.Size()
	for _, fn := range w.resize {
		fn(width, height)
	}
}

// Size returns the window size in screen coordinates.
func (w *Window) Size() (width, height int) {
	if w.closed {
		return 0, 0
	}
	return w.win.GetSize()
}

// ScaleFactor returns framebuffer pixels per screen coordinate.
func (w *Window) ScaleFactor() float64 {
	if w.closed {
		return 1.0
	}
	winW, _ := w.win.GetSize()
	fbW, _ := w.win.GetFramebufferSize()
	sx, _ := w.win.GetContentScale()
	return pixelRatio(fbW, winW, sx)
}

// pixelRatio prefers the measured framebuffer ratio and falls back to the
// monitor content scale, then to 1.0.
func pixelRatio(framebufferWidth, windowWidth int, contentScale float32) float64 {
	if framebufferWidth > 0 && windowWidth > 0 {
		return float64(framebufferWidth) / float64(windowWidth)
	}
	if contentScale > 0 {
		return float64(contentScale)
	}
	return 1.0
}

// FramebufferSize returns the framebuffer size in pixels, measured per axis
// so a non-uniform framebuffer is not rounded away.
func (w *Window) FramebufferSize() (width, height int) {
	if w.closed {
		return 0, 0
	}
	fbW, fbH := w.win.GetFramebufferSize()
	winW, winH := w.win.GetSize()
	sx, sy := w.win.GetContentScale()
	return framebufferSize(fbW, fbH, winW, winH, sx, sy)
}

// framebufferSize uses the measured framebuffer when GLFW reports one and
// otherwise scales the window size by the content scale of each axis.
func framebufferSize(fbW, fbH, winW, winH int, sx, sy float32) (width, height int) {
	if fbW > 0 && fbH > 0 {
		return fbW, fbH
	}
	return scaleAxis(winW, sx), scaleAxis(winH, sy)
}

func scaleAxis(v int, scale float32) int {
	if v <= 0 {
		return 0
	}
	if scale <= 0 {
		scale = 1
	}
	return int(math.Floor(float64(v) * float64(scale)))
}

// RequestRedraw wakes a WaitFrame blocked on events.
func (w *Window) RequestRedraw() {
	glfw.PostEmptyEvent()
}

// BackingSize returns the size the surface is configured for.
func (w *Window) BackingSize() (width, height int) {
	return w.backing[0], w.backing[1]
}

// SetBackingSize records the surface size. GLFW sizes the framebuffer
// itself, so nothing else changes.
func (w *Window) SetBackingSize(width, height int) {
	w.backing = [2]int{width, height}
}

// SurfaceHandles returns the native display and window handles.
func (w *Window) SurfaceHandles() (display, window uintptr, err error) {
	if w.closed {
		return 0, 0, ErrWindowClosed
	}
	return nativeHandles(w.win)
}

// SetStatus shows text in the window title.
func (w *Window) SetStatus(text string) {
	if w.closed {
		return
	}
	w.win.SetTitle(statusTitle(w.title, text))
}

func statusTitle(title, status string) string {
	switch {
	case status == "":
		return title
	case title == "":
		return status
	default:
		return title + " - " + status
	}
}

// WaitFrame processes pending window events. It returns ErrSourceClosed
// once the window should close. Frame pacing comes from the surface
// present mode; while the window has no pixels WaitFrame blocks for events
// instead.
func (w *Window) WaitFrame(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.closed {
		return gpucam.ErrSourceClosed
	}
	if w.backing[0] <= 0 || w.backing[1] <= 0 {
		glfw.WaitEventsTimeout(idleWait)
	} else {
		glfw.PollEvents()
	}
	if w.win.ShouldClose() {
		return gpucam.ErrSourceClosed
	}
	return ctx.Err()
}

// WaitClosed blocks until the user closes the window or ctx is canceled,
// processing events without drawing.
func (w *Window) WaitClosed(ctx context.Context) {
	for !w.closed && ctx.Err() == nil && !w.win.ShouldClose() {
		glfw.WaitEventsTimeout(idleWait)
	}
}

// OnResize registers fn for framebuffer size changes.
func (w *Window) OnResize(fn func(width, height int)) {
	w.resize = append(w.resize, fn)
}

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.win.Destroy()
	glfw.Terminate()
}

var (
	_ gpucam.Canvas             = (*Window)(nil)
	_ gpucam.FramebufferSizer   = (*Window)(nil)
	_ gpucam.StatusSink         = (*Window)(nil)
	_ gpucam.FrameSource        = (*Window)(nil)
	_ gpucontext.EventSource    = (*Window)(nil)
	_ gpucontext.WindowProvider = (*Window)(nil)
)
