// Package gpucam renders a single colored quad into a window with WebGPU.
//
// # Overview
//
// gpucam is a minimal, complete WebGPU client built on gogpu/wgpu. It probes
// for a GPU backend, acquires an adapter and device, configures a surface for
// a Canvas, uploads four colored vertices and six indices, builds a render
// pipeline from WGSL and then clears and draws the quad once per frame.
//
// # Quick Start
//
//	canvas := gpucam.NewHeadlessCanvas(800, 600, 1.0)
//	app := gpucam.New(canvas, gpucam.WithStatus(gpucam.LogStatus(nil)))
//	if err := app.Start(ctx); err != nil {
//	    return err
//	}
//	defer app.Close()
//	return app.Run(ctx, gpucam.NewTickerSource(0))
//
// Windowed programs use integration/glfwcanvas, which provides a Canvas,
// a StatusSink, a FrameSource and a resize EventSource for one GLFW window.
//
// # Lifecycle
//
// Start moves an App from Uninitialized to Ready, or to Failed with a
// classified *Error. Frame and Run move it to Rendering. Under
// DrawFailureHalt a draw failure moves it to Halted. Close releases GPU
// resources in reverse order of creation.
//
// # Errors
//
// Every error returned by Start, Frame and Run carries an ErrorKind:
// KindCapabilityAbsent when no backend is usable, KindInitialization when
// setup fails after the probe, and KindRuntimeDraw when a frame fails. Use
// KindOf to read it.
//
// # Sizing
//
// The canvas backing size is the layout size times the device pixel ratio,
// rounded down, with a missing or invalid ratio treated as 1.0. OnResize
// recomputes it; the next frame reconfigures the surface when
// Config.ReconfigureOnResize is set.
package gpucam

// Version is the current version of the module.
const Version = "0.1.0"
