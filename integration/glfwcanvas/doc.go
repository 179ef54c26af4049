// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package glfwcanvas connects a GLFW window to a gpucam App.
//
// One Window value plays four roles:
//
//   - gpucam.Canvas: layout size from the window, pixel ratio from the
//     framebuffer, and the native handles for surface creation
//   - gpucam.StatusSink: status text is shown in the window title
//   - gpucam.FrameSource: each WaitFrame polls window events and reports
//     ErrSourceClosed once the user closes the window
//   - gpucontext.EventSource: OnResize fires on framebuffer size changes
//
// # Usage
//
//	runtime.LockOSThread()
//	win, err := glfwcanvas.New(cfg)
//	if err != nil {
//	    return err
//	}
//	defer win.Close()
//
//	app := gpucam.New(win, gpucam.WithConfig(cfg), gpucam.WithStatus(win))
//	app.BindResize(win)
//	if err := app.Start(ctx); err != nil {
//	    return err
//	}
//	defer app.Close()
//	return app.Run(ctx, win)
//
// # Threading
//
// GLFW must be used from the main OS thread. New, WaitFrame, SetStatus and
// Close must all be called from the goroutine that locked it. Resize
// callbacks fire from inside WaitFrame on that same thread.
//
// # Platforms
//
// Native handles are provided for X11 and Wayland (build with -tags wayland)
// on Linux and for Win32 on Windows. Other platforms report
// ErrUnsupportedPlatform from SurfaceHandles, which the App reports as an
// initialization failure.
package glfwcanvas
