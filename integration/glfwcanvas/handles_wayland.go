// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux && wayland

package glfwcanvas

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the wl_display and wl_surface pointers.
func nativeHandles(win *glfw.Window) (display, window uintptr, err error) {
	return uintptr(unsafe.Pointer(glfw.GetWaylandDisplay())), uintptr(unsafe.Pointer(win.GetWaylandWindow())), nil
}
