// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux && !wayland

package glfwcanvas

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns the X11 Display pointer and Window id.
func nativeHandles(win *glfw.Window) (display, window uintptr, err error) {
	return uintptr(unsafe.Pointer(glfw.GetX11Display())), uintptr(win.GetX11Window()), nil
}
