// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package glfwcanvas

import (
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// nativeHandles returns a zero HINSTANCE, which the backends replace with
// the current module, and the window HWND.
func nativeHandles(win *glfw.Window) (display, window uintptr, err error) {
	return 0, uintptr(unsafe.Pointer(win.GetWin32Window())), nil
}
