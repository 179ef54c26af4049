// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux && !windows

package glfwcanvas

import "github.com/go-gl/glfw/v3.3/glfw"

// nativeHandles is unavailable here: the Metal and Vulkan backends need a
// CAMetalLayer, which GLFW does not create.
func nativeHandles(*glfw.Window) (display, window uintptr, err error) {
	return 0, 0, ErrUnsupportedPlatform
}
