// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package glfwcanvas

import (
	"context"
	"errors"
	"testing"

	"github.com/gogpu/gpucam"
)

func TestPixelRatio(t *testing.T) {
	tests := []struct {
		name    string
		fbW     int
		winW    int
		content float32
		want    float64
	}{
		{"unit", 800, 800, 1, 1.0},
		{"retina framebuffer", 1600, 800, 1, 2.0},
		{"fractional", 1200, 800, 1.5, 1.5},
		{"minimized uses content scale", 0, 0, 1.25, 1.25},
		{"nothing known", 0, 0, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pixelRatio(tt.fbW, tt.winW, tt.content); got != tt.want {
				t.Errorf("pixelRatio(%d, %d, %v) = %v, want %v", tt.fbW, tt.winW, tt.content, got, tt.want)
			}
		})
	}
}

func TestFramebufferSize(t *testing.T) {
	tests := []struct {
		name         string
		fbW, fbH     int
		winW, winH   int
		sx, sy       float32
		wantW, wantH int
	}{
		{"measured", 1000, 626, 800, 500, 1.25, 1.25, 1000, 626},
		{"no framebuffer scales per axis", 0, 0, 800, 500, 1.25, 1.5, 1000, 750},
		{"unknown scale", 0, 0, 640, 480, 0, 0, 640, 480},
		{"minimized", 0, 0, 0, 0, 2, 2, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := framebufferSize(tt.fbW, tt.fbH, tt.winW, tt.winH, tt.sx, tt.sy)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("framebufferSize() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestStatusTitle(t *testing.T) {
	tests := []struct {
		title, status, want string
	}{
		{"gpucam", gpucam.StatusRendering, "gpucam - Rendering Quad"},
		{"gpucam", "", "gpucam"},
		{"", gpucam.StatusReady, "Ready"},
	}
	for _, tt := range tests {
		if got := statusTitle(tt.title, tt.status); got != tt.want {
			t.Errorf("statusTitle(%q, %q) = %q, want %q", tt.title, tt.status, got, tt.want)
		}
	}
}

// A closed window needs no GLFW context, so these run headless.
func TestClosedWindow(t *testing.T) {
	w := &Window{closed: true, title: "gpucam"}

	if err := w.WaitFrame(context.Background()); !errors.Is(err, gpucam.ErrSourceClosed) {
		t.Errorf("WaitFrame err = %v, want ErrSourceClosed", err)
	}
	if _, _, err := w.SurfaceHandles(); !errors.Is(err, ErrWindowClosed) {
		t.Errorf("SurfaceHandles err = %v, want ErrWindowClosed", err)
	}
	if width, height := w.Size(); width != 0 || height != 0 {
		t.Errorf("Size() = %dx%d, want 0x0", width, height)
	}
	if fw, fh := w.FramebufferSize(); fw != 0 || fh != 0 {
		t.Errorf("FramebufferSize() = %dx%d, want 0x0", fw, fh)
	}
	if w.ScaleFactor() != 1.0 {
		t.Errorf("ScaleFactor() = %v, want 1.0", w.ScaleFactor())
	}
	w.SetStatus(gpucam.StatusReady)
	w.WaitClosed(context.Background())
	w.Close()
}

func TestWindowResizeCallbacks(t *testing.T) {
	w := &Window{closed: true}
	var got [][2]int
	w.OnResize(func(width, height int) { got = append(got, [2]int{width, height}) })
	w.OnResize(func(width, height int) { got = append(got, [2]int{width, height}) })

	w.fireResize()
	if len(got) != 2 {
		t.Fatalf("callbacks fired = %d, want 2", len(got))
	}

	w.SetBackingSize(640, 480)
	if bw, bh := w.BackingSize(); bw != 640 || bh != 480 {
		t.Errorf("BackingSize() = %dx%d, want 640x480", bw, bh)
	}
}

func TestWaitFrameCanceled(t *testing.T) {
	w := &Window{closed: true}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.WaitFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("WaitFrame err = %v, want context.Canceled", err)
	}
}
