package gpu

import (
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Surface is the drawable surface bound to one Device and one native window.
//
// The configuration record (format, alpha mode, present mode) is negotiated
// on the first Configure and reused unchanged by every later call, so a
// reconfigure after a resize only changes the pixel size.
type Surface struct {
	owner   *Device
	surface hal.Surface

	format  gputypes.TextureFormat
	alpha   gputypes.CompositeAlphaMode
	present gputypes.PresentMode

	width, height uint32
	configured    bool
	configures    int
}

// Configure applies {device, preferred format, opaque alpha} at the given
// pixel size and returns the negotiated format.
//
// present is a preference; when the surface does not support it the first
// supported mode is used instead.
func (s *Surface) Configure(width, height uint32, present gputypes.PresentMode) (gputypes.TextureFormat, error) {
	if s.owner == nil || s.owner.device == nil {
		return gputypes.TextureFormatUndefined, ErrNoDevice
	}
	if width == 0 || height == 0 {
		return gputypes.TextureFormatUndefined, fmt.Errorf("gpu: configure %dx%d: %w", width, height, hal.ErrZeroArea)
	}

	if !s.configured {
		if err := s.negotiate(present); err != nil {
			return gputypes.TextureFormatUndefined, err
		}
	}

	err := s.surface.Configure(s.owner.device, &hal.SurfaceConfiguration{
		Width:       width,
		Height:      height,
		Format:      s.format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: s.present,
		AlphaMode:   s.alpha,
	})
	if err != nil {
		return gputypes.TextureFormatUndefined, fmt.Errorf("gpu: configure surface %dx%d: %w", width, height, err)
	}

	s.width, s.height = width, height
	s.configured = true
	s.configures++
	slogger().Debug("gpu: surface configured",
		"width", width,
		"height", height,
		"format", s.format,
		"present", s.present,
	)
	return s.format, nil
}

// negotiate picks format, alpha and present mode from the adapter's surface
// capabilities.
func (s *Surface) negotiate(present gputypes.PresentMode) error {
	caps := s.owner.adapter.SurfaceCapabilities(s.surface)
	if caps == nil || len(caps.Formats) == 0 {
		return ErrNoSurfaceFormat
	}

	// The first reported format is the adapter's preferred one.
	s.format = caps.Formats[0]

	s.alpha = gputypes.CompositeAlphaModeOpaque
	if len(caps.AlphaModes) > 0 && !slices.Contains(caps.AlphaModes, s.alpha) {
		slogger().Warn("gpu: opaque alpha not reported by surface", "modes", caps.AlphaModes)
	}

	s.present = present
	if present == gputypes.PresentModeUndefined {
		s.present = gputypes.PresentModeFifo
	}
	if len(caps.PresentModes) > 0 && !slices.Contains(caps.PresentModes, s.present) {
		slogger().Info("gpu: present mode unsupported, using fallback",
			"wanted", s.present, "using", caps.PresentModes[0])
		s.present = caps.PresentModes[0]
	}

	slogger().Info("gpu: surface format negotiated", "format", s.format, "present", s.present)
	return nil
}

// Format returns the negotiated format, or TextureFormatUndefined before the
// first successful Configure.
func (s *Surface) Format() gputypes.TextureFormat {
	return s.format
}

// Size returns the pixel size of the current configuration.
func (s *Surface) Size() (width, height uint32) {
	return s.width, s.height
}

// Configures returns how many times Configure succeeded.
func (s *Surface) Configures() int {
	return s.configures
}

// acquire returns the current surface texture and a view of it.
func (s *Surface) acquire() (hal.SurfaceTexture, hal.TextureView, error) {
	if !s.configured {
		return nil, nil, ErrSurfaceNotConfigured
	}

	acquired, err := s.surface.AcquireTexture(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("gpu: acquire surface texture: %w", err)
	}
	if acquired.Suboptimal {
		slogger().Debug("gpu: suboptimal surface texture")
	}

	view, err := s.owner.device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:           "gpucam_surface_view",
		Format:          s.format,
		Dimension:       gputypes.TextureViewDimension2D,
		Aspect:          gputypes.TextureAspectAll,
		MipLevelCount:   1,
		ArrayLayerCount: 1,
	})
	if err != nil {
		s.surface.DiscardTexture(acquired.Texture)
		return nil, nil, fmt.Errorf("gpu: create surface view: %w", err)
	}
	return acquired.Texture, view, nil
}

// Destroy unconfigures and releases the surface.
func (s *Surface) Destroy() {
	if s.surface == nil {
		return
	}
	if s.configured && s.owner != nil && s.owner.device != nil {
		s.surface.Unconfigure(s.owner.device)
	}
	s.surface.Destroy()
	s.surface = nil
	s.configured = false
}
