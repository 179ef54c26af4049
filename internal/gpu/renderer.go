package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// RendererConfig selects the backend and presentation behavior.
type RendererConfig struct {
	// Backends is the probe preference order. Empty means DefaultBackends.
	Backends []gputypes.Backend

	// PresentMode is the preferred present mode. Undefined means Fifo.
	PresentMode gputypes.PresentMode
}

// Renderer owns every GPU object of the quad renderer and draws frames.
//
// Methods must be called in lifecycle order: Probe, RequestAdapter,
// RequestDevice, CreateSurface, ConfigureSurface, CreateGeometry,
// CreatePipeline, then DrawFrame any number of times. Renderer is not safe
// for concurrent use.
type Renderer struct {
	cfg RendererConfig

	dev      *Device
	surface  *Surface
	geometry *Geometry
	pipeline *Pipeline

	inflight []inflightFrame
	frames   uint64
}

// NewRenderer returns a renderer that has not touched the GPU yet.
func NewRenderer(cfg RendererConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

// Probe selects a backend and creates its instance.
func (r *Renderer) Probe() error {
	dev, err := Probe(r.cfg.Backends)
	if err != nil {
		return err
	}
	r.dev = dev
	return nil
}

// RequestAdapter selects the adapter.
func (r *Renderer) RequestAdapter() (gputypes.AdapterInfo, error) {
	if r.dev == nil {
		return gputypes.AdapterInfo{}, ErrNoBackend
	}
	return r.dev.RequestAdapter()
}

// RequestDevice opens the logical device.
func (r *Renderer) RequestDevice() error {
	if r.dev == nil {
		return ErrNoBackend
	}
	return r.dev.RequestDevice()
}

// CreateSurface binds a drawable surface to the native window handles.
func (r *Renderer) CreateSurface(display, window uintptr) error {
	if r.dev == nil {
		return ErrNoDevice
	}
	s, err := r.dev.CreateSurface(display, window)
	if err != nil {
		return err
	}
	r.surface = s
	return nil
}

// ConfigureSurface (re)configures the surface at the given pixel size and
// returns the negotiated format.
func (r *Renderer) ConfigureSurface(width, height uint32) (gputypes.TextureFormat, error) {
	if r.surface == nil {
		return gputypes.TextureFormatUndefined, ErrSurfaceNotConfigured
	}
	return r.surface.Configure(width, height, r.cfg.PresentMode)
}

// SurfaceSize returns the pixel size of the current surface configuration.
func (r *Renderer) SurfaceSize() (width, height uint32) {
	if r.surface == nil {
		return 0, 0
	}
	return r.surface.Size()
}

// CreateGeometry uploads the quad buffers.
func (r *Renderer) CreateGeometry() error {
	device, queue := r.halDevice()
	if device == nil {
		return ErrNoDevice
	}
	g, err := NewQuad(device, queue)
	if err != nil {
		return err
	}
	r.geometry = g
	return nil
}

// CreatePipeline builds the render pipeline from WGSL source for the
// negotiated surface format.
func (r *Renderer) CreatePipeline(source string) error {
	device, _ := r.halDevice()
	if device == nil {
		return ErrNoDevice
	}
	if r.surface == nil || r.surface.Format() == gputypes.TextureFormatUndefined {
		return ErrSurfaceNotConfigured
	}
	p, err := NewPipeline(device, source, r.surface.Format())
	if err != nil {
		return err
	}
	r.pipeline = p
	return nil
}

// DrawFrame renders and presents one frame cleared to clear.
func (r *Renderer) DrawFrame(clear gputypes.Color) error {
	if r.geometry == nil || r.pipeline == nil || r.surface == nil {
		return ErrNotReady
	}
	if r.surface.Format() != r.pipeline.Format() {
		return fmt.Errorf("%w: surface %s, pipeline %s", ErrFormatMismatch, r.surface.Format(), r.pipeline.Format())
	}

	device, queue := r.halDevice()
	r.inflight = reclaim(device, queue, r.inflight, false)

	encoder, err := device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "gpucam_frame"})
	if err != nil {
		return fmt.Errorf("gpu: create frame encoder: %w", err)
	}
	if err := encoder.BeginEncoding("gpucam_frame"); err != nil {
		return fmt.Errorf("gpu: begin frame encoding: %w", err)
	}

	texture, view, err := r.surface.acquire()
	if err != nil {
		encoder.DiscardEncoding()
		return err
	}

	cmdBuf, err := EncodeFrame(encoder, view, clear, r.pipeline, r.geometry)
	if err != nil {
		device.DestroyTextureView(view)
		r.surface.surface.DiscardTexture(texture)
		return err
	}

	index, err := queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		device.FreeCommandBuffer(cmdBuf)
		device.DestroyTextureView(view)
		r.surface.surface.DiscardTexture(texture)
		return fmt.Errorf("gpu: submit frame: %w", err)
	}
	r.inflight = append(r.inflight, inflightFrame{index: index, cmdBuf: cmdBuf, view: view})
	r.frames++

	if err := queue.Present(r.surface.surface, texture, nil); err != nil {
		return fmt.Errorf("gpu: present frame: %w", err)
	}
	return nil
}

// Frames returns how many frames were submitted.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// Release destroys everything in reverse creation order. It is safe to call
// at any lifecycle stage and more than once.
func (r *Renderer) Release() {
	device, queue := r.halDevice()
	if device != nil {
		if err := device.WaitIdle(); err != nil {
			slogger().Warn("gpu: wait idle on release", "err", err)
		}
		r.inflight = reclaim(device, queue, r.inflight, true)
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
	if r.geometry != nil {
		r.geometry.Destroy()
		r.geometry = nil
	}
	if r.surface != nil {
		r.surface.Destroy()
		r.surface = nil
	}
	if r.dev != nil {
		r.dev.Destroy()
		r.dev = nil
	}
}

func (r *Renderer) halDevice() (hal.Device, hal.Queue) {
	if r.dev == nil {
		return nil, nil
	}
	return r.dev.HAL()
}

// Device returns the HAL device for sharing with other gogpu libraries.
func (r *Renderer) Device() gpucontext.Device {
	d, _ := r.halDevice()
	return d
}

// Queue returns the HAL queue.
func (r *Renderer) Queue() gpucontext.Queue {
	_, q := r.halDevice()
	return q
}

// SurfaceFormat returns the negotiated surface format, or
// TextureFormatUndefined before the surface is configured.
func (r *Renderer) SurfaceFormat() gputypes.TextureFormat {
	if r.surface == nil {
		return gputypes.TextureFormatUndefined
	}
	return r.surface.Format()
}

// Adapter returns the HAL adapter.
func (r *Renderer) Adapter() gpucontext.Adapter {
	if r.dev == nil {
		return nil
	}
	return r.dev.adapter
}

// AdapterInfo returns the adapter name and type.
func (r *Renderer) AdapterInfo() gpucontext.AdapterInfo {
	if r.dev == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	return r.dev.ContextInfo()
}

var _ gpucontext.DeviceProvider = (*Renderer)(nil)
