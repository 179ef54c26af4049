package gpu

import (
	"image"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/noop"
)

// noopBackends restricts probing to the noop backend registered above.
var noopBackends = []gputypes.Backend{gputypes.BackendEmpty}

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	backend, ok := hal.GetBackend(gputypes.BackendEmpty)
	if !ok {
		t.Fatal("noop backend not registered")
	}
	instance, err := backend.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		t.Fatal("no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// recordingDevice wraps a HAL device and records resource creation.
type recordingDevice struct {
	hal.Device

	buffers   []hal.BufferDescriptor
	shaders   int
	layouts   int
	pipelines []hal.RenderPipelineDescriptor
	encoders  []*recordingEncoder
	freed     int
	views     int
	destroyed int

	// endErr is handed to every encoder created after it is set.
	endErr error
}

func (d *recordingDevice) CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error) {
	d.buffers = append(d.buffers, *desc)
	return d.Device.CreateBuffer(desc)
}

func (d *recordingDevice) CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error) {
	d.shaders++
	return d.Device.CreateShaderModule(desc)
}

func (d *recordingDevice) CreatePipelineLayout(desc *hal.PipelineLayoutDescriptor) (hal.PipelineLayout, error) {
	d.layouts++
	return d.Device.CreatePipelineLayout(desc)
}

func (d *recordingDevice) CreateRenderPipeline(desc *hal.RenderPipelineDescriptor) (hal.RenderPipeline, error) {
	d.pipelines = append(d.pipelines, *desc)
	return d.Device.CreateRenderPipeline(desc)
}

func (d *recordingDevice) CreateTextureView(texture hal.Texture, desc *hal.TextureViewDescriptor) (hal.TextureView, error) {
	d.views++
	return d.Device.CreateTextureView(texture, desc)
}

func (d *recordingDevice) DestroyTextureView(view hal.TextureView) {
	d.destroyed++
	d.Device.DestroyTextureView(view)
}

func (d *recordingDevice) CreateCommandEncoder(desc *hal.CommandEncoderDescriptor) (hal.CommandEncoder, error) {
	enc, err := d.Device.CreateCommandEncoder(desc)
	if err != nil {
		return nil, err
	}
	re := &recordingEncoder{CommandEncoder: enc, endErr: d.endErr}
	d.encoders = append(d.encoders, re)
	return re, nil
}

func (d *recordingDevice) FreeCommandBuffer(cb hal.CommandBuffer) {
	d.freed++
	d.Device.FreeCommandBuffer(cb)
}

// recordingEncoder records render passes. endErr, when set, fails
// EndEncoding.
type recordingEncoder struct {
	hal.CommandEncoder
	passes    []*recordingPass
	discarded int
	endErr    error
}

func (e *recordingEncoder) DiscardEncoding() {
	e.discarded++
	e.CommandEncoder.DiscardEncoding()
}

func (e *recordingEncoder) EndEncoding() (hal.CommandBuffer, error) {
	if e.endErr != nil {
		e.CommandEncoder.DiscardEncoding()
		return nil, e.endErr
	}
	return e.CommandEncoder.EndEncoding()
}

func (e *recordingEncoder) BeginRenderPass(desc *hal.RenderPassDescriptor) hal.RenderPassEncoder {
	rp := &recordingPass{RenderPassEncoder: e.CommandEncoder.BeginRenderPass(desc), desc: *desc}
	e.passes = append(e.passes, rp)
	return rp
}

// recordingPass records the commands issued inside one render pass.
type recordingPass struct {
	hal.RenderPassEncoder
	desc hal.RenderPassDescriptor

	calls       []string
	vertexSlot  uint32
	indexFormat gputypes.IndexFormat
	indexCount  uint32
	instances   uint32
}

func (p *recordingPass) SetPipeline(pl hal.RenderPipeline) {
	p.calls = append(p.calls, "SetPipeline")
	p.RenderPassEncoder.SetPipeline(pl)
}

func (p *recordingPass) SetVertexBuffer(slot uint32, buf hal.Buffer, offset uint64) {
	p.calls = append(p.calls, "SetVertexBuffer")
	p.vertexSlot = slot
	p.RenderPassEncoder.SetVertexBuffer(slot, buf, offset)
}

func (p *recordingPass) SetIndexBuffer(buf hal.Buffer, format gputypes.IndexFormat, offset uint64) {
	p.calls = append(p.calls, "SetIndexBuffer")
	p.indexFormat = format
	p.RenderPassEncoder.SetIndexBuffer(buf, format, offset)
}

func (p *recordingPass) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	p.calls = append(p.calls, "DrawIndexed")
	p.indexCount = indexCount
	p.instances = instanceCount
	p.RenderPassEncoder.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *recordingPass) End() {
	p.calls = append(p.calls, "End")
	p.RenderPassEncoder.End()
}

// recordingQueue wraps a HAL queue and records writes and submissions.
// submitErr, when set, fails Submit.
type recordingQueue struct {
	hal.Queue

	writes    map[hal.Buffer][][]byte
	submits   int
	presents  int
	submitErr error
}

func (q *recordingQueue) WriteBuffer(buf hal.Buffer, offset uint64, data []byte) error {
	if q.writes == nil {
		q.writes = make(map[hal.Buffer][][]byte)
	}
	q.writes[buf] = append(q.writes[buf], append([]byte(nil), data...))
	return q.Queue.WriteBuffer(buf, offset, data)
}

func (q *recordingQueue) Submit(cbs []hal.CommandBuffer) (uint64, error) {
	q.submits++
	if q.submitErr != nil {
		return 0, q.submitErr
	}
	return q.Queue.Submit(cbs)
}

func (q *recordingQueue) Present(s hal.Surface, tex hal.SurfaceTexture, damage []image.Rectangle) error {
	q.presents++
	return q.Queue.Present(s, tex, damage)
}

// recordingSurface wraps a HAL surface. acquireErr, when set, fails
// AcquireTexture.
type recordingSurface struct {
	hal.Surface

	acquireErr error
	acquired   int
	discards   int
}

func (s *recordingSurface) AcquireTexture(fence hal.Fence) (*hal.AcquiredSurfaceTexture, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.acquired++
	return s.Surface.AcquireTexture(fence)
}

func (s *recordingSurface) DiscardTexture(tex hal.SurfaceTexture) {
	s.discards++
	s.Surface.DiscardTexture(tex)
}

// limitedAdapter reports only the given present modes for any surface.
type limitedAdapter struct {
	hal.Adapter
	modes []gputypes.PresentMode
}

func (a *limitedAdapter) SurfaceCapabilities(s hal.Surface) *hal.SurfaceCapabilities {
	caps := *a.Adapter.SurfaceCapabilities(s)
	caps.PresentModes = a.modes
	return &caps
}

// newRecordingRenderer walks a Renderer through device acquisition on the
// noop backend and swaps in recording wrappers.
func newRecordingRenderer(t *testing.T) (*Renderer, *recordingDevice, *recordingQueue) {
	t.Helper()
	r := NewRenderer(RendererConfig{Backends: noopBackends})
	if err := r.Probe(); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if _, err := r.RequestAdapter(); err != nil {
		t.Fatalf("RequestAdapter: %v", err)
	}
	if err := r.RequestDevice(); err != nil {
		t.Fatalf("RequestDevice: %v", err)
	}
	rd := &recordingDevice{Device: r.dev.device}
	rq := &recordingQueue{Queue: r.dev.queue}
	r.dev.device = rd
	r.dev.queue = rq
	t.Cleanup(r.Release)
	return r, rd, rq
}
