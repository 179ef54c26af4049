package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Pipeline is the immutable render pipeline for the quad: one shader module
// carrying both stages, an empty pipeline layout and the fixed-function state.
type Pipeline struct {
	device hal.Device

	shader   hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline

	format gputypes.TextureFormat
}

// NewPipeline validates source, then builds the render pipeline targeting
// format. On error every object created so far is destroyed.
func NewPipeline(device hal.Device, source string, format gputypes.TextureFormat) (*Pipeline, error) {
	if err := ValidateShader(source); err != nil {
		return nil, err
	}

	p := &Pipeline{device: device, format: format}
	if err := p.create(source); err != nil {
		p.Destroy()
		return nil, err
	}
	slogger().Debug("gpu: pipeline created", "format", format)
	return p, nil
}

func (p *Pipeline) create(source string) error {
	shader, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "gpucam_quad_shader",
		Source: hal.ShaderSource{WGSL: source},
	})
	if err != nil {
		return fmt.Errorf("gpu: compile quad shader: %w", err)
	}
	p.shader = shader

	// No bind groups: the empty layout is what automatic derivation yields.
	layout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "gpucam_quad_layout",
	})
	if err != nil {
		return fmt.Errorf("gpu: create quad pipeline layout: %w", err)
	}
	p.layout = layout

	pipeline, err := p.device.CreateRenderPipeline(p.descriptor())
	if err != nil {
		return fmt.Errorf("gpu: create quad pipeline: %w", err)
	}
	p.pipeline = pipeline
	return nil
}

// descriptor returns the full pipeline description. Kept separate so tests
// can check the fixed-function state without a device.
func (p *Pipeline) descriptor() *hal.RenderPipelineDescriptor {
	return &hal.RenderPipelineDescriptor{
		Label:  "gpucam_quad_pipeline",
		Layout: p.layout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: VertexEntryPoint,
			Buffers:    VertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: FragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    p.format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}
}

// Format returns the color target format the pipeline was built for.
func (p *Pipeline) Format() gputypes.TextureFormat {
	return p.format
}

// Destroy releases pipeline, layout and shader in reverse creation order.
func (p *Pipeline) Destroy() {
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.layout != nil {
		p.device.DestroyPipelineLayout(p.layout)
		p.layout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
