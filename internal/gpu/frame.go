package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultClearColor is the dark gray the quad is drawn over.
var DefaultClearColor = gputypes.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0}

// EncodeFrame records the quad render pass into an encoder that has already
// begun encoding, and finishes it.
//
// The pass clears view to clear, binds the pipeline, the vertex buffer at
// slot 0 and the uint16 index buffer, and issues one indexed draw of
// geometry.IndexCount() indices.
func EncodeFrame(encoder hal.CommandEncoder, view hal.TextureView, clear gputypes.Color, pipeline *Pipeline, geometry *Geometry) (hal.CommandBuffer, error) {
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "gpucam_quad_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     gputypes.LoadOpClear,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			},
		},
	})
	rp.SetPipeline(pipeline.pipeline)
	geometry.bind(rp)
	rp.DrawIndexed(geometry.IndexCount(), 1, 0, 0, 0)
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("gpu: finish frame encoding: %w", err)
	}
	return cmdBuf, nil
}

// inflightFrame keeps a submitted frame's command buffer and view alive until
// the queue reports the submission complete.
type inflightFrame struct {
	index  uint64
	cmdBuf hal.CommandBuffer
	view   hal.TextureView
}

// reclaim frees in-flight frames. With all set it frees every frame, which is
// only safe after the device is idle.
func reclaim(device hal.Device, queue hal.Queue, frames []inflightFrame, all bool) []inflightFrame {
	if len(frames) == 0 {
		return frames
	}
	completed := queue.PollCompleted()
	kept := frames[:0]
	for _, f := range frames {
		if !all && f.index > completed {
			kept = append(kept, f)
			continue
		}
		device.FreeCommandBuffer(f.cmdBuf)
		device.DestroyTextureView(f.view)
	}
	return kept
}
