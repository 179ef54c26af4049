// Package gpu drives the wgpu HAL for gpucam.
//
// This is an internal package. It owns every GPU object the renderer creates
// and knows nothing about windows, status text or scheduling; those live in
// the root gpucam package.
//
// # Architecture Overview
//
// Objects are created in a fixed order and destroyed in reverse:
//
//	Probe -> Device (instance, adapter, device, queue) -> Surface
//	      -> Geometry (vertex + index buffers) -> Pipeline -> frames
//
// Key components:
//
//   - Device: backend selection, adapter and logical device acquisition
//   - Surface: drawable surface bound to a native window, configured with
//     the adapter's preferred format and opaque alpha
//   - Geometry: the static quad, uploaded once with Queue.WriteBuffer
//   - Pipeline: one render pipeline built from a single WGSL module that
//     carries both vs_main and fs_main
//   - Renderer: ties the above together and encodes one frame per call
//
// # Frames
//
// A frame begins a command encoder, acquires the surface texture, records one
// render pass (clear, pipeline, vertex buffer at slot 0, uint16 index buffer,
// one indexed draw), submits and presents. Command buffers and texture views
// stay alive until the queue reports their submission complete.
//
// # Testing
//
// All code is written against hal interfaces, so tests run on the noop
// backend (github.com/gogpu/wgpu/hal/noop) without a GPU.
package gpu
