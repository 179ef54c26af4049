package gpucam

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gpucam/internal/gpu"
)

// driver is the GPU work the App sequences. *gpu.Renderer is the only
// production implementation.
type driver interface {
	Probe() error
	RequestAdapter() (gputypes.AdapterInfo, error)
	RequestDevice() error
	CreateSurface(display, window uintptr) error
	ConfigureSurface(width, height uint32) (gputypes.TextureFormat, error)
	SurfaceSize() (width, height uint32)
	CreateGeometry() error
	CreatePipeline(source string) error
	DrawFrame(clear gputypes.Color) error
	Release()
}

var _ driver = (*gpu.Renderer)(nil)
