package gpucam

import (
	"github.com/gogpu/gpucam/internal/gpu"
	"github.com/gogpu/gpucam/shaders"
)

// Option configures an App during creation.
//
// Example:
//
//	app := gpucam.New(window,
//	    gpucam.WithConfig(gpucam.DefaultConfig().WithVariant(gpucam.VariantReduced)),
//	    gpucam.WithStatus(window),
//	)
type Option func(*options)

// options holds optional configuration for App creation.
type options struct {
	cfg    Config
	status StatusSink
	source shaders.Source
	drv    driver
}

func defaultOptions() options {
	return options{cfg: DefaultConfig()}
}

// WithConfig replaces the default configuration.
func WithConfig(c Config) Option {
	return func(o *options) {
		o.cfg = c
	}
}

// WithStatus sets the sink that receives status text.
// Without it, status changes are only logged.
func WithStatus(s StatusSink) Option {
	return func(o *options) {
		o.status = s
	}
}

// WithShaderSource overrides the shader source chosen by the config.
func WithShaderSource(src shaders.Source) Option {
	return func(o *options) {
		o.source = src
	}
}

// withDriver injects the GPU driver. Tests use it to observe every call.
func withDriver(d driver) Option {
	return func(o *options) {
		o.drv = d
	}
}

func (o *options) resolve() {
	if o.status == nil {
		o.status = LogStatus(nil)
	}
	if o.source == nil {
		o.source = o.cfg.ShaderSource()
	}
	if o.drv == nil {
		o.drv = gpu.NewRenderer(gpu.RendererConfig{
			Backends:    o.cfg.Backends,
			PresentMode: o.cfg.PresentMode,
		})
	}
}
