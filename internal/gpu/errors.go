package gpu

import "errors"

// Errors returned by the GPU layer. Callers classify them; this package only
// wraps them with context.
var (
	// ErrNoBackend is returned by Probe when no requested backend is registered
	// or none of them can create an instance.
	ErrNoBackend = errors.New("gpu: no usable GPU backend")

	// ErrNoAdapter is returned when the instance enumerates no adapters.
	ErrNoAdapter = errors.New("gpu: no adapter found")

	// ErrNoDevice is returned when an operation needs a logical device that
	// has not been requested yet.
	ErrNoDevice = errors.New("gpu: device not acquired")

	// ErrNoSurfaceFormat is returned when the adapter reports no presentable
	// format for the surface.
	ErrNoSurfaceFormat = errors.New("gpu: surface has no supported format")

	// ErrSurfaceNotConfigured is returned when a texture is acquired before
	// Configure succeeded.
	ErrSurfaceNotConfigured = errors.New("gpu: surface not configured")

	// ErrShaderCompile is returned when WGSL fails to parse, lower or validate.
	ErrShaderCompile = errors.New("gpu: shader compilation failed")

	// ErrMissingEntryPoint is returned when the shader lacks vs_main or fs_main
	// with the expected stage.
	ErrMissingEntryPoint = errors.New("gpu: shader entry point missing")

	// ErrFormatMismatch is returned when the surface format no longer matches
	// the format the pipeline was built for.
	ErrFormatMismatch = errors.New("gpu: surface format does not match pipeline")

	// ErrEmptyGeometry is returned when a geometry has no vertices or indices.
	ErrEmptyGeometry = errors.New("gpu: empty geometry")

	// ErrNotReady is returned by Renderer.DrawFrame before geometry and
	// pipeline exist.
	ErrNotReady = errors.New("gpu: renderer resources not created")
)
