package gpucam

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/gpucam/shaders"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	require.NoError(t, c.Validate())
	assert.Equal(t, 800, c.Width)
	assert.Equal(t, 600, c.Height)
	assert.True(t, c.ReconfigureOnResize)
	assert.Equal(t, DrawFailureSkip, c.DrawFailure)
	assert.Equal(t, VariantFull, c.Variant)
	assert.Equal(t, gputypes.PresentModeFifo, c.PresentMode)
	assert.Equal(t, gputypes.Color{R: 0.1, G: 0.1, B: 0.1, A: 1}, c.ClearColor)
	assert.Equal(t, gputypes.BackendEmpty, c.Backends[len(c.Backends)-1], "noop backend is the last resort")
}

func TestConfigWithMethodsDoNotAlias(t *testing.T) {
	base := DefaultConfig()
	c := base.WithTitle("demo").
		WithSize(320, 200).
		WithBackends(gputypes.BackendGL).
		WithPresentMode(gputypes.PresentModeMailbox).
		WithReconfigureOnResize(false).
		WithDrawFailure(DrawFailureHalt).
		WithVariant(VariantReduced).
		WithClearColor(gputypes.Color{A: 1}).
		WithShaderURL("http://localhost:8080/shaders/quad.wgsl")

	assert.Equal(t, "demo", c.Title)
	assert.Equal(t, []gputypes.Backend{gputypes.BackendGL}, c.Backends)
	assert.Equal(t, DrawFailureHalt, c.DrawFailure)
	assert.Equal(t, "gpucam", base.Title, "base config unchanged")
	assert.Len(t, base.Backends, 5)
}

func TestParseConfig(t *testing.T) {
	doc := []byte(`
window:
  title: quad
  width: 1024
  height: 768
render:
  backends: [vulkan, gl, noop]
  present_mode: mailbox
  reconfigure_on_resize: false
  draw_failure: halt
  clear_color: [0, 0, 0, 1]
shader:
  url: http://localhost:8080/shaders/quad.wgsl
status:
  variant: reduced
log:
  level: debug
`)

	c, err := ParseConfig(doc)
	require.NoError(t, err)

	assert.Equal(t, "quad", c.Title)
	assert.Equal(t, 1024, c.Width)
	assert.Equal(t, 768, c.Height)
	assert.Equal(t, []gputypes.Backend{gputypes.BackendVulkan, gputypes.BackendGL, gputypes.BackendEmpty}, c.Backends)
	assert.Equal(t, gputypes.PresentModeMailbox, c.PresentMode)
	assert.False(t, c.ReconfigureOnResize)
	assert.Equal(t, DrawFailureHalt, c.DrawFailure)
	assert.Equal(t, gputypes.Color{A: 1}, c.ClearColor)
	assert.Equal(t, "http://localhost:8080/shaders/quad.wgsl", c.ShaderURL)
	assert.Equal(t, VariantReduced, c.Variant)
	assert.Equal(t, slog.LevelDebug, c.LogLevel)
}

func TestParseConfigEmptyKeepsDefaults(t *testing.T) {
	c, err := ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "window:\n  colour: red\n"},
		{"unknown backend", "render:\n  backends: [directx9]\n"},
		{"unknown present mode", "render:\n  present_mode: vsync\n"},
		{"unknown policy", "render:\n  draw_failure: retry\n"},
		{"unknown variant", "status:\n  variant: tiny\n"},
		{"bad level", "log:\n  level: loud\n"},
		{"zero size", "window:\n  width: 0\n"},
		{"short clear color", "render:\n  clear_color: [1, 0]\n"},
		{"not yaml", "window: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gpucam.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window:\n  title: from file\n"), 0o600))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from file", c.Title)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestParseBackends(t *testing.T) {
	got, err := ParseBackends("Vulkan, gles,,empty")
	require.NoError(t, err)
	assert.Equal(t, []gputypes.Backend{gputypes.BackendVulkan, gputypes.BackendGL, gputypes.BackendEmpty}, got)

	_, err = ParseBackends(" , ")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = ParseBackends("vulkan,opengl")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigShaderSource(t *testing.T) {
	ctx := context.Background()

	src, err := DefaultConfig().ShaderSource().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, shaders.QuadWGSL, src)

	path := filepath.Join(t.TempDir(), "custom.wgsl")
	require.NoError(t, os.WriteFile(path, []byte("// custom"), 0o600))
	src, err = DefaultConfig().WithShaderPath(path).ShaderSource().Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "// custom", src)

	_, ok := DefaultConfig().WithShaderURL("http://example.invalid/q.wgsl").ShaderSource().(*shaders.HTTPSource)
	assert.True(t, ok)
}
