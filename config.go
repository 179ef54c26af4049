package gpucam

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/gpucam/internal/gpu"
	"github.com/gogpu/gpucam/shaders"
)

// DrawFailurePolicy decides what happens after a frame fails.
type DrawFailurePolicy int

const (
	// DrawFailureSkip logs the failure and keeps the loop running.
	DrawFailureSkip DrawFailurePolicy = iota
	// DrawFailureHalt stops the loop and reports the error status.
	DrawFailureHalt
)

// String returns the lowercase config name of p.
func (p DrawFailurePolicy) String() string {
	switch p {
	case DrawFailureSkip:
		return "skip"
	case DrawFailureHalt:
		return "halt"
	default:
		return fmt.Sprintf("DrawFailurePolicy(%d)", int(p))
	}
}

// Config holds every renderer setting. Build one with DefaultConfig and the
// With methods, or load it from YAML with LoadConfig.
type Config struct {
	Title  string
	Width  int // initial window layout width
	Height int // initial window layout height

	// Backends lists GPU backends in probe order.
	Backends    []gputypes.Backend
	PresentMode gputypes.PresentMode

	// ReconfigureOnResize reconfigures the surface at the next frame when
	// the backing size no longer matches it.
	ReconfigureOnResize bool
	DrawFailure         DrawFailurePolicy
	Variant             Variant
	ClearColor          gputypes.Color

	// ShaderURL, when set, fetches the WGSL source over HTTP.
	ShaderURL string
	// ShaderPath, when set and ShaderURL is empty, reads the source from disk.
	ShaderPath string

	LogLevel slog.Level
}

// DefaultConfig returns the default settings.
func DefaultConfig() Config {
	return Config{
		Title:               "gpucam",
		Width:               800,
		Height:              600,
		Backends:            slices.Clone(gpu.DefaultBackends),
		PresentMode:         gputypes.PresentModeFifo,
		ReconfigureOnResize: true,
		DrawFailure:         DrawFailureSkip,
		Variant:             VariantFull,
		ClearColor:          gpu.DefaultClearColor,
		LogLevel:            slog.LevelInfo,
	}
}

// WithTitle returns c with the window title set.
func (c Config) WithTitle(title string) Config {
	c.Title = title
	return c
}

// WithSize returns c with the initial layout size set.
func (c Config) WithSize(width, height int) Config {
	c.Width, c.Height = width, height
	return c
}

// WithBackends returns c with the probe order set.
func (c Config) WithBackends(backends ...gputypes.Backend) Config {
	c.Backends = slices.Clone(backends)
	return c
}

// WithPresentMode returns c with the preferred present mode set.
func (c Config) WithPresentMode(mode gputypes.PresentMode) Config {
	c.PresentMode = mode
	return c
}

// WithReconfigureOnResize returns c with resize-driven reconfiguration
// enabled or disabled.
func (c Config) WithReconfigureOnResize(enabled bool) Config {
	c.ReconfigureOnResize = enabled
	return c
}

// WithDrawFailure returns c with the draw failure policy set.
func (c Config) WithDrawFailure(p DrawFailurePolicy) Config {
	c.DrawFailure = p
	return c
}

// WithVariant returns c with the status variant set.
func (c Config) WithVariant(v Variant) Config {
	c.Variant = v
	return c
}

// WithClearColor returns c with the frame clear color set.
func (c Config) WithClearColor(color gputypes.Color) Config {
	c.ClearColor = color
	return c
}

// WithShaderURL returns c loading the shader from url.
func (c Config) WithShaderURL(url string) Config {
	c.ShaderURL = url
	return c
}

// WithShaderPath returns c loading the shader from a file.
func (c Config) WithShaderPath(path string) Config {
	c.ShaderPath = path
	return c
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if len(c.Backends) == 0 {
		return fmt.Errorf("%w: no backends", ErrInvalidConfig)
	}
	if c.DrawFailure != DrawFailureSkip && c.DrawFailure != DrawFailureHalt {
		return fmt.Errorf("%w: draw failure policy %d", ErrInvalidConfig, int(c.DrawFailure))
	}
	if c.Variant != VariantFull && c.Variant != VariantReduced {
		return fmt.Errorf("%w: variant %d", ErrInvalidConfig, int(c.Variant))
	}
	return nil
}

// ShaderSource returns the source selected by the config: URL first, then
// file path, then the embedded shader.
func (c Config) ShaderSource() shaders.Source {
	switch {
	case c.ShaderURL != "":
		return shaders.HTTP(c.ShaderURL, nil)
	case c.ShaderPath != "":
		return shaders.File(os.DirFS(filepath.Dir(c.ShaderPath)), filepath.Base(c.ShaderPath))
	default:
		return shaders.Embedded()
	}
}

// fileConfig is the YAML document layout. Pointer fields distinguish
// absent keys from zero values.
type fileConfig struct {
	Window struct {
		Title  *string `yaml:"title"`
		Width  *int    `yaml:"width"`
		Height *int    `yaml:"height"`
	} `yaml:"window"`
	Render struct {
		Backends            []string    `yaml:"backends"`
		PresentMode         *string     `yaml:"present_mode"`
		ReconfigureOnResize *bool       `yaml:"reconfigure_on_resize"`
		DrawFailure         *string     `yaml:"draw_failure"`
		ClearColor          *[4]float64 `yaml:"clear_color"`
	} `yaml:"render"`
	Shader struct {
		URL  *string `yaml:"url"`
		Path *string `yaml:"path"`
	} `yaml:"shader"`
	Status struct {
		Variant *string `yaml:"variant"`
	} `yaml:"status"`
	Log struct {
		Level *string `yaml:"level"`
	} `yaml:"log"`
}

// LoadConfig reads a YAML config file. Keys absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses a YAML config document over DefaultConfig.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	c := DefaultConfig()
	if v := fc.Window.Title; v != nil {
		c.Title = *v
	}
	if v := fc.Window.Width; v != nil {
		c.Width = *v
	}
	if v := fc.Window.Height; v != nil {
		c.Height = *v
	}

	if len(fc.Render.Backends) > 0 {
		c.Backends = c.Backends[:0]
		for _, name := range fc.Render.Backends {
			b, err := parseBackend(name)
			if err != nil {
				return Config{}, err
			}
			c.Backends = append(c.Backends, b)
		}
	}
	if v := fc.Render.PresentMode; v != nil {
		m, err := parsePresentMode(*v)
		if err != nil {
			return Config{}, err
		}
		c.PresentMode = m
	}
	if v := fc.Render.ReconfigureOnResize; v != nil {
		c.ReconfigureOnResize = *v
	}
	if v := fc.Render.DrawFailure; v != nil {
		p, err := parseDrawFailure(*v)
		if err != nil {
			return Config{}, err
		}
		c.DrawFailure = p
	}
	if v := fc.Render.ClearColor; v != nil {
		c.ClearColor = gputypes.Color{R: v[0], G: v[1], B: v[2], A: v[3]}
	}

	if v := fc.Shader.URL; v != nil {
		c.ShaderURL = *v
	}
	if v := fc.Shader.Path; v != nil {
		c.ShaderPath = *v
	}
	if v := fc.Status.Variant; v != nil {
		variant, err := parseVariant(*v)
		if err != nil {
			return Config{}, err
		}
		c.Variant = variant
	}
	if v := fc.Log.Level; v != nil {
		if err := c.LogLevel.UnmarshalText([]byte(*v)); err != nil {
			return Config{}, fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
		}
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// ParseBackends parses a comma-separated backend list such as "vulkan,gl".
func ParseBackends(list string) ([]gputypes.Backend, error) {
	var out []gputypes.Backend
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		b, err := parseBackend(name)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty backend list", ErrInvalidConfig)
	}
	return out, nil
}

var backendNames = map[string]gputypes.Backend{
	"vulkan": gputypes.BackendVulkan,
	"metal":  gputypes.BackendMetal,
	"dx12":   gputypes.BackendDX12,
	"gl":     gputypes.BackendGL,
	"gles":   gputypes.BackendGL,
	"empty":  gputypes.BackendEmpty,
	"noop":   gputypes.BackendEmpty,
}

func parseBackend(s string) (gputypes.Backend, error) {
	b, ok := backendNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, s)
	}
	return b, nil
}

var presentModeNames = map[string]gputypes.PresentMode{
	"fifo":         gputypes.PresentModeFifo,
	"fifo-relaxed": gputypes.PresentModeFifoRelaxed,
	"fifo_relaxed": gputypes.PresentModeFifoRelaxed,
	"immediate":    gputypes.PresentModeImmediate,
	"mailbox":      gputypes.PresentModeMailbox,
}

// ParsePresentMode parses a present mode name such as "mailbox".
func ParsePresentMode(s string) (gputypes.PresentMode, error) {
	return parsePresentMode(s)
}

func parsePresentMode(s string) (gputypes.PresentMode, error) {
	m, ok := presentModeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown present mode %q", ErrInvalidConfig, s)
	}
	return m, nil
}

func parseDrawFailure(s string) (DrawFailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "skip":
		return DrawFailureSkip, nil
	case "halt":
		return DrawFailureHalt, nil
	default:
		return 0, fmt.Errorf("%w: unknown draw failure policy %q", ErrInvalidConfig, s)
	}
}
