// Command gpucam opens a window and renders a vertex-colored quad with WebGPU.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	_ "github.com/gogpu/wgpu/hal/allbackends"

	"github.com/gogpu/gpucam"
	"github.com/gogpu/gpucam/integration/glfwcanvas"
)

func init() {
	// GLFW and the surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath    = flag.String("config", "", "YAML config file")
		title         = flag.String("title", "", "window title")
		width         = flag.Int("width", 0, "window width in screen coordinates")
		height        = flag.Int("height", 0, "window height in screen coordinates")
		backends      = flag.String("backends", "", "backend preference, e.g. vulkan,gl,noop")
		present       = flag.String("present", "", "present mode: fifo, fifo-relaxed, immediate or mailbox")
		shaderURL     = flag.String("shader-url", "", "fetch the WGSL shader from this URL")
		shaderPath    = flag.String("shader", "", "read the WGSL shader from this file")
		reduced       = flag.Bool("reduced", false, `report "Initialized" instead of "Rendering Quad"`)
		halt          = flag.Bool("halt-on-draw-error", false, "stop rendering at the first draw failure")
		noReconfigure = flag.Bool("no-reconfigure", false, "keep the initial surface size on resize")
		logLevel      = flag.String("log-level", "", "debug, info, warn or error")
	)
	flag.Parse()

	cfg := gpucam.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = gpucam.LoadConfig(*configPath); err != nil {
			log.Fatalf("gpucam: %v", err)
		}
	}

	// Flags given on the command line win over the config file.
	var flagErr error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg = cfg.WithTitle(*title)
		case "width":
			cfg = cfg.WithSize(*width, cfg.Height)
		case "height":
			cfg = cfg.WithSize(cfg.Width, *height)
		case "backends":
			list, err := gpucam.ParseBackends(*backends)
			if err != nil {
				flagErr = errors.Join(flagErr, err)
				return
			}
			cfg = cfg.WithBackends(list...)
		case "present":
			mode, err := gpucam.ParsePresentMode(*present)
			if err != nil {
				flagErr = errors.Join(flagErr, err)
				return
			}
			cfg = cfg.WithPresentMode(mode)
		case "shader-url":
			cfg = cfg.WithShaderURL(*shaderURL)
		case "shader":
			cfg = cfg.WithShaderPath(*shaderPath)
		case "reduced":
			if *reduced {
				cfg = cfg.WithVariant(gpucam.VariantReduced)
			}
		case "halt-on-draw-error":
			if *halt {
				cfg = cfg.WithDrawFailure(gpucam.DrawFailureHalt)
			}
		case "no-reconfigure":
			cfg = cfg.WithReconfigureOnResize(!*noReconfigure)
		case "log-level":
			if err := cfg.LogLevel.UnmarshalText([]byte(*logLevel)); err != nil {
				flagErr = errors.Join(flagErr, err)
			}
		}
	})
	if flagErr != nil {
		log.Fatalf("gpucam: %v", flagErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("gpucam: %v", err)
	}

	gpucam.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, cfg)
	stop()
	if err != nil {
		log.Fatalf("gpucam: %v", err)
	}
}

func run(ctx context.Context, cfg gpucam.Config) error {
	win, err := glfwcanvas.New(cfg)
	if err != nil {
		return err
	}
	defer win.Close()

	app := gpucam.New(win,
		gpucam.WithConfig(cfg),
		gpucam.WithStatus(gpucam.MultiStatus(win, gpucam.LogStatus(nil))),
	)
	app.BindResize(win)

	if err := app.Start(ctx); err != nil {
		// Keep the window open so the status in its title stays readable.
		win.WaitClosed(ctx)
		return err
	}
	defer app.Close()

	err = app.Run(ctx, win)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	stats := app.Stats()
	gpucam.Logger().Info("gpucam: exiting",
		"frames", stats.Frames, "skipped", stats.Skipped, "failed", stats.Failed, "configures", stats.Configures)
	return err
}
