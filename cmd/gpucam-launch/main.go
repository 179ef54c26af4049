// Command gpucam-launch starts a child program, forwards its standard
// streams and exits with the child's exit code.
//
// Usage:
//
//	gpucam-launch [-grace 5s] [command [args...]]
//
// Without a command it launches gpucam-serve from PATH.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/gogpu/gpucam/internal/launch"
)

const defaultChild = "gpucam-serve"

func main() {
	var (
		grace   = flag.Duration("grace", launch.DefaultGracePeriod, "time a child gets to exit after an interrupt")
		verbose = flag.Bool("v", false, "log child start and exit")
	)
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	name, args := defaultChild, []string(nil)
	if flag.NArg() > 0 {
		name, args = flag.Arg(0), flag.Args()[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	l := &launch.Launcher{Logger: logger, GracePeriod: *grace}
	code, err := l.Run(ctx, name, args...)
	stop()
	if err != nil {
		logger.Error("gpucam-launch: " + err.Error())
	}
	os.Exit(code)
}
