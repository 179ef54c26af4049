// Command gpucam-serve serves the quad shader over HTTP for renderers
// configured with a shader URL.
//
// The embedded shader is served at /shaders/quad.wgsl. With -dir the
// files of that directory are served under /shaders/ instead.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/gpucam/shaders"
)

func main() {
	var (
		addr = flag.String("addr", "localhost:8080", "listen address")
		dir  = flag.String("dir", "", "serve shaders from this directory instead of the embedded set")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var fsys fs.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(logger, shaders.Handler(fsys)),
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("gpucam-serve: shutdown", "err", err)
		}
	}()

	logger.Info("gpucam-serve: listening", "addr", *addr, "url", "http://"+*addr+shaders.QuadPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("gpucam-serve: %v", err)
	}
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("gpucam-serve: request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}
