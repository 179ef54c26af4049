// Package shaders provides the WGSL source for the gpucam quad pipeline.
//
// The source is treated as opaque text. A Source loads it from the copy
// embedded in the binary, from a file system, or over HTTP from the
// development server (cmd/gpucam-serve). Validation happens later, when the
// pipeline is built.
package shaders

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"time"
)

// QuadPath is the logical path the quad shader is served under.
const QuadPath = "/shaders/quad.wgsl"

// QuadFile is the file name of the quad shader inside FS.
const QuadFile = "quad.wgsl"

// Prefix is the URL path prefix Handler serves shaders under.
const Prefix = "/shaders/"

// maxSourceSize bounds how much of an HTTP response is read.
const maxSourceSize = 1 << 20

//go:embed quad.wgsl
var QuadWGSL string

// FS holds every embedded shader. cmd/gpucam-serve serves it under /shaders/.
//
//go:embed *.wgsl
var FS embed.FS

// Errors returned by sources.
var (
	// ErrFetch is returned when an HTTP source answers with a non-2xx status
	// or the request cannot be made.
	ErrFetch = errors.New("shaders: fetch failed")

	// ErrEmpty is returned when a source yields no text.
	ErrEmpty = errors.New("shaders: empty shader source")
)

// Source loads shader text.
type Source interface {
	Load(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) (string, error)

// Load calls f(ctx).
func (f SourceFunc) Load(ctx context.Context) (string, error) {
	return f(ctx)
}

// Embedded returns a Source yielding the quad shader compiled into the binary.
func Embedded() Source {
	return SourceFunc(func(context.Context) (string, error) {
		return QuadWGSL, nil
	})
}

// File returns a Source reading name from fsys.
func File(fsys fs.FS, name string) Source {
	return SourceFunc(func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return "", fmt.Errorf("shaders: read %s: %w", name, err)
		}
		if len(data) == 0 {
			return "", fmt.Errorf("%w: %s", ErrEmpty, name)
		}
		return string(data), nil
	})
}

// HTTPSource fetches shader text with a GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// HTTP returns a Source fetching url. A nil client uses a client with a
// 10 second timeout.
func HTTP(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPSource{URL: url, Client: client}
}

// Load performs the request. Any non-2xx status is an ErrFetch.
func (s *HTTPSource) Load(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.URL, err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrFetch, s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: %s: %s", ErrFetch, s.URL, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %s: read body: %w", ErrFetch, s.URL, err)
	}
	if len(data) > maxSourceSize {
		return "", fmt.Errorf("%w: %s: shader larger than %d bytes", ErrFetch, s.URL, maxSourceSize)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmpty, s.URL)
	}
	return string(data), nil
}

// Handler serves the files of fsys under Prefix. A nil fsys serves FS.
// WGSL files are sent as text/wgsl.
func Handler(fsys fs.FS) http.Handler {
	if fsys == nil {
		fsys = FS
	}
	files := http.StripPrefix(Prefix, http.FileServerFS(fsys))
	mux := http.NewServeMux()
	mux.HandleFunc(Prefix, func(w http.ResponseWriter, r *http.Request) {
		if path.Ext(r.URL.Path) == ".wgsl" {
			w.Header().Set("Content-Type", "text/wgsl; charset=utf-8")
		}
		files.ServeHTTP(w, r)
	})
	return mux
}
