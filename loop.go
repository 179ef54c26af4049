package gpucam

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// FrameSource paces the render loop. WaitFrame blocks until the next frame
// is due. It returns ErrSourceClosed when no more frames will come, or the
// context error when ctx is canceled.
type FrameSource interface {
	WaitFrame(ctx context.Context) error
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func(ctx context.Context) error

// WaitFrame calls f(ctx).
func (f FrameSourceFunc) WaitFrame(ctx context.Context) error { return f(ctx) }

// TickerSource produces frames at a fixed interval.
type TickerSource struct {
	ticker *time.Ticker
}

// NewTickerSource returns a source ticking every interval. A non-positive
// interval uses 60 frames per second.
func NewTickerSource(interval time.Duration) *TickerSource {
	if interval <= 0 {
		interval = time.Second / 60
	}
	return &TickerSource{ticker: time.NewTicker(interval)}
}

// WaitFrame blocks until the next tick.
func (s *TickerSource) WaitFrame(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ticker.C:
		return nil
	}
}

// Stop releases the ticker. WaitFrame then blocks until ctx is canceled.
func (s *TickerSource) Stop() { s.ticker.Stop() }

// Loop runs step once per frame from source until stopped.
//
// Steps never overlap. A step already running when Stop is called
// completes, then Run returns.
type Loop struct {
	source FrameSource
	step   func() error

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	running bool

	iterations atomic.Uint64
}

// NewLoop returns a loop calling step for every frame of source.
func NewLoop(source FrameSource, step func() error) *Loop {
	return &Loop{source: source, step: step}
}

// Run blocks until the loop ends. It returns nil after Stop or when the
// source closes, the context error when ctx is canceled, and the step
// error when a step fails.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	if l.stopped {
		l.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	l.running = true
	l.cancel = cancel
	l.mu.Unlock()

	defer func() {
		cancel()
		l.mu.Lock()
		l.running = false
		l.cancel = nil
		l.mu.Unlock()
	}()

	for {
		if err := l.source.WaitFrame(ctx); err != nil {
			if errors.Is(err, ErrSourceClosed) || l.Stopped() {
				return nil
			}
			return err
		}
		if l.Stopped() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := l.step(); err != nil {
			return err
		}
		l.iterations.Add(1)
	}
}

// Stop ends the loop. It is safe to call from any goroutine, more than
// once, and before Run.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopped = true
	if l.cancel != nil {
		l.cancel()
	}
}

// Stopped reports whether Stop has been called.
func (l *Loop) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// Iterations returns the number of completed steps.
func (l *Loop) Iterations() uint64 {
	return l.iterations.Load()
}
