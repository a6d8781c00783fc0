package display

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fkcurrie/smartled-matrix/pkg/matrix"
)

// RetryDelay is how long a renderer without a flush interval waits before
// retrying a failed flush
const RetryDelay = 50 * time.Millisecond

// Stats counts what the renderer has done since it was created
type Stats struct {
	Frames      int
	Dropped     int
	Flushes     int
	FlushErrors int
	LastError   error
}

// Renderer owns a matrix and is the only goroutine that touches it. Other
// goroutines hand it frames and brightness changes.
type Renderer struct {
	matrix     *matrix.Matrix
	interval   time.Duration
	frames     chan Frame
	brightness chan uint8

	mu    sync.RWMutex
	stats Stats
}

// NewRenderer creates a renderer for m. With a positive interval the matrix
// is flushed on a ticker whenever something changed; otherwise every frame
// is flushed as soon as it is applied.
func NewRenderer(m *matrix.Matrix, interval time.Duration) *Renderer {
	return &Renderer{
		matrix:     m,
		interval:   interval,
		frames:     make(chan Frame, 1),
		brightness: make(chan uint8, 1),
	}
}

// Submit queues a frame without blocking. A frame still waiting from an
// earlier call is replaced by f and counted as dropped.
func (r *Renderer) Submit(f Frame) {
	for {
		select {
		case r.frames <- f:
			return
		default:
			select {
			case <-r.frames:
				r.mu.Lock()
				r.stats.Dropped++
				r.mu.Unlock()
			default:
			}
		}
	}
}

// SetBrightness queues a brightness change. A pending change that has not
// been applied yet is replaced.
func (r *Renderer) SetBrightness(b uint8) {
	for {
		select {
		case r.brightness <- b:
			return
		default:
			select {
			case <-r.brightness:
			default:
			}
		}
	}
}

// Stats returns a snapshot of the renderer counters
func (r *Renderer) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stats
}

// Start runs the renderer until ctx is done
func (r *Renderer) Start(ctx context.Context) error {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// retry fires once after a failed flush when there is no ticker
	var retry <-chan time.Time

	dirty := false
	for {
		flushNow := false
		select {
		case <-ctx.Done():
			return ctx.Err()
		case f := <-r.frames:
			r.matrix.Draw(f.Pixels())
			r.mu.Lock()
			r.stats.Frames++
			r.mu.Unlock()
			dirty = true
			flushNow = tick == nil
		case b := <-r.brightness:
			r.matrix.SetBrightness(b)
			dirty = true
			flushNow = tick == nil
		case <-tick:
			flushNow = true
		case <-retry:
			retry = nil
			flushNow = true
		}

		if dirty && flushNow {
			dirty = !r.flush()
			if dirty && tick == nil {
				retry = time.After(RetryDelay)
			}
		}
	}
}

// flush writes the matrix and reports whether it succeeded. A failed flush
// is retried on the next tick, or after RetryDelay without a ticker.
func (r *Renderer) flush() bool {
	err := r.matrix.Flush()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.stats.FlushErrors++
		r.stats.LastError = err
		log.Printf("Failed to render: %v", err)
		return false
	}
	r.stats.Flushes++
	return true
}
