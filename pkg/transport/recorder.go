// Package transport holds strip transports that need no hardware.
package transport

import (
	"sync"

	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
)

// Recorder keeps every frame written to it. It stands in for a strip in
// tests and dry runs.
type Recorder struct {
	mu     sync.Mutex
	frames [][]pixbuf.Color
	err    error
	closed bool
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// WriteColors records a copy of colors, or returns the injected error
func (r *Recorder) WriteColors(colors []pixbuf.Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	frame := make([]pixbuf.Color, len(colors))
	copy(frame, colors)
	r.frames = append(r.frames, frame)
	return nil
}

// FailWith makes every following write fail with err. nil restores normal
// operation.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Frames returns the number of frames recorded
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Last returns the most recent frame, or nil before the first write
func (r *Recorder) Last() []pixbuf.Color {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// Frame returns frame i
func (r *Recorder) Frame(i int) []pixbuf.Color {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[i]
}

// Reset forgets all recorded frames
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}

// Close marks the recorder closed
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Closed reports whether Close was called
func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
