package transport

import (
	"errors"
	"testing"

	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
)

func TestRecorderCopiesFrames(t *testing.T) {
	r := NewRecorder()
	frame := []pixbuf.Color{{1, 2, 3}, {4, 5, 6}}
	if err := r.WriteColors(frame); err != nil {
		t.Fatalf("WriteColors() error = %v", err)
	}
	frame[0] = pixbuf.Color{9, 9, 9}

	if r.Frames() != 1 {
		t.Fatalf("Frames() = %d, want 1", r.Frames())
	}
	if got := r.Last()[0]; got != (pixbuf.Color{1, 2, 3}) {
		t.Errorf("Last()[0] = %v, want 010203", got)
	}
}

func TestRecorderFailWith(t *testing.T) {
	r := NewRecorder()
	bus := errors.New("bus")
	r.FailWith(bus)
	if err := r.WriteColors(make([]pixbuf.Color, 3)); !errors.Is(err, bus) {
		t.Errorf("WriteColors() error = %v, want %v", err, bus)
	}
	if r.Frames() != 0 {
		t.Errorf("Frames() = %d after a failed write, want 0", r.Frames())
	}

	r.FailWith(nil)
	if err := r.WriteColors(make([]pixbuf.Color, 3)); err != nil {
		t.Errorf("WriteColors() error = %v after FailWith(nil)", err)
	}
}

func TestRecorderClose(t *testing.T) {
	r := NewRecorder()
	if r.Last() != nil {
		t.Error("Last() before any write is not nil")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if !r.Closed() {
		t.Error("Closed() = false after Close()")
	}
}
