package display

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fkcurrie/smartled-matrix/pkg/layout"
	"github.com/fkcurrie/smartled-matrix/pkg/matrix"
	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
	"github.com/fkcurrie/smartled-matrix/pkg/transport"
)

func newRenderer(t *testing.T, interval time.Duration) (*Renderer, *transport.Recorder) {
	t.Helper()
	rec := transport.NewRecorder()
	m, err := matrix.New(rec, layout.NewIdentity(2, 2))
	if err != nil {
		t.Fatalf("matrix.New() error = %v", err)
	}
	return NewRenderer(m, interval), rec
}

// run starts r and returns a function that stops it and returns Start's error
func run(r *Renderer) func() error {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Start(ctx) }()
	return func() error {
		cancel()
		return <-done
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRendererAppliesFrame(t *testing.T) {
	for _, interval := range []time.Duration{0, 5 * time.Millisecond} {
		t.Run(interval.String(), func(t *testing.T) {
			r, rec := newRenderer(t, interval)
			stop := run(r)

			f := NewFrame(2, 2)
			f.Set(1, 0, pixbuf.Color{R: 255})
			f.Set(0, 1, pixbuf.Color{B: 255})
			r.Submit(f)
			waitFor(t, "a flush", func() bool { return rec.Frames() > 0 })

			if err := stop(); !errors.Is(err, context.Canceled) {
				t.Errorf("Start() error = %v, want %v", err, context.Canceled)
			}

			want := []pixbuf.Color{{}, {R: 255}, {B: 255}, {}}
			got := rec.Last()
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("pixel %d = %v, want %v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestRendererBrightness(t *testing.T) {
	r, rec := newRenderer(t, 0)
	stop := run(r)
	defer stop()

	f := NewFrame(2, 2)
	for i := range f.Pix {
		f.Pix[i] = pixbuf.Color{R: 200, G: 200, B: 200}
	}
	r.Submit(f)
	waitFor(t, "the frame", func() bool { return rec.Frames() >= 1 })

	r.SetBrightness(0)
	waitFor(t, "the brightness flush", func() bool {
		last := rec.Last()
		return len(last) > 0 && last[0] == pixbuf.Color{}
	})
}

func TestSubmitReplacesPending(t *testing.T) {
	r, rec := newRenderer(t, 0)

	a := NewFrame(2, 2)
	a.Set(0, 0, pixbuf.Color{R: 255})
	b := NewFrame(2, 2)
	b.Set(0, 0, pixbuf.Color{G: 255})

	// Both arrive before the renderer runs; only the newer one is shown
	r.Submit(a)
	r.Submit(b)
	if got := r.Stats().Dropped; got != 1 {
		t.Errorf("Stats().Dropped = %d, want 1", got)
	}

	stop := run(r)
	defer stop()
	waitFor(t, "a flush", func() bool { return rec.Frames() > 0 })

	if got := rec.Last()[0]; got != (pixbuf.Color{G: 255}) {
		t.Errorf("flushed pixel 0 = %v, want the newer frame's 00ff00", got)
	}
	if got := r.Stats().Frames; got != 1 {
		t.Errorf("Stats().Frames = %d, want 1", got)
	}
}

func TestSetBrightnessReplacesPending(t *testing.T) {
	r, _ := newRenderer(t, 0)
	r.SetBrightness(10)
	r.SetBrightness(20)
	if got := <-r.brightness; got != 20 {
		t.Errorf("pending brightness = %d, want 20", got)
	}
}

func TestRendererFlushError(t *testing.T) {
	r, rec := newRenderer(t, 0)
	rec.FailWith(errors.New("bus stalled"))
	stop := run(r)
	defer stop()

	r.Submit(NewFrame(2, 2))
	waitFor(t, "a flush error", func() bool { return r.Stats().FlushErrors > 0 })

	if err := r.Stats().LastError; !errors.Is(err, matrix.ErrTransport) {
		t.Errorf("Stats().LastError = %v, want %v", err, matrix.ErrTransport)
	}
}

func TestRendererRetriesWithoutTicker(t *testing.T) {
	r, rec := newRenderer(t, 0)
	rec.FailWith(errors.New("bus stalled"))
	stop := run(r)
	defer stop()

	f := NewFrame(2, 2)
	f.Set(1, 1, pixbuf.Color{B: 255})
	r.Submit(f)
	waitFor(t, "a flush error", func() bool { return r.Stats().FlushErrors > 0 })

	// No new frame arrives; the retry alone must deliver it
	rec.FailWith(nil)
	waitFor(t, "the retried flush", func() bool { return rec.Frames() > 0 })
	if got := rec.Last()[3]; got != (pixbuf.Color{B: 255}) {
		t.Errorf("retried pixel 3 = %v, want 0000ff", got)
	}
}

func TestFrameFromRGB(t *testing.T) {
	f, err := FrameFromRGB(2, 1, []byte{1, 2, 3, 4, 5, 6})
	if err != nil {
		t.Fatalf("FrameFromRGB() error = %v", err)
	}
	if f.Pix[1] != (pixbuf.Color{R: 4, G: 5, B: 6}) {
		t.Errorf("Pix[1] = %v, want 040506", f.Pix[1])
	}
	if _, err := FrameFromRGB(2, 2, []byte{1, 2, 3}); err == nil {
		t.Error("FrameFromRGB() with short data returned no error")
	}
}

func TestFramePixelsCoordinates(t *testing.T) {
	f := NewFrame(3, 2)
	var got []matrix.Pixel
	for p := range f.Pixels() {
		got = append(got, p)
	}
	if len(got) != 6 {
		t.Fatalf("Pixels() yielded %d, want 6", len(got))
	}
	if p := got[4].Point; p.X != 1 || p.Y != 1 {
		t.Errorf("Pixels()[4] = %v, want (1,1)", p)
	}
}
