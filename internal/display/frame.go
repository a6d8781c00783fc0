package display

import (
	"fmt"
	"image"
	"iter"

	"github.com/fkcurrie/smartled-matrix/pkg/matrix"
	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
)

// Frame is a complete picture in logical row-major order
type Frame struct {
	Width  int
	Height int
	Pix    []pixbuf.Color
}

// NewFrame returns a black frame
func NewFrame(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]pixbuf.Color, width*height)}
}

// FrameFromRGB builds a frame from packed R, G, B bytes
func FrameFromRGB(width, height int, data []byte) (Frame, error) {
	if want := width * height * 3; len(data) != want {
		return Frame{}, fmt.Errorf("frame is %d bytes, want %d for %dx%d", len(data), want, width, height)
	}
	f := NewFrame(width, height)
	for i := range f.Pix {
		f.Pix[i] = pixbuf.Color{R: data[3*i], G: data[3*i+1], B: data[3*i+2]}
	}
	return f, nil
}

// Set colors the pixel at (x, y); points outside the frame are ignored
func (f Frame) Set(x, y int, c pixbuf.Color) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	f.Pix[y*f.Width+x] = c
}

// Pixels yields every pixel of the frame with its coordinates
func (f Frame) Pixels() iter.Seq[matrix.Pixel] {
	return func(yield func(matrix.Pixel) bool) {
		for i, c := range f.Pix[:min(len(f.Pix), f.Width*f.Height)] {
			p := image.Pt(i%f.Width, i/f.Width)
			if !yield(matrix.Pixel{Point: p, Color: c}) {
				return
			}
		}
	}
}
