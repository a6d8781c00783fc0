// Package matrix draws onto an LED strip wired as a matrix.
//
// A Matrix accepts logical pixel writes, places them on the strip through a
// layout.Layout and, on Flush, sends the whole strip scaled by the global
// brightness to a Transport. It implements both drivers.Displayer and
// draw.Image, so tinyfont, rasterx, x/image and the standard library can all
// draw on it.
//
// A Matrix is not safe for concurrent use. Programs that draw from several
// goroutines should hand complete frames to a single owner instead.
package matrix

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"iter"
	"math"
	"slices"

	"github.com/fkcurrie/smartled-matrix/pkg/layout"
	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
	"tinygo.org/x/drivers"
)

var (
	_ drivers.Displayer = (*Matrix)(nil)
	_ draw.Image        = (*Matrix)(nil)
)

// MaxBrightness leaves colors untouched on flush
const MaxBrightness = 255

var (
	// ErrTransport wraps every failure reported by the transport on flush
	ErrTransport = errors.New("matrix: transport write failed")
	// ErrNilTransport is returned by New without a transport
	ErrNilTransport = errors.New("matrix: nil transport")
	// ErrNilLayout is returned by New without a layout
	ErrNilLayout = errors.New("matrix: nil layout")
	// ErrCanvasSize is returned by New for a canvas that drivers.Displayer
	// cannot describe with int16 dimensions
	ErrCanvasSize = errors.New("matrix: canvas larger than 32767 pixels")
)

// Transport sends an ordered sequence of colors to the strip
type Transport interface {
	WriteColors(colors []pixbuf.Color) error
}

// Pixel is a single logical pixel write
type Pixel struct {
	Point image.Point
	Color pixbuf.Color
}

// Matrix represents an LED strip addressed in logical coordinates
type Matrix struct {
	layout     layout.Layout
	size       layout.Size
	buf        *pixbuf.Buffer
	scratch    []pixbuf.Color
	brightness uint8
	transport  Transport
	// every LED is reachable from some canvas position
	covered bool
}

// New creates a matrix over the given transport and layout. The layout is
// checked for injectivity up front. No data is sent to the transport.
func New(t Transport, l layout.Layout) (*Matrix, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	if l == nil {
		return nil, ErrNilLayout
	}
	if size := l.Size(); size.Width > math.MaxInt16 || size.Height > math.MaxInt16 {
		return nil, fmt.Errorf("%w: %s", ErrCanvasSize, size)
	}
	if err := layout.Validate(l); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	n := l.Len()
	return &Matrix{
		layout:     l,
		size:       l.Size(),
		buf:        pixbuf.New(n),
		scratch:    make([]pixbuf.Color, n),
		brightness: MaxBrightness,
		transport:  t,
		covered:    reachable(l) == n,
	}, nil
}

// reachable counts the canvas positions that map onto the strip. For a
// validated layout this is the number of distinct LEDs that can be drawn.
func reachable(l layout.Layout) int {
	size := l.Size()
	count := 0
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			if _, ok := l.Map(image.Pt(x, y)); ok {
				count++
			}
		}
	}
	return count
}

// Close closes the transport if it can be closed
func (m *Matrix) Close() error {
	if c, ok := m.transport.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Canvas returns the logical canvas size
func (m *Matrix) Canvas() layout.Size {
	return m.size
}

// Size returns the canvas dimensions. New guarantees they fit in int16.
func (m *Matrix) Size() (x, y int16) {
	return int16(m.size.Width), int16(m.size.Height)
}

// Len returns the number of LEDs on the strip
func (m *Matrix) Len() int {
	return m.buf.Len()
}

// Draw writes every pixel of the sequence. Pixels off the canvas are
// dropped. Later writes to a position replace earlier ones.
func (m *Matrix) Draw(pixels iter.Seq[Pixel]) {
	for p := range pixels {
		m.put(p.Point, p.Color)
	}
}

// DrawPixels writes the given pixels in order
func (m *Matrix) DrawPixels(pixels ...Pixel) {
	m.Draw(slices.Values(pixels))
}

func (m *Matrix) put(p image.Point, c pixbuf.Color) {
	if i, ok := m.layout.Map(p); ok {
		m.buf.Set(i, c)
	}
}

// SetPixel sets a single pixel
func (m *Matrix) SetPixel(x, y int16, c color.RGBA) {
	m.put(image.Pt(int(x), int(y)), pixbuf.FromRGBA(c))
}

// Set implements draw.Image
func (m *Matrix) Set(x, y int, c color.Color) {
	m.put(image.Pt(x, y), pixbuf.FromColor(c))
}

// At returns the unscaled color drawn at (x, y). Positions off the canvas
// are black.
func (m *Matrix) At(x, y int) color.Color {
	if i, ok := m.layout.Map(image.Pt(x, y)); ok {
		return m.buf.At(i)
	}
	return pixbuf.Color{}
}

// Bounds implements image.Image
func (m *Matrix) Bounds() image.Rectangle {
	return m.size.Rect()
}

// ColorModel implements image.Image
func (m *Matrix) ColorModel() color.Model {
	return pixbuf.Model
}

// FillContiguous fills area row by row with colors, stopping when either
// runs out
func (m *Matrix) FillContiguous(area image.Rectangle, colors iter.Seq[pixbuf.Color]) {
	next, stop := iter.Pull(colors)
	defer stop()

	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			c, ok := next()
			if !ok {
				return
			}
			m.put(image.Pt(x, y), c)
		}
	}
}

// FillSolid fills area with a single color
func (m *Matrix) FillSolid(area image.Rectangle, c pixbuf.Color) {
	area = area.Intersect(m.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			m.put(image.Pt(x, y), c)
		}
	}
}

// Clear fills the whole canvas with c
func (m *Matrix) Clear(c pixbuf.Color) {
	if m.covered {
		m.buf.Fill(c)
		return
	}
	m.FillSolid(m.Bounds(), c)
}

// SetBrightness sets the brightness used by the next flush
func (m *Matrix) SetBrightness(brightness uint8) {
	m.brightness = brightness
}

// Brightness returns the current brightness
func (m *Matrix) Brightness() uint8 {
	return m.brightness
}

// Pixels returns a copy of the unscaled strip contents in physical order
func (m *Matrix) Pixels() []pixbuf.Color {
	return m.buf.Copy()
}

// Flush sends the whole strip, scaled by the brightness, to the transport.
// A failed flush leaves the drawn contents in place so it can be retried.
func (m *Matrix) Flush() error {
	m.scratch = m.buf.Scale(m.scratch, m.brightness)
	if err := m.transport.WriteColors(m.scratch); err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return nil
}

// Display flushes the matrix
func (m *Matrix) Display() error {
	return m.Flush()
}
