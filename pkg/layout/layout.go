// Package layout maps logical canvas coordinates to physical LED positions.
//
// A strip driven as a matrix is rarely wired in raster order. A Layout hides
// the wiring: it reports the logical canvas size and translates every
// in-canvas point to a unique index along the strip.
package layout

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrNotInjective means two canvas points map to the same LED
	ErrNotInjective = errors.New("layout: two positions map to the same index")
	// ErrIndexRange means a canvas point maps outside the strip
	ErrIndexRange = errors.New("layout: index out of range")
	// ErrRowLength means a row of an irregular layout has no LEDs
	ErrRowLength = errors.New("layout: row length must be positive")
)

// MaxLen is the largest strip a layout may declare
const MaxLen = 1 << 20

// Size is the logical drawing surface
type Size struct {
	Width  int
	Height int
}

// Contains reports whether p lies on the canvas
func (s Size) Contains(p image.Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Rect returns the canvas as a rectangle anchored at the origin
func (s Size) Rect() image.Rectangle {
	return image.Rect(0, 0, s.Width, s.Height)
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Layout translates logical positions to strip indices
type Layout interface {
	// Map returns the strip index for p, or false when p is off the canvas
	Map(p image.Point) (index int, ok bool)
	// Size returns the logical canvas size
	Size() Size
	// Len returns the number of LEDs on the strip
	Len() int
}

// Validate checks that every canvas point maps into [0, Len()) and that no
// two points share an index.
func Validate(l Layout) error {
	n := l.Len()
	if n < 0 {
		return fmt.Errorf("%w: negative length %d", ErrIndexRange, n)
	}
	if n > MaxLen {
		return fmt.Errorf("%w: length %d exceeds %d", ErrIndexRange, n, MaxLen)
	}
	seen := make([]bool, n)
	size := l.Size()
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			i, ok := l.Map(image.Pt(x, y))
			if !ok {
				continue
			}
			if i < 0 || i >= n {
				return fmt.Errorf("%w: (%d, %d) -> %d, length %d", ErrIndexRange, x, y, i, n)
			}
			if seen[i] {
				return fmt.Errorf("%w: (%d, %d) -> %d", ErrNotInjective, x, y, i)
			}
			seen[i] = true
		}
	}
	return nil
}

type grid struct {
	size Size
}

func (g grid) Size() Size { return g.size }
func (g grid) Len() int   { return g.size.Width * g.size.Height }

func newGrid(width, height int) grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return grid{Size{width, height}}
}

// Identity is raster order: index = y*width + x
type Identity struct{ grid }

// NewIdentity creates a raster-order layout
func NewIdentity(width, height int) *Identity {
	return &Identity{newGrid(width, height)}
}

// Map implements Layout
func (l *Identity) Map(p image.Point) (int, bool) {
	if !l.size.Contains(p) {
		return 0, false
	}
	return p.Y*l.size.Width + p.X, true
}

// InvertY is raster order with the rows flipped, so the bottom logical row
// is the first segment of the strip.
type InvertY struct{ grid }

// NewInvertY creates a vertically inverted layout
func NewInvertY(width, height int) *InvertY {
	return &InvertY{newGrid(width, height)}
}

// Map implements Layout
func (l *InvertY) Map(p image.Point) (int, bool) {
	if !l.size.Contains(p) {
		return 0, false
	}
	return (l.size.Height-1-p.Y)*l.size.Width + p.X, true
}

// ColumnMajor runs the strip down each column in turn: index = x*height + y
type ColumnMajor struct{ grid }

// NewColumnMajor creates a column-order layout
func NewColumnMajor(width, height int) *ColumnMajor {
	return &ColumnMajor{newGrid(width, height)}
}

// Map implements Layout
func (l *ColumnMajor) Map(p image.Point) (int, bool) {
	if !l.size.Contains(p) {
		return 0, false
	}
	return p.X*l.size.Height + p.Y, true
}

// Serpentine is a zig-zag strip: even rows run left to right, odd rows run
// right to left.
type Serpentine struct{ grid }

// NewSerpentine creates a zig-zag layout
func NewSerpentine(width, height int) *Serpentine {
	return &Serpentine{newGrid(width, height)}
}

// Map implements Layout
func (l *Serpentine) Map(p image.Point) (int, bool) {
	if !l.size.Contains(p) {
		return 0, false
	}
	if p.Y%2 == 0 {
		return p.Y*l.size.Width + p.X, true
	}
	return p.Y*l.size.Width + (l.size.Width - 1 - p.X), true
}
