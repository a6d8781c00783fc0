package layout

import (
	"fmt"
	"image"
)

// Rows is an irregular layout where every row holds its own number of LEDs,
// as on pyramid or round panels. Rows are wired one after the other, each
// starting at its left edge.
type Rows struct {
	lengths []int
	offsets []int
	size    Size
	n       int
}

// NewRows creates a layout from the LED count of each row, top row first
func NewRows(lengths ...int) (*Rows, error) {
	r := &Rows{
		lengths: make([]int, len(lengths)),
		offsets: make([]int, len(lengths)),
	}
	for y, l := range lengths {
		if l <= 0 {
			return nil, fmt.Errorf("%w: row %d has %d", ErrRowLength, y, l)
		}
		r.lengths[y] = l
		r.offsets[y] = r.n
		r.n += l
		if l > r.size.Width {
			r.size.Width = l
		}
	}
	r.size.Height = len(lengths)
	return r, nil
}

// Map implements Layout
func (r *Rows) Map(p image.Point) (int, bool) {
	if p.Y < 0 || p.Y >= len(r.lengths) {
		return 0, false
	}
	if p.X < 0 || p.X >= r.lengths[p.Y] {
		return 0, false
	}
	return r.offsets[p.Y] + p.X, true
}

// Size implements Layout. The width is that of the longest row.
func (r *Rows) Size() Size { return r.size }

// Len implements Layout
func (r *Rows) Len() int { return r.n }

// RowLength returns the number of LEDs in row y
func (r *Rows) RowLength(y int) int {
	if y < 0 || y >= len(r.lengths) {
		return 0
	}
	return r.lengths[y]
}

// MapFunc computes the strip index of an in-canvas point
type MapFunc func(p image.Point) (int, bool)

// Func is a layout backed by a caller-supplied mapping
type Func struct {
	size Size
	n    int
	fn   MapFunc
}

// NewFunc creates a layout of the given canvas size over n LEDs. fn only
// sees points on the canvas.
func NewFunc(size Size, n int, fn MapFunc) *Func {
	return &Func{size: size, n: n, fn: fn}
}

// Map implements Layout
func (f *Func) Map(p image.Point) (int, bool) {
	if f.fn == nil || !f.size.Contains(p) {
		return 0, false
	}
	return f.fn(p)
}

// Size implements Layout
func (f *Func) Size() Size { return f.size }

// Len implements Layout
func (f *Func) Len() int { return f.n }
