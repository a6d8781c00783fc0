// Package pixbuf holds the physically ordered color buffer of an LED strip.
package pixbuf

import (
	"fmt"
	"image/color"
	"iter"
)

// Color is a single LED color with 8 bits per channel
type Color struct {
	R, G, B uint8
}

// RGBA implements color.Color. Colors are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R)
	r |= r << 8
	g = uint32(c.G)
	g |= g << 8
	b = uint32(c.B)
	b |= b << 8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
}

// Model converts any color.Color to a Color by channel extraction.
// Alpha is dropped.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	return FromColor(c)
})

// FromColor extracts the 8-bit channels of c
func FromColor(c color.Color) Color {
	if lc, ok := c.(Color); ok {
		return lc
	}
	r, g, b, _ := c.RGBA()
	return Color{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// FromRGBA extracts the channels of a color.RGBA
func FromRGBA(c color.RGBA) Color {
	return Color{c.R, c.G, c.B}
}

// Buffer is a fixed-capacity array of colors in strip order
type Buffer struct {
	cells []Color
}

// New creates a buffer of n black cells. The capacity never changes.
func New(n int) *Buffer {
	if n < 0 {
		n = 0
	}
	return &Buffer{cells: make([]Color, n)}
}

// Len returns the number of cells
func (b *Buffer) Len() int {
	return len(b.cells)
}

// Set overwrites cell i. The caller guarantees 0 <= i < Len().
func (b *Buffer) Set(i int, c Color) {
	b.cells[i] = c
}

// At returns cell i
func (b *Buffer) At(i int) Color {
	return b.cells[i]
}

// Fill sets every cell to c
func (b *Buffer) Fill(c Color) {
	for i := range b.cells {
		b.cells[i] = c
	}
}

// All iterates the cells in physical order
func (b *Buffer) All() iter.Seq2[int, Color] {
	return func(yield func(int, Color) bool) {
		for i, c := range b.cells {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Copy returns a copy of the cells in physical order
func (b *Buffer) Copy() []Color {
	out := make([]Color, len(b.cells))
	copy(out, b.cells)
	return out
}

// Scale writes every cell attenuated by brightness/255 into dst and returns
// it. Channels are truncated toward zero. dst is reused when it has enough
// capacity; the buffer itself is not modified.
func (b *Buffer) Scale(dst []Color, brightness uint8) []Color {
	if cap(dst) < len(b.cells) {
		dst = make([]Color, len(b.cells))
	}
	dst = dst[:len(b.cells)]
	if brightness == 255 {
		copy(dst, b.cells)
		return dst
	}
	k := uint16(brightness)
	for i, c := range b.cells {
		dst[i] = Color{
			R: uint8(uint16(c.R) * k / 255),
			G: uint8(uint16(c.G) * k / 255),
			B: uint8(uint16(c.B) * k / 255),
		}
	}
	return dst
}
