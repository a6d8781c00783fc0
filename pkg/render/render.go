// Package render draws text, shapes, icons and images onto a matrix.
//
// The helpers only depend on drivers.Displayer or draw.Image, both of which
// *matrix.Matrix implements. Nothing here flushes; call Flush when the
// frame is complete.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

// DefaultFont is a small bitmap font that fits 8-pixel rows
var DefaultFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// Text writes str with its baseline at y using a bitmap font. A nil font
// selects DefaultFont.
func Text(d drivers.Displayer, f tinyfont.Fonter, x, y int16, str string, c color.RGBA) {
	if f == nil {
		f = DefaultFont
	}
	tinyfont.WriteLine(d, f, x, y, str, c)
}

// TextWidth returns the width str takes when written with f
func TextWidth(f tinyfont.Fonter, str string) int {
	if f == nil {
		f = DefaultFont
	}
	_, outbox := tinyfont.LineWidth(f, str)
	return int(outbox)
}

// Label writes str with an outline font, dot at (x, y). A nil face selects
// basicfont.Face7x13.
func Label(dst xdraw.Image, face font.Face, x, y int, str string, c color.Color) {
	if face == nil {
		face = basicfont.Face7x13
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(str)
}

// Image scales src onto the whole of dst. A nil scaler selects
// nearest-neighbor, which keeps pixel art crisp.
func Image(dst xdraw.Image, src image.Image, s xdraw.Scaler) {
	if s == nil {
		s = xdraw.NearestNeighbor
	}
	s.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
}

// SVG reads an SVG document and draws it fitted to dst
func SVG(dst xdraw.Image, r io.Reader) error {
	icon, err := oksvg.ReadIconStream(r)
	if err != nil {
		return fmt.Errorf("failed to read SVG: %w", err)
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	icon.SetTarget(float64(b.Min.X), float64(b.Min.Y), float64(w), float64(h))

	scanner := rasterx.NewScannerGV(w, h, dst, b)
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return nil
}

func filler(dst xdraw.Image, c color.Color) *rasterx.Filler {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	f := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	f.SetColor(c)
	return f
}

// FillRect fills r with antialiased edges
func FillRect(dst xdraw.Image, r image.Rectangle, c color.Color) {
	f := filler(dst, c)
	rasterx.AddRect(float64(r.Min.X), float64(r.Min.Y), float64(r.Max.X), float64(r.Max.Y), 0, f)
	f.Draw()
}

// FillCircle fills a circle of radius r around (cx, cy)
func FillCircle(dst xdraw.Image, cx, cy, r float64, c color.Color) {
	f := filler(dst, c)
	rasterx.AddCircle(cx, cy, r, f)
	f.Draw()
}

// StrokeLine draws a line of the given width from (x0, y0) to (x1, y1)
func StrokeLine(dst xdraw.Image, x0, y0, x1, y1, width float64, c color.Color) {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	s := rasterx.NewStroker(b.Dx(), b.Dy(), scanner)
	s.SetStroke(fixed.Int26_6(width*64), fixed.Int26_6(4*64), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter)
	s.SetColor(c)
	s.Start(rasterx.ToFixedP(x0, y0))
	s.Line(rasterx.ToFixedP(x1, y1))
	s.Stop(false)
	s.Draw()
}
