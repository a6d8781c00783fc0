package main

import (
	"image"
	"image/color"

	"github.com/fkcurrie/smartled-matrix/pkg/matrix"
	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
	"github.com/fkcurrie/smartled-matrix/pkg/render"
)

var (
	red   = pixbuf.Color{R: 255}
	green = pixbuf.Color{G: 255}
	blue  = pixbuf.Color{B: 255}
	white = pixbuf.Color{R: 255, G: 255, B: 255}
)

type pattern struct {
	name string
	draw func(m *matrix.Matrix)
}

func solid(c pixbuf.Color) func(m *matrix.Matrix) {
	return func(m *matrix.Matrix) { m.Clear(c) }
}

// alternate lights every other pixel in checkerboard order
func alternate(m *matrix.Matrix) {
	b := m.Bounds()
	m.Draw(func(yield func(matrix.Pixel) bool) {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := pixbuf.Color{}
				if (x+y)%2 == 0 {
					c = white
				}
				if !yield(matrix.Pixel{Point: image.Pt(x, y), Color: c}) {
					return
				}
			}
		}
	})
}

// corners marks the origin red and the far corner green, which shows
// whether the layout is wired the right way round
func corners(m *matrix.Matrix) {
	b := m.Bounds()
	m.Clear(pixbuf.Color{})
	m.DrawPixels(
		matrix.Pixel{Point: b.Min, Color: red},
		matrix.Pixel{Point: b.Max.Sub(image.Pt(1, 1)), Color: green},
	)
}

func shapes(m *matrix.Matrix) {
	b := m.Bounds()
	m.Clear(pixbuf.Color{})
	h := float64(b.Dy())
	render.FillCircle(m, h/2, h/2, h/2-0.5, blue)
	render.StrokeLine(m, 0, 0, float64(b.Dx()), h, 1, red)
}

func text(s string) func(m *matrix.Matrix) {
	return func(m *matrix.Matrix) {
		m.Clear(pixbuf.Color{})
		_, h := m.Size()
		render.Text(m, nil, 0, h-1, s, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
}

func patterns(message string) []pattern {
	return []pattern{
		{"red", solid(red)},
		{"green", solid(green)},
		{"blue", solid(blue)},
		{"alternate", alternate},
		{"corners", corners},
		{"shapes", shapes},
		{"text", text(message)},
	}
}
