package layout

import (
	"errors"
	"image"
	"testing"
)

func mustRows(t *testing.T, lengths ...int) *Rows {
	t.Helper()
	r, err := NewRows(lengths...)
	if err != nil {
		t.Fatalf("NewRows(%v) error = %v", lengths, err)
	}
	return r
}

func TestInjective(t *testing.T) {
	layouts := map[string]Layout{
		"identity":     NewIdentity(8, 8),
		"invert-y":     NewInvertY(5, 3),
		"column-major": NewColumnMajor(4, 7),
		"serpentine":   NewSerpentine(32, 8),
		"rows":         mustRows(t, 3, 4, 5),
	}

	for name, l := range layouts {
		t.Run(name, func(t *testing.T) {
			if err := Validate(l); err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			seen := make(map[int]image.Point)
			size := l.Size()
			for y := 0; y < size.Height; y++ {
				for x := 0; x < size.Width; x++ {
					p := image.Pt(x, y)
					i, ok := l.Map(p)
					if !ok {
						continue
					}
					if prev, dup := seen[i]; dup {
						t.Errorf("Map(%v) = %d, already used by %v", p, i, prev)
					}
					seen[i] = p
				}
			}
			if len(seen) != l.Len() {
				t.Errorf("mapped %d indices, want %d", len(seen), l.Len())
			}
		})
	}
}

func TestOutOfBounds(t *testing.T) {
	layouts := map[string]Layout{
		"identity":     NewIdentity(8, 8),
		"invert-y":     NewInvertY(8, 8),
		"column-major": NewColumnMajor(8, 8),
		"serpentine":   NewSerpentine(8, 8),
		"rows":         mustRows(t, 8, 8, 8, 8, 8, 8, 8, 8),
	}
	points := []image.Point{
		{-1, 0}, {0, -1}, {8, 0}, {0, 8}, {8, 8}, {-100, 3}, {3, 1000},
	}

	for name, l := range layouts {
		for _, p := range points {
			if i, ok := l.Map(p); ok {
				t.Errorf("%s: Map(%v) = %d, want invalid", name, p, i)
			}
		}
	}
}

func TestMap(t *testing.T) {
	tests := []struct {
		name string
		l    Layout
		p    image.Point
		want int
	}{
		{"identity origin", NewIdentity(8, 8), image.Pt(0, 0), 0},
		{"identity last", NewIdentity(8, 8), image.Pt(7, 7), 63},
		{"identity row", NewIdentity(8, 4), image.Pt(2, 3), 26},
		{"invert-y origin", NewInvertY(8, 8), image.Pt(0, 0), 56},
		{"invert-y bottom", NewInvertY(8, 8), image.Pt(3, 7), 3},
		{"column-major", NewColumnMajor(8, 8), image.Pt(1, 2), 10},
		{"serpentine even", NewSerpentine(4, 3), image.Pt(1, 0), 1},
		{"serpentine odd", NewSerpentine(4, 3), image.Pt(0, 1), 7},
		{"serpentine odd end", NewSerpentine(4, 3), image.Pt(3, 1), 4},
		{"rows second", mustRows(t, 3, 4, 5), image.Pt(0, 1), 3},
		{"rows third", mustRows(t, 3, 4, 5), image.Pt(4, 2), 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.l.Map(tt.p)
			if !ok || got != tt.want {
				t.Errorf("Map(%v) = %d, %v, want %d, true", tt.p, got, ok, tt.want)
			}
		})
	}
}

func TestRows(t *testing.T) {
	r := mustRows(t, 3, 4, 5)
	if got := r.Size(); got != (Size{5, 3}) {
		t.Errorf("Size() = %v, want 5x3", got)
	}
	if r.Len() != 12 {
		t.Errorf("Len() = %d, want 12", r.Len())
	}
	// Short rows end early even though the canvas is wider.
	if _, ok := r.Map(image.Pt(3, 0)); ok {
		t.Error("Map((3, 0)) valid on a 3-LED row")
	}
	if _, ok := r.Map(image.Pt(0, 3)); ok {
		t.Error("Map((0, 3)) valid past the last row")
	}
	if r.RowLength(1) != 4 || r.RowLength(9) != 0 {
		t.Errorf("RowLength() = %d, %d, want 4, 0", r.RowLength(1), r.RowLength(9))
	}
}

func TestNewRowsRejectsEmptyRow(t *testing.T) {
	_, err := NewRows(3, 0, 5)
	if !errors.Is(err, ErrRowLength) {
		t.Errorf("NewRows() error = %v, want %v", err, ErrRowLength)
	}
}

func TestValidateFunc(t *testing.T) {
	tests := []struct {
		name    string
		l       Layout
		wantErr error
	}{
		{
			name: "mirror",
			l: NewFunc(Size{4, 2}, 8, func(p image.Point) (int, bool) {
				return p.Y*4 + (3 - p.X), true
			}),
		},
		{
			name: "aliasing",
			l: NewFunc(Size{4, 2}, 8, func(p image.Point) (int, bool) {
				return p.X, true
			}),
			wantErr: ErrNotInjective,
		},
		{
			name: "past the strip",
			l: NewFunc(Size{4, 2}, 4, func(p image.Point) (int, bool) {
				return p.Y*4 + p.X, true
			}),
			wantErr: ErrIndexRange,
		},
		{
			name: "declared length too large",
			l: NewFunc(Size{2, 2}, MaxLen+1, func(p image.Point) (int, bool) {
				return p.Y*2 + p.X, true
			}),
			wantErr: ErrIndexRange,
		},
		{
			name: "holes are fine",
			l: NewFunc(Size{3, 3}, 5, func(p image.Point) (int, bool) {
				if (p.X+p.Y)%2 == 1 {
					return 0, false
				}
				return (p.Y*3 + p.X) / 2, true
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.l)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFuncClipsBeforeCalling(t *testing.T) {
	called := false
	l := NewFunc(Size{2, 2}, 4, func(p image.Point) (int, bool) {
		called = true
		return 0, true
	})
	if _, ok := l.Map(image.Pt(2, 0)); ok {
		t.Error("Map((2, 0)) valid outside the canvas")
	}
	if called {
		t.Error("mapping function called for an off-canvas point")
	}
}
