package ws2812

import (
	"fmt"
	"strings"

	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
)

// Order is the sequence in which a strip expects the color channels
type Order int

const (
	GRB Order = iota
	BRG
	BGR
	GBR
	RGB
	RBG
)

var orderNames = map[Order]string{
	GRB: "GRB",
	BRG: "BRG",
	BGR: "BGR",
	GBR: "GBR",
	RGB: "RGB",
	RBG: "RBG",
}

// ParseOrder parses a channel order such as "GRB", ignoring case
func ParseOrder(s string) (Order, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for o, name := range orderNames {
		if name == s {
			return o, nil
		}
	}
	return GRB, fmt.Errorf("unknown color order %q", s)
}

func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// channels returns the three channel values of c in wire order
func (o Order) channels(c pixbuf.Color) [3]byte {
	switch o {
	case BRG:
		return [3]byte{c.B, c.R, c.G}
	case BGR:
		return [3]byte{c.B, c.G, c.R}
	case GBR:
		return [3]byte{c.G, c.B, c.R}
	case RGB:
		return [3]byte{c.R, c.G, c.B}
	case RBG:
		return [3]byte{c.R, c.B, c.G}
	default:
		return [3]byte{c.G, c.R, c.B}
	}
}
