package ws2812

import (
	"fmt"
	"log"

	"github.com/warthog618/go-gpiocdev"
)

// Switch turns the LED supply on and off
type Switch interface {
	On() error
	Off() error
	Close() error
}

// PowerLine is a GPIO output that enables the LED power supply
type PowerLine struct {
	chip   string
	offset int
	line   *gpiocdev.Line
}

// OpenPowerLine requests offset on chip as an output, initially low
func OpenPowerLine(chip string, offset int) (*PowerLine, error) {
	if chip == "" {
		chip = "gpiochip0"
	}
	log.Printf("Requesting power line %s:%d", chip, offset)
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("failed to request power line %s:%d: %w", chip, offset, err)
	}
	return &PowerLine{chip: chip, offset: offset, line: line}, nil
}

// On drives the line high
func (p *PowerLine) On() error {
	return p.line.SetValue(1)
}

// Off drives the line low
func (p *PowerLine) Off() error {
	return p.line.SetValue(0)
}

// Close releases the line
func (p *PowerLine) Close() error {
	log.Printf("Releasing power line %s:%d", p.chip, p.offset)
	return p.line.Close()
}
