// Package ws2812 drives WS2812 / WS2811 strips from an SPI port.
//
// Each data bit is sent as a three-bit SPI symbol at 2.4 MHz, which gives
// the 0.4 µs / 0.8 µs pulse widths the LEDs expect. A run of zero bytes
// after the frame holds the line low long enough for the strip to latch.
package ws2812

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
)

const (
	// Frequency is the SPI clock that makes one symbol bit 416 ns long
	Frequency = 2400 * physic.KiloHertz

	symbolHigh = 0x6 // 1 1 0
	symbolLow  = 0x4 // 1 0 0

	// bytes on the wire per color channel
	bytesPerChannel = 3
	bytesPerPixel   = 3 * bytesPerChannel

	// ResetBytes of low output is ~300 µs, enough for WS2812B latching
	ResetBytes = 90
)

// Config holds the configuration for an SPI strip
type Config struct {
	// Port is the periph SPI port name; empty opens the first port
	Port string
	// NumPixels is the number of LEDs on the strip
	NumPixels int
	// Order is the channel order of the strip
	Order Order
	// PowerChip and PowerLine select a GPIO line that switches the LED
	// supply. A negative PowerLine means there is none.
	PowerChip string
	PowerLine int
}

// Strip is a WS2812 strip on an SPI bus
type Strip struct {
	conn  spi.Conn
	port  spi.PortCloser
	power Switch
	order Order
	buf   []byte
}

// Open initializes the host drivers, opens the SPI port and, if configured,
// the power line, and switches the strip on
func Open(cfg Config) (*Strip, error) {
	if cfg.NumPixels <= 0 {
		return nil, fmt.Errorf("invalid pixel count: %d", cfg.NumPixels)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize host: %w", err)
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %q: %w", cfg.Port, err)
	}

	conn, err := port.Connect(Frequency, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to connect SPI port %q: %w", cfg.Port, err)
	}
	log.Printf("Opened %s for %d pixels (%s)", conn, cfg.NumPixels, cfg.Order)

	var power Switch
	if cfg.PowerLine >= 0 {
		power, err = OpenPowerLine(cfg.PowerChip, cfg.PowerLine)
		if err != nil {
			port.Close()
			return nil, err
		}
	}

	s := New(conn, cfg.NumPixels, cfg.Order)
	s.port = port
	s.power = power
	if err := s.PowerOn(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already connected SPI connection
func New(conn spi.Conn, numPixels int, order Order) *Strip {
	return &Strip{
		conn:  conn,
		order: order,
		buf:   make([]byte, frameLen(numPixels)),
	}
}

func frameLen(numPixels int) int {
	return numPixels*bytesPerPixel + ResetBytes
}

// WriteColors encodes colors and sends them in a single transfer
func (s *Strip) WriteColors(colors []pixbuf.Color) error {
	n := frameLen(len(colors))
	if cap(s.buf) < n {
		s.buf = make([]byte, n)
	}
	s.buf = s.buf[:n]
	encode(s.buf, colors, s.order)

	if err := s.conn.Tx(s.buf, nil); err != nil {
		return fmt.Errorf("failed to write %d pixels: %w", len(colors), err)
	}
	return nil
}

// PowerOn raises the power line, if there is one
func (s *Strip) PowerOn() error {
	if s.power == nil {
		return nil
	}
	log.Printf("Power on")
	if err := s.power.On(); err != nil {
		return fmt.Errorf("failed to switch power on: %w", err)
	}
	return nil
}

// PowerOff lowers the power line, if there is one
func (s *Strip) PowerOff() error {
	if s.power == nil {
		return nil
	}
	log.Printf("Power off")
	if err := s.power.Off(); err != nil {
		return fmt.Errorf("failed to switch power off: %w", err)
	}
	return nil
}

// Close switches the strip off and releases the port and power line
func (s *Strip) Close() error {
	var firstErr error
	if err := s.PowerOff(); err != nil {
		firstErr = err
	}
	if s.power != nil {
		if err := s.power.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close power line: %w", err)
		}
	}
	if s.port != nil {
		if err := s.port.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close SPI port: %w", err)
		}
	}
	return firstErr
}

// encode writes the SPI symbols for colors followed by the reset tail.
// dst must be frameLen(len(colors)) bytes.
func encode(dst []byte, colors []pixbuf.Color, order Order) {
	pos := 0
	for _, c := range colors {
		for _, v := range order.channels(c) {
			encodeByte(dst[pos:pos+bytesPerChannel], v)
			pos += bytesPerChannel
		}
	}
	clear(dst[pos:])
}

// encodeByte expands v, most significant bit first, into 24 symbol bits
func encodeByte(dst []byte, v byte) {
	var bits uint32
	for k := 7; k >= 0; k-- {
		bits <<= 3
		if v&(1<<uint(k)) != 0 {
			bits |= symbolHigh
		} else {
			bits |= symbolLow
		}
	}
	dst[0] = byte(bits >> 16)
	dst[1] = byte(bits >> 8)
	dst[2] = byte(bits)
}
