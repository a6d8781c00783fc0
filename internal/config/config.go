package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/fkcurrie/smartled-matrix/internal/types"
	"github.com/fkcurrie/smartled-matrix/pkg/layout"
	"github.com/fkcurrie/smartled-matrix/pkg/matrix"
	"github.com/fkcurrie/smartled-matrix/pkg/transport"
	"github.com/fkcurrie/smartled-matrix/pkg/transport/ws2812"
)

// Config represents the application configuration
type Config struct {
	Display   types.DisplayConfig   `yaml:"display" json:"display"`
	Transport types.TransportConfig `yaml:"transport" json:"transport"`
	Feed      types.FeedConfig      `yaml:"feed" json:"feed"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Display: types.DisplayConfig{
			Layout:     types.LayoutSerpentine,
			Width:      32,
			Height:     8,
			Rows:       []int{},
			Brightness: 64,
			RefreshMS:  50,
		},
		Transport: types.TransportConfig{
			Kind:      types.TransportWS2812SPI,
			Order:     ws2812.GRB.String(),
			PowerChip: "gpiochip0",
			PowerLine: -1,
		},
		Feed: types.FeedConfig{
			ReconnectS: 5,
		},
	}
}

// Normalize fills in empty values with defaults. Brightness and PowerLine
// are left alone since zero is meaningful for both.
func (c *Config) Normalize() {
	def := DefaultConfig()

	c.Display.Layout = strings.ToLower(strings.TrimSpace(c.Display.Layout))
	if c.Display.Layout == "" {
		c.Display.Layout = def.Display.Layout
	}
	if c.Display.Layout != types.LayoutRows {
		if c.Display.Width <= 0 {
			c.Display.Width = def.Display.Width
		}
		if c.Display.Height <= 0 {
			c.Display.Height = def.Display.Height
		}
	}
	if c.Display.Rows == nil {
		c.Display.Rows = []int{}
	}
	if c.Display.RefreshMS <= 0 {
		c.Display.RefreshMS = def.Display.RefreshMS
	}

	c.Transport.Kind = strings.ToLower(strings.TrimSpace(c.Transport.Kind))
	if c.Transport.Kind == "" {
		c.Transport.Kind = def.Transport.Kind
	}
	if c.Transport.Order == "" {
		c.Transport.Order = def.Transport.Order
	}
	if c.Transport.PowerChip == "" {
		c.Transport.PowerChip = def.Transport.PowerChip
	}

	if c.Feed.ReconnectS <= 0 {
		c.Feed.ReconnectS = def.Feed.ReconnectS
	}
}

// Validate reports the first setting that cannot be used
func (c *Config) Validate() error {
	if c.Display.Brightness < 0 || c.Display.Brightness > matrix.MaxBrightness {
		return fmt.Errorf("brightness %d out of range [0, %d]", c.Display.Brightness, matrix.MaxBrightness)
	}
	if _, err := ws2812.ParseOrder(c.Transport.Order); err != nil {
		return err
	}
	switch c.Transport.Kind {
	case types.TransportWS2812SPI, types.TransportDryRun:
	default:
		return fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}
	if _, err := c.BuildLayout(); err != nil {
		return err
	}
	return nil
}

// RefreshInterval returns the renderer flush interval
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Display.RefreshMS) * time.Millisecond
}

// ReconnectInterval returns the delay between feed connection attempts
func (c *Config) ReconnectInterval() time.Duration {
	return time.Duration(c.Feed.ReconnectS) * time.Second
}

// BuildLayout constructs the layout named in the display configuration
func (c *Config) BuildLayout() (layout.Layout, error) {
	d := c.Display
	var l layout.Layout
	switch d.Layout {
	case types.LayoutIdentity:
		l = layout.NewIdentity(d.Width, d.Height)
	case types.LayoutInvertY:
		l = layout.NewInvertY(d.Width, d.Height)
	case types.LayoutColumnMajor:
		l = layout.NewColumnMajor(d.Width, d.Height)
	case types.LayoutSerpentine:
		l = layout.NewSerpentine(d.Width, d.Height)
	case types.LayoutRows:
		rows, err := layout.NewRows(d.Rows...)
		if err != nil {
			return nil, fmt.Errorf("invalid rows layout: %w", err)
		}
		l = rows
	default:
		return nil, fmt.Errorf("unknown layout %q", d.Layout)
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("%s layout has no pixels", d.Layout)
	}
	if err := layout.Validate(l); err != nil {
		return nil, fmt.Errorf("invalid %s layout: %w", d.Layout, err)
	}
	return l, nil
}

// OpenTransport opens the configured transport for n pixels
func (c *Config) OpenTransport(n int) (matrix.Transport, error) {
	switch c.Transport.Kind {
	case types.TransportDryRun:
		return transport.NewRecorder(), nil
	case types.TransportWS2812SPI:
		order, err := ws2812.ParseOrder(c.Transport.Order)
		if err != nil {
			return nil, err
		}
		return ws2812.Open(ws2812.Config{
			Port:      c.Transport.SPIPort,
			NumPixels: n,
			Order:     order,
			PowerChip: c.Transport.PowerChip,
			PowerLine: c.Transport.PowerLine,
		})
	default:
		return nil, fmt.Errorf("unknown transport kind %q", c.Transport.Kind)
	}
}

// OpenMatrix builds the layout, opens the transport and returns a matrix at
// the configured brightness
func (c *Config) OpenMatrix() (*matrix.Matrix, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	l, err := c.BuildLayout()
	if err != nil {
		return nil, err
	}
	t, err := c.OpenTransport(l.Len())
	if err != nil {
		return nil, err
	}
	m, err := matrix.New(t, l)
	if err != nil {
		if cl, ok := t.(io.Closer); ok {
			cl.Close()
		}
		return nil, err
	}
	m.SetBrightness(uint8(c.Display.Brightness))
	return m, nil
}

// LoadConfig loads the configuration from a YAML file. Keys missing from the
// file keep their defaults. If the file does not exist, the default
// configuration is written there and returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := SaveConfig(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// SaveConfig writes cfg to path atomically with 0600 permissions
func SaveConfig(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".smartled-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save writes c to path
func (c *Config) Save(path string) error {
	return SaveConfig(path, c)
}
