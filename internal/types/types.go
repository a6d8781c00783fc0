package types

// Layout names accepted in DisplayConfig.Layout
const (
	LayoutIdentity    = "identity"
	LayoutInvertY     = "invert-y"
	LayoutColumnMajor = "column-major"
	LayoutSerpentine  = "serpentine"
	LayoutRows        = "rows"
)

// Transport kinds accepted in TransportConfig.Kind
const (
	TransportWS2812SPI = "ws2812-spi"
	TransportDryRun    = "dry-run"
)

// DisplayConfig represents the configuration for the display
type DisplayConfig struct {
	// Layout selects how logical coordinates map onto the strip
	Layout string `yaml:"layout" json:"layout"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
	// Rows lists physical row lengths for the rows layout
	Rows       []int `yaml:"rows" json:"rows"`
	Brightness int   `yaml:"brightness" json:"brightness"`
	// RefreshMS is the renderer flush interval in milliseconds
	RefreshMS int `yaml:"refresh_ms" json:"refresh_ms"`
}

// TransportConfig represents the configuration for the LED transport
type TransportConfig struct {
	Kind string `yaml:"kind" json:"kind"`
	// SPIPort is the periph port name; empty opens the first port
	SPIPort   string `yaml:"spi_port" json:"spi_port"`
	Order     string `yaml:"order" json:"order"`
	PowerChip string `yaml:"power_chip" json:"power_chip"`
	// PowerLine is the GPIO offset of the supply switch, -1 for none
	PowerLine int `yaml:"power_line" json:"power_line"`
}

// FeedConfig represents the configuration for the websocket frame feed
type FeedConfig struct {
	// URL is the websocket endpoint; empty disables the feed
	URL        string `yaml:"url" json:"url"`
	ReconnectS int    `yaml:"reconnect_s" json:"reconnect_s"`
}
