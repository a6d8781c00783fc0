package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"time"

	"github.com/fkcurrie/smartled-matrix/internal/config"
	"github.com/fkcurrie/smartled-matrix/internal/types"
	"github.com/fkcurrie/smartled-matrix/pkg/matrix"
	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
	"github.com/fkcurrie/smartled-matrix/pkg/render"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	only := flag.String("pattern", "", "run only this pattern")
	message := flag.String("text", "Hello", "text for the text pattern")
	svgPath := flag.String("svg", "", "draw this SVG file after the patterns")
	imagePath := flag.String("image", "", "draw this PNG, JPEG or GIF file after the patterns")
	hold := flag.Duration("hold", 2*time.Second, "how long to show each pattern")
	dryRun := flag.Bool("dry-run", false, "do not touch the hardware")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Printf("Failed to load config from %s: %v", *configPath, err)
		log.Printf("Using default configuration")
		cfg = config.DefaultConfig()
	}
	if *dryRun {
		cfg.Transport.Kind = types.TransportDryRun
	}

	m, err := cfg.OpenMatrix()
	if err != nil {
		log.Fatalf("Failed to create matrix: %v", err)
	}
	defer m.Close()
	log.Printf("Matrix %s, %d pixels, brightness %d", m.Canvas(), m.Len(), m.Brightness())

	show := func(name string, draw func(m *matrix.Matrix)) {
		log.Printf("Pattern: %s", name)
		draw(m)
		if err := m.Flush(); err != nil {
			log.Fatalf("Failed to show matrix: %v", err)
		}
		time.Sleep(*hold)
	}

	for _, p := range patterns(*message) {
		if *only == "" || *only == p.name {
			show(p.name, p.draw)
		}
	}

	if *svgPath != "" {
		f, err := os.Open(*svgPath)
		if err != nil {
			log.Fatalf("Failed to open SVG: %v", err)
		}
		m.Clear(pixbuf.Color{})
		err = render.SVG(m, f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to draw SVG: %v", err)
		}
		show(*svgPath, func(*matrix.Matrix) {})
	}

	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			log.Fatalf("Failed to open image: %v", err)
		}
		img, _, err := image.Decode(f)
		f.Close()
		if err != nil {
			log.Fatalf("Failed to decode image: %v", err)
		}
		show(*imagePath, func(m *matrix.Matrix) { render.Image(m, img, nil) })
	}

	log.Println("Clearing matrix")
	m.Clear(pixbuf.Color{})
	if err := m.Flush(); err != nil {
		log.Fatalf("Failed to show matrix: %v", err)
	}

	fmt.Println("Test completed successfully")
}
