package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fkcurrie/smartled-matrix/internal/config"
	"github.com/fkcurrie/smartled-matrix/internal/display"
	"github.com/fkcurrie/smartled-matrix/internal/feed"
	"github.com/fkcurrie/smartled-matrix/internal/types"
	"github.com/fkcurrie/smartled-matrix/pkg/pixbuf"
	"github.com/fkcurrie/smartled-matrix/pkg/render"
)

var (
	configPath = flag.String("config", "config.yaml", "path to config file")
	port       = flag.Int("port", 8080, "Port to listen on")
	dryRun     = flag.Bool("dry-run", false, "do not touch the hardware")
)

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dryRun {
		cfg.Transport.Kind = types.TransportDryRun
	}

	m, err := cfg.OpenMatrix()
	if err != nil {
		log.Fatalf("Failed to create matrix: %v", err)
	}
	defer m.Close()

	// Splash until the first frame arrives
	m.Clear(pixbuf.Color{})
	_, h := m.Size()
	render.Text(m, nil, 0, h-1, "ready", color.RGBA{G: 64, A: 255})
	if err := m.Flush(); err != nil {
		log.Printf("Failed to show splash: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	size := m.Canvas()
	renderer := display.NewRenderer(m, cfg.RefreshInterval())
	rendererDone := make(chan struct{})
	go func() {
		defer close(rendererDone)
		if err := renderer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Renderer stopped: %v", err)
		}
	}()

	var client feedState
	if cfg.Feed.URL != "" {
		c := feed.NewClient(cfg.Feed, size.Width, size.Height, renderer)
		client = c
		go func() {
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Feed stopped: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: newMux(renderer, client, size.Width, size.Height),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Listening on %s", server.Addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server: %v", err)
	}

	cancel()
	<-rendererDone

	m.Clear(pixbuf.Color{})
	if err := m.Flush(); err != nil {
		log.Printf("Failed to clear matrix: %v", err)
	}
}
