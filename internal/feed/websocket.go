package feed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fkcurrie/smartled-matrix/internal/display"
	"github.com/fkcurrie/smartled-matrix/internal/types"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Sink receives what the feed decodes. *display.Renderer implements it.
type Sink interface {
	Submit(f display.Frame)
	SetBrightness(b uint8)
}

// Client is a websocket client that turns feed messages into frames
type Client struct {
	config    types.FeedConfig
	width     int
	height    int
	sink      Sink
	connected atomic.Bool
}

// NewClient creates a client for frames of width x height pixels
func NewClient(config types.FeedConfig, width, height int, sink Sink) *Client {
	return &Client{
		config: config,
		width:  width,
		height: height,
		sink:   sink,
	}
}

// Connected reports whether the client currently has a connection
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// Run connects to the feed and keeps reconnecting until ctx is done
func (c *Client) Run(ctx context.Context) error {
	if c.config.URL == "" {
		return errors.New("feed URL is empty")
	}
	wait := time.Duration(c.config.ReconnectS) * time.Second
	if wait <= 0 {
		wait = 5 * time.Second
	}

	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("Feed %s: %v, reconnecting in %v", c.config.URL, err, wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// session runs one connection until it fails or ctx is done
func (c *Client) session(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to feed: %w", err)
	}
	log.Printf("Connected to feed %s", c.config.URL)
	c.connected.Store(true)
	defer c.connected.Store(false)

	done := make(chan struct{})
	go c.writePump(ctx, conn, done)
	err = c.readPump(conn)
	close(done)
	conn.Close()
	return err
}

// readPump decodes messages until the connection fails
func (c *Client) readPump(conn *websocket.Conn) error {
	conn.SetReadLimit(int64(c.width*c.height*3) + 512)
	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		kind, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errors.New("closed by server")
			}
			return err
		}
		conn.SetReadDeadline(time.Now().Add(readTimeout))

		if err := c.handle(kind, message); err != nil {
			log.Printf("Ignoring feed message: %v", err)
		}
	}
}

// writePump pings the server and closes the connection when ctx is done
func (c *Client) writePump(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
			conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				conn.Close()
				return
			}
		}
	}
}

// handle passes one decoded message to the sink
func (c *Client) handle(kind int, message []byte) error {
	switch kind {
	case websocket.BinaryMessage:
		f, err := display.FrameFromRGB(c.width, c.height, message)
		if err != nil {
			return err
		}
		c.sink.Submit(f)
		return nil
	case websocket.TextMessage:
		b, err := parseBrightness(string(message))
		if err != nil {
			return err
		}
		c.sink.SetBrightness(b)
		return nil
	default:
		return fmt.Errorf("unexpected message type %d", kind)
	}
}

// parseBrightness parses a "brightness N" command
func parseBrightness(message string) (uint8, error) {
	fields := strings.Fields(message)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "brightness") {
		return 0, fmt.Errorf("unknown command %q", message)
	}
	n, err := strconv.ParseUint(fields[1], 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid brightness %q: %w", fields[1], err)
	}
	return uint8(n), nil
}
