package net

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"PixelBoard/internal/state"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	// ErrOutOfRange is returned for paint intents outside [0, N²). Nothing
	// is sent.
	ErrOutOfRange = errors.New("cell index out of range")
	// ErrNotConnected is returned when sending while the connection is not
	// open. Intents are never queued.
	ErrNotConnected = errors.New("not connected")
	// ErrSendBufferFull is returned when the outbound queue is full. The
	// intent is dropped.
	ErrSendBufferFull = errors.New("send buffer full")
)

const defaultSendBuffer = 256

// ConnState is the lifecycle of the single authority connection.
type ConnState int

const (
	Connecting ConnState = iota
	Open
	Closed
	Errored
)

func (s ConnState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Errored:
		return "errored"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (s ConnState) Terminal() bool {
	return s == Closed || s == Errored
}

// UpdateMessage is the only outbound message:
// {"type": "update", "data": {"index": i, "color": "c"}}.
type UpdateMessage struct {
	Type string     `json:"type"`
	Data UpdateData `json:"data"`
}

type UpdateData struct {
	Index int    `json:"index"`
	Color string `json:"color"`
}

// Handlers receive inbound events. Snapshots arrive on the client's read
// goroutine in arrival order. OnStateChange may also fire from the write
// goroutine or the caller of Connect and Close.
type Handlers struct {
	OnSnapshot    func(state.Snapshot)
	OnStateChange func(ConnState, error)
}

// ClientConfig holds connection settings.
type ClientConfig struct {
	HandshakeTimeout time.Duration
	WriteTimeout     time.Duration
	MaxMessageSize   int64
	SendBuffer       int
}

// DefaultClientConfig returns sensible connection settings.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		WriteTimeout:     10 * time.Second,
		MaxMessageSize:   1 << 20,
		SendBuffer:       defaultSendBuffer,
	}
}

// Client owns the persistent connection to the authority. Every inbound
// message is a full snapshot; outbound paint intents are fire-and-forget.
// There is no reconnect: once Closed or Errored the client is done.
type Client struct {
	ID string

	config   ClientConfig
	handlers Handlers
	dialer   *websocket.Dialer

	mu      sync.Mutex // guards conn and state
	conn    *websocket.Conn
	state   ConnState
	closing bool

	send chan []byte
	done chan struct{}
}

// NewClient returns a client in the Connecting state.
func NewClient(config ClientConfig, handlers Handlers) *Client {
	if config.SendBuffer <= 0 {
		config.SendBuffer = defaultSendBuffer
	}
	return &Client{
		ID:       uuid.NewString(),
		config:   config,
		handlers: handlers,
		dialer: &websocket.Dialer{
			HandshakeTimeout: config.HandshakeTimeout,
		},
		state: Connecting,
		send:  make(chan []byte, config.SendBuffer),
		done:  make(chan struct{}),
	}
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed when the connection reaches a terminal state.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Connect opens the connection and starts delivering snapshots. On failure
// the client moves to Errored and the error is returned; no retry follows.
func (c *Client) Connect(ctx context.Context, url string) error {
	c.mu.Lock()
	if c.conn != nil || c.state != Connecting {
		c.mu.Unlock()
		return fmt.Errorf("connect called in state %s", c.state)
	}
	c.mu.Unlock()

	logger := log.With().Str("client_id", c.ID).Str("url", url).Logger()
	logger.Info().Msg("connecting to authority")
	c.notify(Connecting, nil)

	conn, resp, err := c.dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		err = fmt.Errorf("failed to connect to %s: %w", url, err)
		logger.Error().Err(err).Msg("websocket connection failed")
		c.transition(Errored, err)
		return err
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}

	c.mu.Lock()
	if c.state.Terminal() {
		// Closed while dialing.
		c.mu.Unlock()
		conn.Close()
		return ErrNotConnected
	}
	c.conn = conn
	c.mu.Unlock()

	logger.Info().Msg("websocket connection established")
	c.transition(Open, nil)

	go c.readPump()
	go c.writePump(conn)
	return nil
}

// SendPaintIntent asks the authority to set one cell. The local buffer is
// not touched; the change shows up with the next snapshot. The intent is
// queued for the write goroutine and the call never waits on the network.
func (c *Client) SendPaintIntent(index int, color state.Symbol) error {
	if index < 0 || index >= state.CellCount {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	if !color.Valid() {
		return fmt.Errorf("invalid color symbol %q", byte(color))
	}
	if c.State() != Open {
		return ErrNotConnected
	}

	data, err := json.Marshal(UpdateMessage{
		Type: "update",
		Data: UpdateData{Index: index, Color: color.String()},
	})
	if err != nil {
		return fmt.Errorf("failed to encode paint intent: %w", err)
	}

	select {
	case c.send <- data:
		return nil
	default:
		log.Warn().Str("client_id", c.ID).Int("index", index).Msg("send buffer full, dropping paint intent")
		return ErrSendBufferFull
	}
}

// Close sends a close frame and moves the client to Closed.
func (c *Client) Close() error {
	c.mu.Lock()
	c.closing = true
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		c.transition(Closed, nil)
		return nil
	}

	// WriteControl may run alongside the write goroutine.
	deadline := time.Now().Add(time.Second)
	err := conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)

	closeErr := conn.Close()
	c.transition(Closed, nil)
	if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		return err
	}
	return closeErr
}

// writePump owns every data write on conn. A failed write leaves the
// connection unusable, so it ends the session as Errored.
func (c *Client) writePump(conn *websocket.Conn) {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if c.config.WriteTimeout > 0 {
				conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.mu.Lock()
				closing := c.closing
				c.mu.Unlock()
				if closing {
					return
				}
				err = fmt.Errorf("failed to send paint intent: %w", err)
				log.Error().Err(err).Str("client_id", c.ID).Msg("websocket write failed")
				c.transition(Errored, err)
				conn.Close()
				return
			}
			log.Debug().Str("client_id", c.ID).RawJSON("intent", data).Msg("paint intent sent")
		}
	}
}

func (c *Client) readPump() {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}

		snap, err := state.ParseSnapshot(raw)
		if err != nil {
			// Malformed payloads are dropped; the buffer keeps the last good snapshot.
			log.Warn().Err(err).Str("client_id", c.ID).Int("bytes", len(raw)).Msg("discarding inbound message")
			continue
		}
		if c.handlers.OnSnapshot != nil {
			c.handlers.OnSnapshot(snap)
		}
	}
}

func (c *Client) handleReadError(err error) {
	c.mu.Lock()
	closing := c.closing
	c.mu.Unlock()

	logger := log.With().Str("client_id", c.ID).Logger()
	switch {
	case closing, websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		logger.Info().Msg("websocket connection closed")
		c.transition(Closed, nil)
	default:
		logger.Error().Err(err).Msg("websocket connection lost")
		c.transition(Errored, err)
	}
	c.conn.Close()
}

// transition applies a state change if it is legal and notifies handlers.
// Terminal states never change again.
func (c *Client) transition(next ConnState, err error) {
	c.mu.Lock()
	if c.state.Terminal() || c.state == next {
		c.mu.Unlock()
		return
	}
	c.state = next
	c.mu.Unlock()

	if next.Terminal() {
		close(c.done)
	}
	c.notify(next, err)
}

func (c *Client) notify(s ConnState, err error) {
	if c.handlers.OnStateChange != nil {
		c.handlers.OnStateChange(s, err)
	}
}
