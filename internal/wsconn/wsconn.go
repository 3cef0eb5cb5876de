// Package wsconn provides a WebSocket client with automatic reconnection.
package wsconn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// State represents the connection state.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateReconnecting State = "reconnecting"
	StateClosed       State = "closed"
)

// MessageHandler receives each inbound message.
type MessageHandler func(ctx context.Context, msg []byte)

// StateHandler is notified on every state transition. err is non-nil when
// the transition was caused by a failure.
type StateHandler func(state State, err error)

// Config holds WebSocket client configuration.
type Config struct {
	URL            string
	Name           string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	MaxReconnects  int // 0 = infinite
	PingInterval   time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns sensible defaults for a named connection.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:            url,
		Name:           name,
		InitialBackoff: 1 * time.Second,
		MaxBackoff:     30 * time.Second,
		MaxReconnects:  0, // infinite
		PingInterval:   30 * time.Second,
		MaxMessageSize: 1 << 20,
	}
}

// Client is a reconnecting WebSocket client.
type Client struct {
	config Config

	mu     sync.RWMutex
	state  State
	conn   *websocket.Conn
	closed bool

	onMessage MessageHandler
	onState   StateHandler

	done chan struct{}
}

// New creates a new WebSocket client for the configured URL.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, errors.New("wsconn: empty url")
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = time.Second
	}
	if config.MaxBackoff < config.InitialBackoff {
		config.MaxBackoff = config.InitialBackoff
	}
	return &Client{
		config: config,
		state:  StateDisconnected,
		done:   make(chan struct{}),
	}, nil
}

// OnMessage sets the inbound message handler. Call before Connect.
func (c *Client) OnMessage(h MessageHandler) {
	c.mu.Lock()
	c.onMessage = h
	c.mu.Unlock()
}

// OnStateChange sets the state transition handler. Call before Connect.
func (c *Client) OnStateChange(h StateHandler) {
	c.mu.Lock()
	c.onState = h
	c.mu.Unlock()
}

// Connect establishes the WebSocket connection and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	c.setState(StateConnecting, nil)

	conn, err := c.dial(ctx)
	if err != nil {
		c.setState(StateDisconnected, err)
		return fmt.Errorf("wsconn %s: dial %s: %w", c.config.Name, c.config.URL, err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.setState(StateConnected, nil)

	go c.readLoop()
	if c.config.PingInterval > 0 {
		go c.pingLoop()
	}
	return nil
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return nil, err
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}
	return conn, nil
}

// Send sends a text message through the WebSocket.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return errors.New("wsconn: not connected")
	}
	return conn.Write(ctx, websocket.MessageText, msg)
}

// SendJSON marshals v and sends it as a text message.
func (c *Client) SendJSON(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("wsconn: marshal: %w", err)
	}
	return c.Send(ctx, data)
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// IsConnected reports whether the connection is currently up.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close gracefully closes the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	close(c.done)
	c.mu.Unlock()

	if conn != nil {
		conn.Close(websocket.StatusNormalClosure, "client shutdown")
	}
	c.setState(StateClosed, nil)
	return nil
}

// readLoop pumps inbound messages to the handler, reconnecting on failure.
func (c *Client) readLoop() {
	ctx := context.Background()
	for {
		c.mu.RLock()
		conn := c.conn
		closed := c.closed
		c.mu.RUnlock()

		if closed || conn == nil {
			return
		}

		_, data, err := conn.Read(ctx)
		if err != nil {
			if c.isClosed() {
				return
			}
			if !c.reconnect(ctx, err) {
				return
			}
			continue
		}

		c.mu.RLock()
		handler := c.onMessage
		c.mu.RUnlock()
		if handler != nil {
			handler(ctx, data)
		}
	}
}

// reconnect redials with exponential backoff. Returns false when the
// client is closed or the reconnect budget is spent.
func (c *Client) reconnect(ctx context.Context, cause error) bool {
	c.setState(StateReconnecting, cause)

	backoff := c.config.InitialBackoff
	for attempt := 1; ; attempt++ {
		if c.config.MaxReconnects > 0 && attempt > c.config.MaxReconnects {
			c.setState(StateDisconnected, cause)
			return false
		}

		select {
		case <-c.done:
			return false
		case <-time.After(backoff):
		}

		conn, err := c.dial(ctx)
		if err == nil {
			c.mu.Lock()
			if c.closed {
				c.mu.Unlock()
				conn.Close(websocket.StatusNormalClosure, "client shutdown")
				return false
			}
			c.conn = conn
			c.mu.Unlock()
			c.setState(StateConnected, nil)
			return true
		}

		backoff *= 2
		if backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.mu.RLock()
			conn := c.conn
			c.mu.RUnlock()
			if conn == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			conn.Ping(ctx)
			cancel()
		}
	}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) setState(state State, err error) {
	c.mu.Lock()
	if c.closed && state != StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = state
	handler := c.onState
	c.mu.Unlock()

	if handler != nil {
		handler(state, err)
	}
}
