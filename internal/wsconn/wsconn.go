// Package wsconn provides a WebSocket client with reconnection, used by the
// wallet bridge provider.
package wsconn

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/fd1az/campus-rewards/internal/apperror"
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

// Config holds WebSocket client configuration.
type Config struct {
	URL              string
	Name             string // used in error context
	AutoReconnect    bool
	InitialBackoff   time.Duration
	MaxBackoff       time.Duration
	MaxReconnects    int           // 0 = infinite
	HandshakeTimeout time.Duration // bounds every dial; 0 = caller's context only
	PingInterval     time.Duration
	PongTimeout      time.Duration
	MaxMessageSize   int64
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(url, name string) Config {
	return Config{
		URL:              url,
		Name:             name,
		AutoReconnect:    true,
		InitialBackoff:   1 * time.Second,
		MaxBackoff:       30 * time.Second,
		MaxReconnects:    0,
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		PongTimeout:      10 * time.Second,
		MaxMessageSize:   1 << 20,
	}
}

// MessageHandler receives every inbound message.
type MessageHandler func(ctx context.Context, msg []byte)

// StateHandler is told about every state change; err is set when the
// change was caused by a failure.
type StateHandler func(state State, err error)

// Client is a WebSocket client.
type Client struct {
	config Config

	stateMu sync.RWMutex
	state   State

	connMu sync.RWMutex
	conn   *websocket.Conn

	handlersMu sync.RWMutex
	onMessage  MessageHandler
	onState    StateHandler

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeOnce sync.Once
}

// New creates a new WebSocket client. It does not dial.
func New(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, apperror.Validation(apperror.CodeRequiredField, "wsconn: url")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		config: config,
		state:  StateDisconnected,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// OnMessage sets the inbound message handler.
func (c *Client) OnMessage(h MessageHandler) {
	c.handlersMu.Lock()
	c.onMessage = h
	c.handlersMu.Unlock()
}

// OnStateChange sets the state change handler.
func (c *Client) OnStateChange(h StateHandler) {
	c.handlersMu.Lock()
	c.onState = h
	c.handlersMu.Unlock()
}

// Connect dials the server and starts the read loop.
func (c *Client) Connect(ctx context.Context) error {
	if c.State() == StateClosed {
		return apperror.New(apperror.CodeBridgeClosed, apperror.WithContext(c.config.Name))
	}

	c.setState(StateConnecting, nil)
	if err := c.dial(ctx); err != nil {
		c.setState(StateDisconnected, err)
		return err
	}
	c.setState(StateConnected, nil)
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	if c.config.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.HandshakeTimeout)
		defer cancel()
	}

	conn, _, err := websocket.Dial(ctx, c.config.URL, nil)
	if err != nil {
		return apperror.External(apperror.CodeConnectionFailed, c.config.Name, err)
	}
	if c.config.MaxMessageSize > 0 {
		conn.SetReadLimit(c.config.MaxMessageSize)
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.wg.Add(1)
	go c.readLoop(conn)

	if c.config.PingInterval > 0 {
		c.wg.Add(1)
		go c.pingLoop(conn)
	}
	return nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer c.wg.Done()

	for {
		_, data, err := conn.Read(c.ctx)
		if err != nil {
			c.handleDisconnect(conn, err)
			return
		}

		c.handlersMu.RLock()
		h := c.onMessage
		c.handlersMu.RUnlock()
		if h != nil {
			h(c.ctx, data)
		}
	}
}

func (c *Client) pingLoop(conn *websocket.Conn) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.connMu.RLock()
			current := c.conn
			c.connMu.RUnlock()
			if current != conn {
				return
			}

			ctx, cancel := context.WithTimeout(c.ctx, c.config.PongTimeout)
			err := conn.Ping(ctx)
			cancel()
			if err != nil {
				// the read loop sees the close and drives reconnection
				conn.Close(websocket.StatusGoingAway, "ping timeout")
				return
			}
		}
	}
}

func (c *Client) handleDisconnect(conn *websocket.Conn, cause error) {
	c.connMu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.connMu.Unlock()
	conn.CloseNow()

	if c.ctx.Err() != nil {
		return
	}

	if !c.config.AutoReconnect {
		c.setState(StateDisconnected, cause)
		return
	}

	c.setState(StateReconnecting, cause)

	backoff := c.config.InitialBackoff
	if backoff <= 0 {
		backoff = time.Second
	}
	for attempt := 1; c.config.MaxReconnects == 0 || attempt <= c.config.MaxReconnects; attempt++ {
		select {
		case <-c.ctx.Done():
			return
		case <-time.After(backoff):
		}

		if err := c.dial(c.ctx); err == nil {
			c.setState(StateConnected, nil)
			return
		}

		backoff *= 2
		if c.config.MaxBackoff > 0 && backoff > c.config.MaxBackoff {
			backoff = c.config.MaxBackoff
		}
	}

	c.setState(StateDisconnected, cause)
}

// Send writes a text message.
func (c *Client) Send(ctx context.Context, msg []byte) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
		return apperror.New(apperror.CodeBridgeSendFail, apperror.WithCause(err), apperror.WithContext(c.config.Name))
	}
	return nil
}

// SendJSON encodes v as JSON and writes it.
func (c *Client) SendJSON(ctx context.Context, v any) error {
	conn, err := c.current()
	if err != nil {
		return err
	}
	if err := wsjson.Write(ctx, conn, v); err != nil {
		return apperror.New(apperror.CodeBridgeSendFail, apperror.WithCause(err), apperror.WithContext(c.config.Name))
	}
	return nil
}

func (c *Client) current() (*websocket.Conn, error) {
	c.connMu.RLock()
	conn := c.conn
	c.connMu.RUnlock()
	if conn == nil || c.State() != StateConnected {
		return nil, apperror.New(apperror.CodeBridgeClosed, apperror.WithContext(c.config.Name))
	}
	return conn, nil
}

// State returns the current connection state.
func (c *Client) State() State {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// IsConnected reports whether messages can be sent.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// Close closes the connection and stops reconnecting. It is safe to call
// twice.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.connMu.Lock()
		conn := c.conn
		c.conn = nil
		c.connMu.Unlock()

		if conn != nil {
			// cancelling the read context already tears the socket down
			_ = conn.Close(websocket.StatusNormalClosure, "")
		}
		c.wg.Wait()
		c.setState(StateClosed, nil)
	})
	return nil
}

func (c *Client) setState(state State, err error) {
	c.stateMu.Lock()
	if c.state == StateClosed || c.state == state {
		c.stateMu.Unlock()
		return
	}
	c.state = state
	c.stateMu.Unlock()

	c.handlersMu.RLock()
	h := c.onState
	c.handlersMu.RUnlock()
	if h != nil {
		h(state, err)
	}
}
