package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lorrc/service-desk-realtime/internal/core/domain"
	apperrors "github.com/lorrc/service-desk-realtime/internal/core/errors"
	"github.com/lorrc/service-desk-realtime/internal/core/ports"
	"github.com/lorrc/service-desk-realtime/internal/infrastructure/logging"
)

// State is the lifecycle stage of a Client.
type State int32

const (
	StateConnecting State = iota
	StateAuthorized
	StateRejected
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "CONNECTING"
	case StateAuthorized:
		return "AUTHORIZED"
	case StateRejected:
		return "REJECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options tunes the per-connection I/O.
type Options struct {
	// SendQueueSize bounds the outbound queue. Events published while it is
	// full are dropped for this session only.
	SendQueueSize int

	// MaxMessageSize is the largest inbound frame accepted.
	MaxMessageSize int64

	// PingInterval is the period of protocol pings. Missing pongs never close
	// the connection.
	PingInterval time.Duration

	// WriteWait is the time allowed to write one frame.
	WriteWait time.Duration
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		SendQueueSize:  256,
		MaxMessageSize: 4096,
		PingInterval:   54 * time.Second,
		WriteWait:      10 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = def.SendQueueSize
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = def.MaxMessageSize
	}
	if o.PingInterval <= 0 {
		o.PingInterval = def.PingInterval
	}
	if o.WriteWait <= 0 {
		o.WriteWait = def.WriteWait
	}
	return o
}

// roomHandler gives a Client its room-specific behaviour.
type roomHandler interface {
	// translate maps a published event onto this room's wire message.
	translate(event domain.Event) (any, error)

	// handleMessage reacts to one decoded client frame.
	handleMessage(ctx context.Context, c *Client, msg inboundMessage)
}

// Client is one accepted connection bound to exactly one room.
type Client struct {
	id   string
	conn *websocket.Conn
	room domain.RoomKey
	opts Options

	// identity and handler are set once, before the state becomes
	// StateAuthorized, and never change afterwards.
	identity domain.Identity
	handler  roomHandler

	// Buffered channel of encoded outbound frames. It is never closed;
	// done signals shutdown instead so Deliver cannot race a close.
	send chan []byte
	done chan struct{}

	state     atomic.Int32
	closeOnce sync.Once

	logger *slog.Logger
}

// Ensure Client can be registered with the hub.
var _ ports.Subscriber = (*Client)(nil)

func newClient(conn *websocket.Conn, room domain.RoomKey, opts Options, logger *slog.Logger) *Client {
	opts = opts.withDefaults()
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		room:   room,
		opts:   opts,
		send:   make(chan []byte, opts.SendQueueSize),
		done:   make(chan struct{}),
		logger: logger.With("session_id", id, "room", room.String()),
	}
}

// ID returns the session ID.
func (c *Client) ID() string { return c.id }

// Room returns the room this session is bound to.
func (c *Client) Room() domain.RoomKey { return c.room }

// Identity returns the identity resolved when the session connected.
func (c *Client) Identity() domain.Identity { return c.identity }

// State returns the current lifecycle stage.
func (c *Client) State() State { return State(c.state.Load()) }

// Deliver translates event for this room and queues it without blocking.
func (c *Client) Deliver(event domain.Event) error {
	if c.State() != StateAuthorized {
		return apperrors.ErrSessionClosed
	}
	msg, err := c.handler.translate(event)
	if err != nil {
		return err
	}
	return c.enqueue(msg)
}

// Shutdown closes the connection with a going-away frame.
func (c *Client) Shutdown() {
	c.closeWith(websocket.CloseGoingAway, "server shutting down")
}

func (c *Client) enqueue(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %T: %w", msg, err)
	}

	select {
	case <-c.done:
		return apperrors.ErrSessionClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return apperrors.ErrSessionBufferFull
	}
}

// reject refuses the connection with an application close code. The client
// never joins a room.
func (c *Client) reject(code int, reason string) {
	c.state.Store(int32(StateRejected))
	c.closeWith(code, reason)
	c.state.Store(int32(StateClosed))
}

// serve runs an authorized session until its connection ends. It blocks on
// the caller's goroutine, which becomes the reader.
func (c *Client) serve(ctx context.Context, hub ports.EventBroadcaster, handler roomHandler, identity domain.Identity, greeting any) {
	c.identity = identity
	c.handler = handler
	c.state.Store(int32(StateAuthorized))

	// The greeting is queued before registration so it is always the first
	// frame the client sees.
	if greeting != nil {
		if err := c.enqueue(greeting); err != nil {
			c.logger.Warn("failed to queue greeting", "error", err)
		}
	}

	hub.Register(c.room, c)
	defer func() {
		hub.Unregister(c.room, c)
		c.closeWith(websocket.CloseNormalClosure, "")
		c.state.Store(int32(StateClosed))
	}()

	go c.writePump()
	c.readPump(ctx)
}

// readPump pumps messages from the websocket connection to the room handler.
// No read deadline is set: idle connections stay open until either side
// closes them.
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(c.opts.MaxMessageSize)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived,
			) {
				c.logger.Debug("websocket read ended", "error", err)
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("ignoring malformed client message", "error", err)
			continue
		}

		c.dispatch(ctx, msg)
	}
}

func (c *Client) dispatch(ctx context.Context, msg inboundMessage) {
	defer func() {
		if r := recover(); r != nil {
			logging.LogPanic(c.logger, r)
		}
	}()
	c.handler.handleMessage(ctx, c, msg)
}

// writePump pumps queued frames to the websocket connection and keeps
// intermediaries alive with protocol pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.opts.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}

		case <-c.done:
			return
		}
	}
}

// closeWith sends a close frame carrying code and closes the connection.
// Only the first call has any effect.
func (c *Client) closeWith(code int, reason string) {
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(c.opts.WriteWait)
		err := c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
		if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
			c.logger.Debug("failed to send close frame", "code", code, "error", err)
		}
		_ = c.conn.Close()
	})
}
