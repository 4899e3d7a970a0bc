package server

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/protocol"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second

	// Must fire well inside pongTimeout or healthy peers get dropped.
	pingInterval = (pongTimeout * 9) / 10

	maxFrameBytes = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one websocket peer. Inbound messages are stamped with
// the peer ID and handed to the dispatcher; outbound messages queue on a
// buffered outbox so a slow client never blocks the game.
type Connection struct {
	conn   *websocket.Conn
	outbox chan *protocol.Message
	peer   protocol.PeerID
	logger zerolog.Logger
	onRecv func(protocol.PeerID, *protocol.Message)

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection wraps an upgraded websocket with its assigned peer ID.
func NewConnection(conn *websocket.Conn, peer protocol.PeerID, logger zerolog.Logger, onRecv func(protocol.PeerID, *protocol.Message)) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   conn,
		outbox: make(chan *protocol.Message, 256),
		peer:   peer,
		logger: logger.With().Str("component", "conn").Int64("peer", int64(peer)).Logger(),
		onRecv: onRecv,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Peer returns the connection's assigned peer ID.
func (c *Connection) Peer() protocol.PeerID { return c.peer }

// Done is closed once the connection has shut down.
func (c *Connection) Done() <-chan struct{} { return c.ctx.Done() }

// Start launches the read and write pumps.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close tears the connection down once. The outbox stays open; the pumps
// observe the cancelled context and unwind on their own.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client. A full outbox means the
// client stopped draining; drop the connection instead of blocking.
func (c *Connection) SendMessage(msg *protocol.Message) error {
	select {
	case <-c.ctx.Done():
		return c.ctx.Err()
	case c.outbox <- msg:
		return nil
	default:
		c.logger.Warn().Msg("outbox full, dropping connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxFrameBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for c.ctx.Err() == nil {
		var msg protocol.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error().Err(err).Msg("websocket read failed")
			}
			return
		}
		// The server owns attribution; never trust a client-supplied From.
		msg.From = c.peer
		c.onRecv(c.peer, &msg)
	}
}

func (c *Connection) writePump() {
	pinger := time.NewTicker(pingInterval)
	defer func() {
		pinger.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.outbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error().Err(err).Msg("websocket write failed")
				return
			}

		case <-pinger.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
