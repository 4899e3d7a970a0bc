package client

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/protocol"
)

const writeTimeout = 10 * time.Second

var wsSchemes = map[string]string{"http": "ws", "https": "wss", "ws": "ws", "wss": "wss"}

// Client is a websocket connection to the server with a Mirror tracking
// what the server has broadcast. Intent helpers marshal the corresponding
// wire messages; all state updates arrive through the read loop.
type Client struct {
	serverURL string
	logger    zerolog.Logger
	mirror    *Mirror

	outbox chan *protocol.Message
	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.RWMutex
	conn      *websocket.Conn
	closeOnce sync.Once
}

// NewClient creates a disconnected client.
func NewClient(serverURL string, logger zerolog.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		serverURL: serverURL,
		logger:    logger.With().Str("component", "client").Logger(),
		mirror:    NewMirror(logger),
		outbox:    make(chan *protocol.Message, 256),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Mirror exposes the reactive state snapshots and their callbacks.
func (c *Client) Mirror() *Mirror { return c.mirror }

// wsEndpoint rewrites an http(s) base URL into the server's websocket
// endpoint.
func wsEndpoint(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	scheme, ok := wsSchemes[u.Scheme]
	if !ok {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	u.Scheme = scheme
	u.Path = "/ws"
	return u.String(), nil
}

// Connect dials the server and starts the pumps.
func (c *Client) Connect() error {
	endpoint, err := wsEndpoint(c.serverURL)
	if err != nil {
		return err
	}

	c.logger.Info().Str("url", endpoint).Msg("connecting")
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.writeLoop(conn)
	return nil
}

// Close shuts the connection down once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.mu.Lock()
		if c.conn != nil {
			err = c.conn.Close()
			c.conn = nil
		}
		c.mu.Unlock()
	})
	return err
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil
}

func (c *Client) readLoop(conn *websocket.Conn) {
	defer func() { _ = c.Close() }()
	for c.ctx.Err() == nil {
		var msg protocol.Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Error().Err(err).Msg("read error")
			}
			return
		}
		c.mirror.HandleMessage(&msg)
	}
}

func (c *Client) writeLoop(conn *websocket.Conn) {
	for {
		select {
		case msg := <-c.outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(msg); err != nil {
				c.logger.Error().Err(err).Msg("write error")
				_ = c.Close()
				return
			}
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) submit(msgType protocol.MessageType, data interface{}) error {
	if !c.Connected() {
		return fmt.Errorf("not connected")
	}
	msg, err := protocol.NewMessage(msgType, data)
	if err != nil {
		return err
	}
	select {
	case c.outbox <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// Lobby intents.

func (c *Client) CreateRoom() error { return c.submit(protocol.TypeCreateRoom, nil) }

func (c *Client) JoinRoom(roomID string) error {
	return c.submit(protocol.TypeJoinRoom, protocol.JoinRoomData{RoomID: roomID})
}

func (c *Client) LeaveRoom() error { return c.submit(protocol.TypeLeaveRoom, nil) }

func (c *Client) ListRooms() error { return c.submit(protocol.TypeListRooms, nil) }

func (c *Client) AddBot() error { return c.submit(protocol.TypeAddBot, nil) }

func (c *Client) RemoveBot(botID protocol.PeerID) error {
	return c.submit(protocol.TypeRemoveBot, protocol.RemoveBotData{BotID: botID})
}

func (c *Client) RequestStart() error { return c.submit(protocol.TypeRequestStart, nil) }

// Game intents.

func (c *Client) Reveal(cardIndex int) error {
	return c.submit(protocol.TypeReveal, protocol.RevealData{CardIndex: cardIndex})
}

func (c *Client) CommitNomination(hex protocol.WireHex, claim protocol.WireCard) error {
	return c.submit(protocol.TypeCommitNomination, protocol.CommitNominationData{Hex: hex, Claim: claim})
}

func (c *Client) Place(cardIndex int, hex protocol.WireHex) error {
	return c.submit(protocol.TypePlace, protocol.PlaceData{CardIndex: cardIndex, Hex: hex})
}

func (c *Client) ChooseControl(choice protocol.ControlChoiceData) error {
	return c.submit(protocol.TypeControlChoice, choice)
}

func (c *Client) Verify(hex protocol.WireHex) error {
	return c.submit(protocol.TypeVerify, protocol.VerifyData{Hex: hex})
}
