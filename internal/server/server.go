package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cognivore/collapsization-sub001/internal/protocol"
)

// MessageHandler receives connection lifecycle events and inbound messages.
// The Service implements it; tests can substitute their own.
type MessageHandler interface {
	Connect(peer protocol.PeerID)
	Disconnect(peer protocol.PeerID)
	HandleMessage(peer protocol.PeerID, msg *protocol.Message)
}

// Server is the websocket front door. It assigns integer peer IDs on
// connect, forwards inbound messages to the handler and implements Sender
// for everything behind it.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	logger   zerolog.Logger
	handler  MessageHandler

	mu          sync.RWMutex
	connections map[protocol.PeerID]*Connection
	nextPeer    protocol.PeerID

	register   chan *Connection
	unregister chan *Connection
}

// NewServer creates a websocket server bound to addr.
func NewServer(addr string, handler MessageHandler, logger zerolog.Logger) *Server {
	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins.
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.With().Str("component", "server").Logger(),
		handler:     handler,
		connections: map[protocol.PeerID]*Connection{},
		nextPeer:    1,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
	}
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	httpServer := &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", s.addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.runHub(ctx)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return httpServer.Shutdown(context.Background())
	})
	return g.Wait()
}

// runHub owns the connection registry lifecycle.
func (s *Server) runHub(ctx context.Context) {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn.Peer()] = conn
			total := len(s.connections)
			s.mu.Unlock()
			s.handler.Connect(conn.Peer())
			s.logger.Info().Int64("peer", int64(conn.Peer())).Int("total", total).Msg("client connected")

		case conn := <-s.unregister:
			s.mu.Lock()
			_, known := s.connections[conn.Peer()]
			if known {
				delete(s.connections, conn.Peer())
			}
			total := len(s.connections)
			s.mu.Unlock()
			if known {
				s.handler.Disconnect(conn.Peer())
				_ = conn.Close()
			}
			s.logger.Info().Int64("peer", int64(conn.Peer())).Int("total", total).Msg("client disconnected")

		case <-ctx.Done():
			s.mu.Lock()
			for _, conn := range s.connections {
				_ = conn.Close()
			}
			s.connections = map[protocol.PeerID]*Connection{}
			s.mu.Unlock()
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to upgrade connection")
		return
	}

	s.mu.Lock()
	peer := s.nextPeer
	s.nextPeer++
	s.mu.Unlock()

	client := NewConnection(conn, peer, s.logger, s.handler.HandleMessage)
	s.register <- client
	client.Start()

	go func() {
		<-client.Done()
		s.unregister <- client
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Send delivers a message to one peer. Unknown peers are dropped; a lagging
// or vanished client resolves itself on the next broadcast.
func (s *Server) Send(peer protocol.PeerID, msg *protocol.Message) {
	s.mu.RLock()
	conn, ok := s.connections[peer]
	s.mu.RUnlock()
	if !ok {
		return
	}
	if err := conn.SendMessage(msg); err != nil {
		s.logger.Error().Err(err).Int64("peer", int64(peer)).Msg("failed to send message")
	}
}

// Broadcast delivers a message to every connected peer.
func (s *Server) Broadcast(msg *protocol.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for peer, conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Error().Err(err).Int64("peer", int64(peer)).Msg("failed to broadcast message")
		}
	}
}
