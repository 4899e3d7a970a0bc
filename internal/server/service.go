package server

import (
	"sync"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/protocol"
	"github.com/cognivore/collapsization-sub001/internal/randutil"
	"github.com/cognivore/collapsization-sub001/internal/roomid"
)

// Service is the single authoritative mutator: it owns the lobby and every
// running session, and serializes all message handling behind one mutex so
// no handler interleaves with another's partial execution.
type Service struct {
	mu sync.Mutex

	config *Config
	clock  quartz.Clock
	logger zerolog.Logger

	sender   Sender
	lobby    *LobbyManager
	sessions map[protocol.PeerID]*Session

	seedCounter int64
}

// NewService creates the dispatcher. Bind must be called with the transport
// before any traffic arrives.
func NewService(config *Config, clock quartz.Clock, logger zerolog.Logger) *Service {
	return &Service{
		config:   config,
		clock:    clock,
		logger:   logger.With().Str("component", "service").Logger(),
		sessions: map[protocol.PeerID]*Session{},
	}
}

// Bind wires the network-send capability in and builds the lobby around it.
func (s *Service) Bind(sender Sender) {
	s.sender = sender
	s.lobby = NewLobbyManager(
		sender,
		s.clock,
		roomid.NewGenerator(nil),
		s.config.Game.RequiredPlayers,
		s.logger,
	)
	s.lobby.OnGameStart(s.startGame)
}

// Lobby exposes the room registry, mainly to tests.
func (s *Service) Lobby() *LobbyManager { return s.lobby }

// Connect implements MessageHandler.
func (s *Service) Connect(peer protocol.PeerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lobby.Connect(peer)
}

// Disconnect implements MessageHandler. A mid-game disconnect does not tear
// the session down: the remaining seats keep playing and the vanished peer
// simply stops submitting intents.
func (s *Service) Disconnect(peer protocol.PeerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, peer)
	s.lobby.Disconnect(peer)
}

// HandleMessage implements MessageHandler: lobby-range messages go to the
// lobby, everything else to the peer's session.
func (s *Service) HandleMessage(peer protocol.PeerID, msg *protocol.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if msg.Type >= protocol.TypeCreateRoom && msg.Type <= protocol.TypeRequestStart {
		s.lobby.HandleMessage(peer, msg)
		return
	}

	sess, ok := s.sessions[peer]
	if !ok {
		return
	}
	sess.HandleMessage(peer, msg)
	if sess.Over() {
		s.endSession(sess)
	}
}

// startGame is the lobby's room-full handoff target.
func (s *Service) startGame(start protocol.GameStartData) {
	seed := s.config.Game.Seed
	if seed == 0 {
		seed = s.clock.Now().UnixNano()
	}
	seed += s.seedCounter
	s.seedCounter++

	sess := NewSession(start, s.config.Rules(), randutil.New(seed), s.sender, s.logger)
	for _, p := range start.Players {
		s.sessions[p] = sess
	}
	s.logger.Info().Str("room", start.RoomID).Int64("seed", seed).Msg("session created")
	sess.Start()
	if sess.Over() {
		s.endSession(sess)
	}
}

// endSession releases a finished game's seats back to the lobby.
func (s *Service) endSession(sess *Session) {
	for peer := range s.sessions {
		if s.sessions[peer] == sess {
			delete(s.sessions, peer)
			s.lobby.ReturnToLobby(peer)
		}
	}
	s.logger.Info().Str("room", sess.roomID).Msg("session ended")
}
