package server

import (
	rand "math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/game"
	"github.com/cognivore/collapsization-sub001/internal/protocol"
)

// Session runs one game between three seats. It owns the state machine
// exclusively: peers submit intents, the session validates and applies them,
// then re-broadcasts the authoritative snapshot to every seat including the
// sender. Bots are just another intent source, driven after each broadcast.
//
// Session is not safe for concurrent use; the owning dispatcher applies one
// message at a time.
type Session struct {
	roomID string
	sender Sender
	logger zerolog.Logger

	game  *game.Game
	seats map[protocol.PeerID]game.Role
	peers map[game.Role]protocol.PeerID
	bots  []*Bot
}

// NewSession seats the handoff roster and creates the state machine. The
// Mayor is the host; remaining players take advisor seats in list order and
// bots fill whatever is left.
func NewSession(start protocol.GameStartData, rules game.Rules, rng *rand.Rand, sender Sender, logger zerolog.Logger) *Session {
	s := &Session{
		roomID: start.RoomID,
		sender: sender,
		logger: logger.With().Str("component", "session").Str("room", start.RoomID).Logger(),
		game:   game.New(rules, rng, logger),
		seats:  map[protocol.PeerID]game.Role{},
		peers:  map[game.Role]protocol.PeerID{},
	}

	roster := make([]protocol.PeerID, 0, game.NumPlayers)
	roster = append(roster, start.Host)
	for _, p := range start.Players {
		if p != start.Host {
			roster = append(roster, p)
		}
	}
	roster = append(roster, start.Bots...)

	for i, p := range roster {
		if i >= game.NumPlayers {
			break
		}
		role := game.Role(i)
		s.seats[p] = role
		s.peers[role] = p
		if p.IsBot() {
			s.bots = append(s.bots, NewBot(p, role, rng))
		}
	}
	return s
}

// Start announces seats, opens the game and broadcasts the first snapshot.
func (s *Session) Start() {
	for role, peer := range s.peers {
		if peer.IsBot() {
			continue
		}
		msg, err := protocol.NewMessage(protocol.TypeRoleAssign, protocol.RoleAssignData{
			Peer: peer,
			Role: role.String(),
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encode role assignment")
			continue
		}
		s.sender.Send(peer, msg)
	}
	s.game.Start()
	s.broadcast()
	s.driveBots()
}

// Role returns the seat of a peer, if it is in this session.
func (s *Session) Role(peer protocol.PeerID) (game.Role, bool) {
	r, ok := s.seats[peer]
	return r, ok
}

// Over reports whether the session's game has ended.
func (s *Session) Over() bool { return s.game.Over() }

// HandleMessage applies one intent from a peer. Malformed payloads are
// dropped at the boundary; rule violations no-op inside the state machine.
// Whenever an intent is applied the new snapshot goes out to every seat.
func (s *Session) HandleMessage(peer protocol.PeerID, msg *protocol.Message) {
	role, ok := s.seats[peer]
	if !ok {
		return
	}
	if s.apply(role, msg) {
		s.broadcast()
		s.driveBots()
	}
}

func (s *Session) apply(role game.Role, msg *protocol.Message) bool {
	switch msg.Type {
	case protocol.TypeReveal:
		var data protocol.RevealData
		if err := msg.Decode(&data); err != nil {
			return false
		}
		return s.game.Reveal(role, data.CardIndex)

	case protocol.TypeCommitNomination:
		var data protocol.CommitNominationData
		if err := msg.Decode(&data); err != nil {
			return false
		}
		h, ok := protocol.HexFromWire(data.Hex)
		if !ok {
			return false
		}
		claim, ok := protocol.CardFromWire(data.Claim)
		if !ok {
			return false
		}
		return s.game.CommitNomination(role, h, claim)

	case protocol.TypePlace:
		var data protocol.PlaceData
		if err := msg.Decode(&data); err != nil {
			return false
		}
		h, ok := protocol.HexFromWire(data.Hex)
		if !ok {
			return false
		}
		return s.game.Place(role, data.CardIndex, h)

	case protocol.TypeControlChoice:
		var data protocol.ControlChoiceData
		if err := msg.Decode(&data); err != nil {
			return false
		}
		choice, ok := controlChoiceFromWire(data)
		if !ok {
			return false
		}
		return s.game.ChooseControl(role, choice)

	case protocol.TypeVerify:
		var data protocol.VerifyData
		if err := msg.Decode(&data); err != nil {
			return false
		}
		h, ok := protocol.HexFromWire(data.Hex)
		if !ok {
			return false
		}
		return s.game.Verify(role, h)
	}
	return false
}

func controlChoiceFromWire(data protocol.ControlChoiceData) (game.ControlChoice, bool) {
	switch data.Mode {
	case "none":
		return game.ControlChoice{Mode: game.ControlNone}, true
	case "force_suits":
		cfg := game.SuitConfig(data.SuitConfig)
		if cfg != game.SuitConfigUrbDiamondIndHeart && cfg != game.SuitConfigUrbHeartIndDiamond {
			return game.ControlChoice{}, false
		}
		return game.ControlChoice{Mode: game.ControlForceSuits, SuitConfig: cfg}, true
	case "force_hexes":
		if data.IndustryHex == nil || data.UrbanistHex == nil {
			return game.ControlChoice{}, false
		}
		ih, ok := protocol.HexFromWire(*data.IndustryHex)
		if !ok {
			return game.ControlChoice{}, false
		}
		uh, ok := protocol.HexFromWire(*data.UrbanistHex)
		if !ok {
			return game.ControlChoice{}, false
		}
		return game.ControlChoice{Mode: game.ControlForceHexes, IndustryHex: ih, UrbanistHex: uh}, true
	}
	return game.ControlChoice{}, false
}

// broadcast sends each human seat its role-tailored snapshot. Redaction of
// the Mayor's hand happens here, before anything leaves the process.
func (s *Session) broadcast() {
	for role, peer := range s.peers {
		if peer.IsBot() {
			continue
		}
		msg, err := protocol.NewMessage(protocol.TypeGameState, s.snapshotFor(role))
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to encode snapshot")
			continue
		}
		s.sender.Send(peer, msg)
	}
}

func (s *Session) snapshotFor(role game.Role) protocol.GameStateData {
	g := s.game
	snap := protocol.GameStateData{
		Phase:        g.Phase().String(),
		SubPhase:     g.SubPhase().String(),
		Turn:         g.Turn(),
		Hand:         protocol.HandViewFor(role, g.Hand(), g.RevealedIndices()),
		Nominations:  protocol.NominationsToWire(g.Nominations()),
		Built:        protocol.BuiltToWire(g.Built()),
		Scores:       protocol.ScoresToWire(g.Scores()),
		ControlMode:  g.ControlMode().String(),
		History:      protocol.HistoryToWire(g.History()),
		MayorHitMine: g.MayorHitMine(),
		CityComplete: g.CityComplete(),
	}
	if p, ok := g.LastPlacement(); ok {
		wp := protocol.PlacementToWire(p)
		snap.LastPlacement = &wp
	}
	// Advisors see the frontier face up and their own tray; the Mayor
	// places blind and never receives either.
	if role.IsAdvisor() {
		for _, h := range g.Frontier() {
			if c, ok := g.RealityAt(h); ok {
				snap.FrontierReality = append(snap.FrontierReality, protocol.WireRealityTile{
					Hex:  protocol.HexToWire(h),
					Card: protocol.CardToWire(c),
				})
			}
		}
		snap.Tray = protocol.TrayToWire(g.Tray(role))
	}
	return snap
}

// driveBots lets bot seats inject intents until none of them has a move.
// Every applied bot intent re-broadcasts, same as a human one.
func (s *Session) driveBots() {
	for {
		acted := false
		for _, b := range s.bots {
			if b.Act(s.game) {
				acted = true
				s.broadcast()
			}
		}
		if !acted {
			return
		}
	}
}
