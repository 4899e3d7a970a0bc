package server

import (
	"errors"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/protocol"
	"github.com/cognivore/collapsization-sub001/internal/roomid"
)

// Sender is the network-send capability the lobby and sessions receive by
// injection; there is no ambient singleton to look up.
type Sender interface {
	Send(peer protocol.PeerID, msg *protocol.Message)
	Broadcast(msg *protocol.Message)
}

// Lobby operational errors, surfaced to the requesting peer as LOBBY_ERROR
// messages.
var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrNotInRoom        = errors.New("not in a room")
	ErrNotHost          = errors.New("only the host can start the game")
	ErrNotEnoughPlayers = errors.New("need at least 2 occupants to start")
	ErrBotNotFound      = errors.New("bot not found")
	ErrIDSpaceExhausted = errors.New("could not allocate a room code")
)

// roomIDAttempts is the collision retry budget for code generation.
const roomIDAttempts = 16

// Room is one lobby room. Players are real peers in join order; bots carry
// synthetic negative IDs and never appear in Players.
type Room struct {
	ID        string
	Players   []protocol.PeerID
	Bots      []protocol.PeerID
	Host      protocol.PeerID
	CreatedAt time.Time
}

// Occupancy is the number of seats taken, human or bot.
func (r *Room) Occupancy() int { return len(r.Players) + len(r.Bots) }

// StartHandler receives the game-start handoff payload when a room fills.
type StartHandler func(protocol.GameStartData)

// LobbyManager owns the room registry. It is not safe for concurrent use;
// the owning dispatcher applies one message at a time.
type LobbyManager struct {
	sender   Sender
	clock    quartz.Clock
	idgen    *roomid.Generator
	logger   zerolog.Logger
	required int

	rooms    map[string]*Room
	peerRoom map[protocol.PeerID]string
	peers    map[protocol.PeerID]bool
	inGame   map[protocol.PeerID]bool

	nextBotID protocol.PeerID
	onStart   StartHandler
}

// NewLobbyManager creates a lobby with an empty registry.
func NewLobbyManager(sender Sender, clock quartz.Clock, idgen *roomid.Generator, required int, logger zerolog.Logger) *LobbyManager {
	return &LobbyManager{
		sender:    sender,
		clock:     clock,
		idgen:     idgen,
		logger:    logger.With().Str("component", "lobby").Logger(),
		required:  required,
		rooms:     map[string]*Room{},
		peerRoom:  map[protocol.PeerID]string{},
		peers:     map[protocol.PeerID]bool{},
		inGame:    map[protocol.PeerID]bool{},
		nextBotID: -1,
	}
}

// OnGameStart registers the handoff target for filled rooms.
func (l *LobbyManager) OnGameStart(fn StartHandler) { l.onStart = fn }

// Connect registers a peer and sends it the current room list.
func (l *LobbyManager) Connect(peer protocol.PeerID) {
	l.peers[peer] = true
	l.sendRoomList(peer)
}

// Disconnect removes a peer, leaving its room first if needed.
func (l *LobbyManager) Disconnect(peer protocol.PeerID) {
	if _, ok := l.peerRoom[peer]; ok {
		l.leaveRoom(peer)
	}
	delete(l.peers, peer)
	delete(l.inGame, peer)
}

// HandleMessage dispatches one lobby-range message. Messages outside the
// lobby range are ignored.
func (l *LobbyManager) HandleMessage(peer protocol.PeerID, msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeCreateRoom:
		l.createRoom(peer)
	case protocol.TypeJoinRoom:
		var data protocol.JoinRoomData
		if err := msg.Decode(&data); err != nil {
			l.sendError(peer, "malformed join request")
			return
		}
		l.joinRoom(peer, data.RoomID)
	case protocol.TypeLeaveRoom:
		l.leaveRoom(peer)
	case protocol.TypeListRooms:
		l.sendRoomList(peer)
	case protocol.TypeAddBot:
		l.addBot(peer)
	case protocol.TypeRemoveBot:
		var data protocol.RemoveBotData
		if err := msg.Decode(&data); err != nil {
			l.sendError(peer, "malformed remove-bot request")
			return
		}
		l.removeBot(peer, data.BotID)
	case protocol.TypeRequestStart:
		l.requestStart(peer)
	}
}

func (l *LobbyManager) createRoom(peer protocol.PeerID) {
	if _, ok := l.peerRoom[peer]; ok {
		l.sendError(peer, ErrAlreadyInRoom.Error())
		return
	}
	id, err := l.allocateID()
	if err != nil {
		l.logger.Error().Err(err).Msg("room code allocation failed")
		l.sendError(peer, err.Error())
		return
	}
	room := &Room{
		ID:        id,
		Players:   []protocol.PeerID{peer},
		Host:      peer,
		CreatedAt: l.clock.Now(),
	}
	l.rooms[id] = room
	l.peerRoom[peer] = id
	l.logger.Info().Str("room", id).Int64("peer", int64(peer)).Msg("room created")
	l.broadcastRoomUpdate(room)
	l.broadcastRoomList()
}

func (l *LobbyManager) allocateID() (string, error) {
	for i := 0; i < roomIDAttempts; i++ {
		id := l.idgen.Generate()
		if _, taken := l.rooms[id]; !taken {
			return id, nil
		}
	}
	return "", ErrIDSpaceExhausted
}

func (l *LobbyManager) joinRoom(peer protocol.PeerID, id string) {
	if _, ok := l.peerRoom[peer]; ok {
		l.sendError(peer, ErrAlreadyInRoom.Error())
		return
	}
	if err := roomid.Validate(id); err != nil {
		l.sendError(peer, err.Error())
		return
	}
	room, ok := l.rooms[id]
	if !ok {
		l.sendError(peer, ErrRoomNotFound.Error())
		return
	}
	if room.Occupancy() >= l.required {
		l.sendError(peer, ErrRoomFull.Error())
		return
	}
	room.Players = append(room.Players, peer)
	l.peerRoom[peer] = id
	l.logger.Info().Str("room", id).Int64("peer", int64(peer)).Msg("peer joined")

	if room.Occupancy() >= l.required {
		l.startRoom(room)
		return
	}
	l.broadcastRoomUpdate(room)
	l.broadcastRoomList()
}

func (l *LobbyManager) leaveRoom(peer protocol.PeerID) {
	id, ok := l.peerRoom[peer]
	if !ok {
		l.sendError(peer, ErrNotInRoom.Error())
		return
	}
	room := l.rooms[id]
	delete(l.peerRoom, peer)
	for i, p := range room.Players {
		if p == peer {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	l.logger.Info().Str("room", id).Int64("peer", int64(peer)).Msg("peer left")

	if len(room.Players) == 0 {
		delete(l.rooms, id)
		l.logger.Info().Str("room", id).Msg("room destroyed")
		l.broadcastRoomList()
		return
	}
	if room.Host == peer {
		room.Host = room.Players[0]
		l.logger.Info().Str("room", id).Int64("host", int64(room.Host)).Msg("host migrated")
	}
	l.broadcastRoomUpdate(room)
	l.broadcastRoomList()
}

func (l *LobbyManager) addBot(peer protocol.PeerID) {
	id, ok := l.peerRoom[peer]
	if !ok {
		l.sendError(peer, ErrNotInRoom.Error())
		return
	}
	room := l.rooms[id]
	if room.Occupancy() >= l.required {
		l.sendError(peer, ErrRoomFull.Error())
		return
	}
	botID := l.nextBotID
	l.nextBotID--
	room.Bots = append(room.Bots, botID)
	l.logger.Info().Str("room", id).Int64("bot", int64(botID)).Msg("bot added")

	if room.Occupancy() >= l.required {
		l.startRoom(room)
		return
	}
	l.broadcastRoomUpdate(room)
	l.broadcastRoomList()
}

func (l *LobbyManager) removeBot(peer protocol.PeerID, botID protocol.PeerID) {
	id, ok := l.peerRoom[peer]
	if !ok {
		l.sendError(peer, ErrNotInRoom.Error())
		return
	}
	room := l.rooms[id]
	for i, b := range room.Bots {
		if b == botID {
			room.Bots = append(room.Bots[:i], room.Bots[i+1:]...)
			l.broadcastRoomUpdate(room)
			l.broadcastRoomList()
			return
		}
	}
	l.sendError(peer, ErrBotNotFound.Error())
}

// requestStart lets the host start early with at least 2 occupants; empty
// seats are filled with bots.
func (l *LobbyManager) requestStart(peer protocol.PeerID) {
	id, ok := l.peerRoom[peer]
	if !ok {
		l.sendError(peer, ErrNotInRoom.Error())
		return
	}
	room := l.rooms[id]
	if room.Host != peer {
		l.sendError(peer, ErrNotHost.Error())
		return
	}
	if room.Occupancy() < 2 {
		l.sendError(peer, ErrNotEnoughPlayers.Error())
		return
	}
	for room.Occupancy() < l.required {
		room.Bots = append(room.Bots, l.nextBotID)
		l.nextBotID--
	}
	l.startRoom(room)
}

// startRoom hands a filled room off to the game layer and retires it from
// the registry. Occupants stay known to the lobby but stop receiving room
// lists until they disconnect.
func (l *LobbyManager) startRoom(room *Room) {
	delete(l.rooms, room.ID)
	start := protocol.GameStartData{
		RoomID:  room.ID,
		Players: append([]protocol.PeerID(nil), room.Players...),
		Bots:    append([]protocol.PeerID(nil), room.Bots...),
		Host:    room.Host,
	}
	for _, p := range room.Players {
		delete(l.peerRoom, p)
		l.inGame[p] = true
	}
	l.logger.Info().Str("room", room.ID).Int("players", len(start.Players)).Int("bots", len(start.Bots)).Msg("game starting")

	msg, err := protocol.NewMessage(protocol.TypeGameStart, start)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to encode game start")
		return
	}
	for _, p := range start.Players {
		l.sender.Send(p, msg)
	}
	l.broadcastRoomList()

	if l.onStart != nil {
		l.onStart(start)
	}
}

// ReturnToLobby moves a peer from a finished game back onto the room list.
func (l *LobbyManager) ReturnToLobby(peer protocol.PeerID) {
	if !l.peers[peer] {
		return
	}
	delete(l.inGame, peer)
	l.sendRoomList(peer)
}

// RoomCount returns the number of open rooms.
func (l *LobbyManager) RoomCount() int { return len(l.rooms) }

// RoomByID returns an open room, if present.
func (l *LobbyManager) RoomByID(id string) (*Room, bool) {
	r, ok := l.rooms[id]
	return r, ok
}

func (l *LobbyManager) roomList() protocol.RoomListData {
	list := protocol.RoomListData{Rooms: []protocol.RoomInfo{}}
	for _, room := range l.rooms {
		list.Rooms = append(list.Rooms, protocol.RoomInfo{
			RoomID:      room.ID,
			PlayerCount: room.Occupancy(),
			Required:    l.required,
		})
	}
	return list
}

func (l *LobbyManager) sendRoomList(peer protocol.PeerID) {
	msg, err := protocol.NewMessage(protocol.TypeListRooms, l.roomList())
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to encode room list")
		return
	}
	l.sender.Send(peer, msg)
}

// broadcastRoomList refreshes every peer that is neither roomed nor in a
// running game.
func (l *LobbyManager) broadcastRoomList() {
	msg, err := protocol.NewMessage(protocol.TypeListRooms, l.roomList())
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to encode room list")
		return
	}
	for peer := range l.peers {
		if _, roomed := l.peerRoom[peer]; roomed || l.inGame[peer] {
			continue
		}
		l.sender.Send(peer, msg)
	}
}

// broadcastRoomUpdate refreshes every occupant of a room.
func (l *LobbyManager) broadcastRoomUpdate(room *Room) {
	update := protocol.RoomUpdateData{
		RoomID:      room.ID,
		Players:     append([]protocol.PeerID(nil), room.Players...),
		Bots:        append([]protocol.PeerID(nil), room.Bots...),
		PlayerCount: room.Occupancy(),
		Required:    l.required,
		Host:        room.Host,
	}
	msg, err := protocol.NewMessage(protocol.TypeRoomUpdate, update)
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to encode room update")
		return
	}
	for _, p := range room.Players {
		l.sender.Send(p, msg)
	}
}

func (l *LobbyManager) sendError(peer protocol.PeerID, text string) {
	msg, err := protocol.NewMessage(protocol.TypeLobbyError, protocol.LobbyErrorData{Message: text})
	if err != nil {
		l.logger.Error().Err(err).Msg("failed to encode lobby error")
		return
	}
	l.sender.Send(peer, msg)
}
