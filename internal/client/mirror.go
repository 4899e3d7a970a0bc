package client

import (
	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/protocol"
)

// Mirror is the client-side reflection of server state. It is purely
// reactive: every inbound broadcast replaces the matching snapshot
// wholesale, and nothing speculative survives contradiction by the server.
type Mirror struct {
	logger zerolog.Logger

	roomList  protocol.RoomListData
	roomState *protocol.RoomUpdateData
	gameStart *protocol.GameStartData
	gameState *protocol.GameStateData
	role      string
	lastError string

	// Callbacks fire after the snapshot they describe has been replaced.
	OnRoomList   func(protocol.RoomListData)
	OnRoomUpdate func(protocol.RoomUpdateData)
	OnGameStart  func(protocol.GameStartData)
	OnGameState  func(protocol.GameStateData)
	OnRoleAssign func(protocol.RoleAssignData)
	OnLobbyError func(string)
}

// NewMirror creates an empty mirror.
func NewMirror(logger zerolog.Logger) *Mirror {
	return &Mirror{logger: logger.With().Str("component", "mirror").Logger()}
}

// HandleMessage applies one server message. Unknown types and malformed
// payloads are dropped; the next broadcast self-heals.
func (m *Mirror) HandleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeListRooms:
		var data protocol.RoomListData
		if err := msg.Decode(&data); err != nil {
			m.logger.Debug().Err(err).Msg("malformed room list")
			return
		}
		m.roomList = data
		if m.OnRoomList != nil {
			m.OnRoomList(data)
		}

	case protocol.TypeRoomUpdate:
		var data protocol.RoomUpdateData
		if err := msg.Decode(&data); err != nil {
			m.logger.Debug().Err(err).Msg("malformed room update")
			return
		}
		m.roomState = &data
		if m.OnRoomUpdate != nil {
			m.OnRoomUpdate(data)
		}

	case protocol.TypeGameStart:
		var data protocol.GameStartData
		if err := msg.Decode(&data); err != nil {
			m.logger.Debug().Err(err).Msg("malformed game start")
			return
		}
		m.gameStart = &data
		m.roomState = nil // the room has left the lobby
		if m.OnGameStart != nil {
			m.OnGameStart(data)
		}

	case protocol.TypeRoleAssign:
		var data protocol.RoleAssignData
		if err := msg.Decode(&data); err != nil {
			m.logger.Debug().Err(err).Msg("malformed role assignment")
			return
		}
		m.role = data.Role
		if m.OnRoleAssign != nil {
			m.OnRoleAssign(data)
		}

	case protocol.TypeGameState:
		var data protocol.GameStateData
		if err := msg.Decode(&data); err != nil {
			m.logger.Debug().Err(err).Msg("malformed game state")
			return
		}
		m.gameState = &data
		if m.OnGameState != nil {
			m.OnGameState(data)
		}

	case protocol.TypeLobbyError:
		var data protocol.LobbyErrorData
		if err := msg.Decode(&data); err != nil {
			m.logger.Debug().Err(err).Msg("malformed lobby error")
			return
		}
		m.lastError = data.Message
		if m.OnLobbyError != nil {
			m.OnLobbyError(data.Message)
		}
	}
}

// RoomList returns the latest room-list snapshot.
func (m *Mirror) RoomList() protocol.RoomListData { return m.roomList }

// RoomState returns the current room, if the client is in one.
func (m *Mirror) RoomState() (protocol.RoomUpdateData, bool) {
	if m.roomState == nil {
		return protocol.RoomUpdateData{}, false
	}
	return *m.roomState, true
}

// GameStart returns the start handoff, if the client's room has started.
func (m *Mirror) GameStart() (protocol.GameStartData, bool) {
	if m.gameStart == nil {
		return protocol.GameStartData{}, false
	}
	return *m.gameStart, true
}

// GameState returns the latest authoritative snapshot.
func (m *Mirror) GameState() (protocol.GameStateData, bool) {
	if m.gameState == nil {
		return protocol.GameStateData{}, false
	}
	return *m.gameState, true
}

// Role returns the seat the server assigned, or "".
func (m *Mirror) Role() string { return m.role }

// LastError returns the most recent lobby error, or "".
func (m *Mirror) LastError() string { return m.lastError }
