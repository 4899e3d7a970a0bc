package protocol

import "encoding/json"

// MessageType identifies a wire message. The numeric space is partitioned:
// the low range carries game-session messages, 100-109 carries the lobby
// protocol.
type MessageType int

const (
	// Game session messages.
	TypeRoleAssign       MessageType = 1
	TypeGameState        MessageType = 2
	TypeReveal           MessageType = 3
	TypeCommitNomination MessageType = 4
	TypePlace            MessageType = 5
	TypeControlChoice    MessageType = 6
	TypeVerify           MessageType = 7

	// Lobby messages.
	TypeCreateRoom   MessageType = 100
	TypeJoinRoom     MessageType = 101
	TypeLeaveRoom    MessageType = 102
	TypeListRooms    MessageType = 103
	TypeRoomUpdate   MessageType = 104
	TypeGameStart    MessageType = 105
	TypeLobbyError   MessageType = 106
	TypeAddBot       MessageType = 107
	TypeRemoveBot    MessageType = 108
	TypeRequestStart MessageType = 109
)

// PeerID identifies a connected peer. Bot slots use synthetic negative IDs
// that never collide with real peers.
type PeerID int64

// IsBot reports whether an ID belongs to a synthetic bot slot.
func (p PeerID) IsBot() bool { return p < 0 }

// Message is the wire envelope shared by the lobby and game protocols.
// From attributes relayed game messages to their sender; the server fills
// it, clients must not.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
	From PeerID          `json:"from,omitempty"`
}

// NewMessage marshals a payload into an envelope.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	if data == nil {
		return &Message{Type: messageType}, nil
	}
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: messageType, Data: dataBytes}, nil
}

// Decode unmarshals the envelope payload into v.
func (m *Message) Decode(v interface{}) error {
	if len(m.Data) == 0 {
		return nil
	}
	return json.Unmarshal(m.Data, v)
}

// Client → Server

type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

type RemoveBotData struct {
	BotID PeerID `json:"botId"`
}

type RevealData struct {
	CardIndex int `json:"cardIndex"`
}

type CommitNominationData struct {
	Hex   WireHex  `json:"hex"`
	Claim WireCard `json:"claim"`
}

type PlaceData struct {
	CardIndex int     `json:"cardIndex"`
	Hex       WireHex `json:"hex"`
}

type ControlChoiceData struct {
	Mode        string   `json:"mode"` // none|force_suits|force_hexes
	SuitConfig  int      `json:"suitConfig,omitempty"`
	IndustryHex *WireHex `json:"industryHex,omitempty"`
	UrbanistHex *WireHex `json:"urbanistHex,omitempty"`
}

type VerifyData struct {
	Hex WireHex `json:"hex"`
}

// Server → Client

type RoomInfo struct {
	RoomID      string `json:"roomId"`
	PlayerCount int    `json:"playerCount"`
	Required    int    `json:"required"`
}

type RoomListData struct {
	Rooms []RoomInfo `json:"rooms"`
}

type RoomUpdateData struct {
	RoomID      string   `json:"roomId"`
	Players     []PeerID `json:"players"`
	Bots        []PeerID `json:"bots"`
	PlayerCount int      `json:"playerCount"`
	Required    int      `json:"required"`
	Host        PeerID   `json:"host"`
}

type GameStartData struct {
	RoomID  string   `json:"roomId"`
	Players []PeerID `json:"players"`
	Bots    []PeerID `json:"bots"`
	Host    PeerID   `json:"host"`
}

type LobbyErrorData struct {
	Message string `json:"message"`
}

type RoleAssignData struct {
	Peer PeerID `json:"peer"`
	Role string `json:"role"`
}

// GameStateData is the authoritative snapshot broadcast after every applied
// intent. The Hand view is tailored per recipient role before serialization.
type GameStateData struct {
	Phase         string           `json:"phase"`
	SubPhase      string           `json:"subPhase"`
	Turn          int              `json:"turn"`
	Hand          HandView         `json:"hand"`
	Nominations   []WireNomination `json:"nominations"`
	Built         []WireHex        `json:"built"`
	Scores        WireScores       `json:"scores"`
	ControlMode   string           `json:"controlMode"`
	LastPlacement *WirePlacement   `json:"lastPlacement,omitempty"`
	History       []WireTurnRecord `json:"history,omitempty"`
	MayorHitMine  bool             `json:"mayorHitMine"`
	CityComplete  bool             `json:"cityComplete"`

	// Advisor-only: the face-up reality of the frontier and the advisor's
	// own remaining claim tray. The Mayor's snapshot never carries these.
	FrontierReality []WireRealityTile `json:"frontierReality,omitempty"`
	Tray            []WireCard        `json:"tray,omitempty"`
}
