package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/game"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

func TestHexRoundTrip(t *testing.T) {
	cubes := []hex.Cube{
		hex.Origin,
		{Q: 1, R: -1, S: 0},
		{Q: -3, R: 1, S: 2},
	}
	for _, c := range cubes {
		got, ok := HexFromWire(HexToWire(c))
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
}

func TestHexFromWireRejectsOffLattice(t *testing.T) {
	_, ok := HexFromWire(WireHex{1, 1, 1})
	assert.False(t, ok)
}

func TestCardRoundTrip(t *testing.T) {
	for _, c := range deck.Universe() {
		got, ok := CardFromWire(CardToWire(c))
		require.True(t, ok, "card %s", c)
		assert.Equal(t, c, got)
		assert.Equal(t, c.Value(), got.Value())
	}
}

func TestCardWirePreservesHouseOrdering(t *testing.T) {
	queen, ok := CardFromWire(WireCard{Suit: int(deck.Hearts), Rank: "Q"})
	require.True(t, ok)
	king, ok := CardFromWire(WireCard{Suit: int(deck.Hearts), Rank: "K"})
	require.True(t, ok)
	assert.Greater(t, queen.Value(), king.Value())
}

func TestCardFromWireRejectsMalformed(t *testing.T) {
	cases := []WireCard{
		{Suit: 3, Rank: "2"}, // clubs don't exist here
		{Suit: -1, Rank: "A"},
		{Suit: 0, Rank: "1"},
		{Suit: 0, Rank: "queen"},
		{Suit: 0, Rank: ""},
	}
	for _, w := range cases {
		_, ok := CardFromWire(w)
		assert.False(t, ok, "wire card %+v should be rejected", w)
	}
}

func TestNominationRoundTrip(t *testing.T) {
	noms := []game.Nomination{
		{
			Hex:     hex.Cube{Q: 1, R: -1, S: 0},
			Claim:   deck.NewCard(deck.Diamonds, deck.Queen),
			Advisor: game.RoleIndustry,
		},
		{
			// Same hex again: duplicates across advisors are legal and must
			// survive the trip with order intact.
			Hex:     hex.Cube{Q: 1, R: -1, S: 0},
			Claim:   deck.NewCard(deck.Hearts, deck.Two),
			Advisor: game.RoleUrbanist,
		},
	}
	got, ok := NominationsFromWire(NominationsToWire(noms))
	require.True(t, ok)
	assert.Equal(t, noms, got)
}

func TestNominationFromWireRejectsMayor(t *testing.T) {
	w := WireNomination{
		Hex:     WireHex{0, 1, -1},
		Claim:   WireCard{Suit: 0, Rank: "5"},
		Advisor: "mayor",
	}
	_, ok := NominationFromWire(w)
	assert.False(t, ok)
	assert.False(t, ValidNomination(w))
}

func TestPlacementRoundTrip(t *testing.T) {
	p := game.Placement{
		Turn:         7,
		Card:         deck.NewCard(deck.Hearts, deck.Ten),
		Hex:          hex.Cube{Q: 2, R: -1, S: -1},
		WinningRole:  game.RoleUrbanist,
		WinningClaim: deck.NewCard(deck.Hearts, deck.Nine),
	}
	got, ok := PlacementFromWire(PlacementToWire(p))
	require.True(t, ok)
	assert.Equal(t, p, got)
	assert.True(t, ValidPlacement(PlacementToWire(p)))
}

func TestBuiltRoundTrip(t *testing.T) {
	built := []hex.Cube{
		hex.Origin,
		{Q: 1, R: 0, S: -1},
		{Q: 2, R: -1, S: -1},
	}
	got, ok := BuiltFromWire(BuiltToWire(built))
	require.True(t, ok)
	assert.Equal(t, built, got)
}

func TestTurnRecordWireSurvivesJSON(t *testing.T) {
	rec := game.TurnRecord{
		Turn:        3,
		Revealed:    []int{0, 2},
		ControlMode: game.ControlNone,
		Nominations: []game.Nomination{
			{
				Hex:     hex.Cube{Q: 0, R: 1, S: -1},
				Claim:   deck.NewCard(deck.Spades, deck.Ace),
				Advisor: game.RoleIndustry,
			},
		},
		Placement: game.Placement{
			Turn:         3,
			Card:         deck.NewCard(deck.Diamonds, deck.Four),
			Hex:          hex.Cube{Q: 0, R: 1, S: -1},
			WinningRole:  game.RoleIndustry,
			WinningClaim: deck.NewCard(deck.Spades, deck.Ace),
		},
		Reality:    deck.NewCard(deck.Diamonds, deck.Six),
		ScoreDelta: game.Delta{Mayor: 1, Industry: 1},
	}

	wire := TurnRecordToWire(rec)
	raw, err := json.Marshal(wire)
	require.NoError(t, err)

	var decoded WireTurnRecord
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, wire, decoded)
}

func TestHandViewRedaction(t *testing.T) {
	hand := []deck.Card{
		deck.NewCard(deck.Hearts, deck.Two),
		deck.NewCard(deck.Diamonds, deck.Queen),
		deck.NewCard(deck.Spades, deck.Seven),
		deck.NewCard(deck.Hearts, deck.Ace),
	}
	revealed := []int{1, 3}

	mayor := HandViewFor(game.RoleMayor, hand, revealed)
	require.Len(t, mayor.Cards, 4)
	assert.Equal(t, revealed, mayor.Revealed)
	assert.True(t, ValidHandView(mayor))

	advisor := HandViewFor(game.RoleIndustry, hand, revealed)
	assert.Equal(t, 4, advisor.Size)
	assert.Equal(t, revealed, advisor.Revealed)
	require.Len(t, advisor.Cards, 2)
	assert.Equal(t, CardToWire(hand[1]), advisor.Cards[0])
	assert.Equal(t, CardToWire(hand[3]), advisor.Cards[1])
	assert.True(t, ValidHandView(advisor))
}

func TestValidHandViewRejectsInconsistent(t *testing.T) {
	assert.False(t, ValidHandView(HandView{Size: 2, Revealed: []int{5}}))
	assert.False(t, ValidHandView(HandView{Size: 1, Cards: []WireCard{{Suit: 0, Rank: "2"}, {Suit: 0, Rank: "3"}}}))
	assert.False(t, ValidHandView(HandView{Size: 2, Cards: []WireCard{{Suit: 9, Rank: "2"}}}))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("mayor"))
	assert.True(t, ValidRole("industry"))
	assert.True(t, ValidRole("urbanist"))
	assert.False(t, ValidRole("dealer"))
	assert.False(t, ValidRole(""))
}

func TestMessageEnvelopeRoundTrip(t *testing.T) {
	msg, err := NewMessage(TypeCommitNomination, CommitNominationData{
		Hex:   WireHex{1, -1, 0},
		Claim: WireCard{Suit: int(deck.Diamonds), Rank: "10"},
	})
	require.NoError(t, err)
	msg.From = 42

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, TypeCommitNomination, decoded.Type)
	assert.Equal(t, PeerID(42), decoded.From)

	var data CommitNominationData
	require.NoError(t, decoded.Decode(&data))
	assert.Equal(t, WireHex{1, -1, 0}, data.Hex)
	assert.True(t, ValidCard(data.Claim))
}

func TestLobbyTypeRange(t *testing.T) {
	assert.Equal(t, MessageType(100), TypeCreateRoom)
	assert.Equal(t, MessageType(109), TypeRequestStart)
}
