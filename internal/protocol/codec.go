package protocol

import (
	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/game"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

// Wire shapes use only primitive scalars, sequences and string-keyed maps;
// nothing engine-specific crosses the boundary. Every To/From pair is a
// lossless round trip for well-formed input.

// WireHex is a cube coordinate as a 3-element integer sequence [q, r, s].
type WireHex [3]int

// HexToWire converts a cube coordinate to its wire shape.
func HexToWire(h hex.Cube) WireHex {
	return WireHex{h.Q, h.R, h.S}
}

// HexFromWire converts a wire coordinate back. The boolean is false when
// the triple is off the lattice.
func HexFromWire(w WireHex) (hex.Cube, bool) {
	h := hex.Cube{Q: w[0], R: w[1], S: w[2]}
	return h, h.Valid()
}

// WireCard carries a card as an int suit and a rank label; the numeric
// value is derivable and not transmitted.
type WireCard struct {
	Suit int    `json:"suit"`
	Rank string `json:"rank"`
}

// CardToWire converts a card to its wire shape.
func CardToWire(c deck.Card) WireCard {
	return WireCard{Suit: int(c.Suit), Rank: c.Rank.String()}
}

// CardFromWire converts a wire card back. The boolean is false for an
// unknown suit or rank label.
func CardFromWire(w WireCard) (deck.Card, bool) {
	suit := deck.Suit(w.Suit)
	if !suit.Valid() {
		return deck.Card{}, false
	}
	rank, ok := deck.RankFromLabel(w.Rank)
	if !ok {
		return deck.Card{}, false
	}
	return deck.NewCard(suit, rank), true
}

// WireNomination is one advisor commit. Nominations travel as an ordered
// sequence, never a map: order and duplicate hexes are meaningful.
type WireNomination struct {
	Hex     WireHex  `json:"hex"`
	Claim   WireCard `json:"claim"`
	Advisor string   `json:"advisor"`
}

// NominationToWire converts a nomination to its wire shape.
func NominationToWire(n game.Nomination) WireNomination {
	return WireNomination{
		Hex:     HexToWire(n.Hex),
		Claim:   CardToWire(n.Claim),
		Advisor: n.Advisor.String(),
	}
}

// NominationFromWire converts a wire nomination back.
func NominationFromWire(w WireNomination) (game.Nomination, bool) {
	h, ok := HexFromWire(w.Hex)
	if !ok {
		return game.Nomination{}, false
	}
	claim, ok := CardFromWire(w.Claim)
	if !ok {
		return game.Nomination{}, false
	}
	role, ok := game.ParseRole(w.Advisor)
	if !ok || !role.IsAdvisor() {
		return game.Nomination{}, false
	}
	return game.Nomination{Hex: h, Claim: claim, Advisor: role}, true
}

// NominationsToWire converts a nomination sequence in order.
func NominationsToWire(noms []game.Nomination) []WireNomination {
	out := make([]WireNomination, len(noms))
	for i, n := range noms {
		out[i] = NominationToWire(n)
	}
	return out
}

// NominationsFromWire converts a wire sequence back, rejecting the whole
// batch on the first malformed record.
func NominationsFromWire(ws []WireNomination) ([]game.Nomination, bool) {
	out := make([]game.Nomination, len(ws))
	for i, w := range ws {
		n, ok := NominationFromWire(w)
		if !ok {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}

// BuiltToWire converts the built-hex sequence in placement order.
func BuiltToWire(built []hex.Cube) []WireHex {
	out := make([]WireHex, len(built))
	for i, h := range built {
		out[i] = HexToWire(h)
	}
	return out
}

// BuiltFromWire converts a wire built-hex sequence back.
func BuiltFromWire(ws []WireHex) ([]hex.Cube, bool) {
	out := make([]hex.Cube, len(ws))
	for i, w := range ws {
		h, ok := HexFromWire(w)
		if !ok {
			return nil, false
		}
		out[i] = h
	}
	return out, true
}

// WirePlacement records one completed PLACE action.
type WirePlacement struct {
	Turn         int      `json:"turn"`
	Card         WireCard `json:"card"`
	Hex          WireHex  `json:"hex"`
	WinningRole  string   `json:"winningRole"`
	WinningClaim WireCard `json:"winningClaim"`
}

// PlacementToWire converts a placement to its wire shape.
func PlacementToWire(p game.Placement) WirePlacement {
	return WirePlacement{
		Turn:         p.Turn,
		Card:         CardToWire(p.Card),
		Hex:          HexToWire(p.Hex),
		WinningRole:  p.WinningRole.String(),
		WinningClaim: CardToWire(p.WinningClaim),
	}
}

// PlacementFromWire converts a wire placement back.
func PlacementFromWire(w WirePlacement) (game.Placement, bool) {
	card, ok := CardFromWire(w.Card)
	if !ok {
		return game.Placement{}, false
	}
	h, ok := HexFromWire(w.Hex)
	if !ok {
		return game.Placement{}, false
	}
	role, ok := game.ParseRole(w.WinningRole)
	if !ok {
		return game.Placement{}, false
	}
	claim, ok := CardFromWire(w.WinningClaim)
	if !ok {
		return game.Placement{}, false
	}
	return game.Placement{
		Turn:         w.Turn,
		Card:         card,
		Hex:          h,
		WinningRole:  role,
		WinningClaim: claim,
	}, true
}

// WireScores is the score ledger on the wire.
type WireScores struct {
	Mayor    int `json:"mayor"`
	Industry int `json:"industry"`
	Urbanist int `json:"urbanist"`
}

// ScoresToWire converts the ledger to its wire shape.
func ScoresToWire(s game.Scores) WireScores {
	return WireScores{Mayor: s.Mayor, Industry: s.Industry, Urbanist: s.Urbanist}
}

// ScoresFromWire converts a wire ledger back.
func ScoresFromWire(w WireScores) game.Scores {
	return game.Scores{Mayor: w.Mayor, Industry: w.Industry, Urbanist: w.Urbanist}
}

// WireTurnRecord is one turn-history entry.
type WireTurnRecord struct {
	Turn        int              `json:"turn"`
	Revealed    []int            `json:"revealed"`
	ControlMode string           `json:"controlMode"`
	Nominations []WireNomination `json:"nominations"`
	Placement   WirePlacement    `json:"placement"`
	Reality     WireCard         `json:"reality"`
	Delta       WireScores       `json:"delta"`
}

// TurnRecordToWire converts a history entry to its wire shape.
func TurnRecordToWire(r game.TurnRecord) WireTurnRecord {
	return WireTurnRecord{
		Turn:        r.Turn,
		Revealed:    r.Revealed,
		ControlMode: r.ControlMode.String(),
		Nominations: NominationsToWire(r.Nominations),
		Placement:   PlacementToWire(r.Placement),
		Reality:     CardToWire(r.Reality),
		Delta: WireScores{
			Mayor:    r.ScoreDelta.Mayor,
			Industry: r.ScoreDelta.Industry,
			Urbanist: r.ScoreDelta.Urbanist,
		},
	}
}

// HistoryToWire converts a full turn history in order.
func HistoryToWire(history []game.TurnRecord) []WireTurnRecord {
	out := make([]WireTurnRecord, len(history))
	for i, r := range history {
		out[i] = TurnRecordToWire(r)
	}
	return out
}

// HandView is the recipient-tailored view of the Mayor's hand. The Mayor
// sees every card; an advisor sees only the revealed ones, in revealed-index
// order. Redaction happens here, before serialization, never client-side.
type HandView struct {
	Size     int        `json:"size"`
	Revealed []int      `json:"revealed"`
	Cards    []WireCard `json:"cards"`
}

// WireRealityTile pairs a frontier hex with its face-up reality card.
// Advisors receive these; the Mayor never does.
type WireRealityTile struct {
	Hex  WireHex  `json:"hex"`
	Card WireCard `json:"card"`
}

// TrayToWire converts an advisor's remaining claim indices to wire cards.
// Unknown indices are skipped.
func TrayToWire(indices []int) []WireCard {
	out := make([]WireCard, 0, len(indices))
	for _, idx := range indices {
		if c, ok := deck.CardAt(idx); ok {
			out = append(out, CardToWire(c))
		}
	}
	return out
}

// HandViewFor builds the hand view a given role may see.
func HandViewFor(role game.Role, hand []deck.Card, revealed []int) HandView {
	view := HandView{
		Size:     len(hand),
		Revealed: append([]int(nil), revealed...),
	}
	if role == game.RoleMayor {
		view.Cards = make([]WireCard, len(hand))
		for i, c := range hand {
			view.Cards[i] = CardToWire(c)
		}
		return view
	}
	for _, idx := range revealed {
		if idx >= 0 && idx < len(hand) {
			view.Cards = append(view.Cards, CardToWire(hand[idx]))
		}
	}
	return view
}
