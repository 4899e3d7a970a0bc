package game

import (
	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

// Delta is the score movement produced by a single placement.
type Delta struct {
	Mayor    int
	Industry int
	Urbanist int
	// HitMine is set when the placed tile's reality is a spade; the game
	// ends immediately after this placement.
	HitMine bool
}

func (d *Delta) add(role Role, n int) {
	switch role {
	case RoleMayor:
		d.Mayor += n
	case RoleIndustry:
		d.Industry += n
	case RoleUrbanist:
		d.Urbanist += n
	}
}

// Distance measures how far a card sits from a tile's reality: rank-value
// gap plus one for a suit mismatch.
func Distance(a, b deck.Card) int {
	diff := a.Value() - b.Value()
	if diff < 0 {
		diff = -diff
	}
	if a.Suit != b.Suit {
		diff++
	}
	return diff
}

// ScorePlacement computes the score movement for placing a card on a tile
// with the given reality, evaluating every claim made about that tile
// independently.
//
// An advisor whose claim suit matches the placed suit was trusted: +1
// regardless of reality. A called advisor (suits differ) gets +1 only when
// the claim suit matches reality. A spade reality is a mine: it ends the
// game, rewards an honest spade claim with +1 and punishes any other claim
// on that tile with -2. The Mayor scores +1 when the placed suit matches
// the tile's true suit (never on a mine).
func ScorePlacement(placed, reality deck.Card, noms []Nomination) Delta {
	var delta Delta
	mine := reality.Suit == deck.Spades
	delta.HitMine = mine

	for _, nom := range noms {
		claim := nom.Claim
		switch {
		case mine && claim.Suit == deck.Spades:
			delta.add(nom.Advisor, 1) // honest warning
		case mine:
			delta.add(nom.Advisor, -2) // lied about a mine
		case placed.Suit == claim.Suit:
			delta.add(nom.Advisor, 1) // Mayor trusted
		case claim.Suit == reality.Suit:
			delta.add(nom.Advisor, 1) // called, but honest
		default:
			// Bluff caught: called and wrong.
		}
	}

	if !mine && placed.Suit == reality.Suit {
		delta.Mayor++
	}
	return delta
}

// WinningNomination resolves which claim gets persisted as the built tile's
// annotation when both advisors nominated the same hex: the placed card's
// suit breaks the tie, Diamonds favoring Industry and Hearts favoring
// Urbanist. Scoring is unaffected; both claims are evaluated independently.
func WinningNomination(placed deck.Card, noms []Nomination) (Nomination, bool) {
	switch len(noms) {
	case 0:
		return Nomination{}, false
	case 1:
		return noms[0], true
	}

	var favored Role
	switch placed.Suit {
	case deck.Diamonds:
		favored = RoleIndustry
	case deck.Hearts:
		favored = RoleUrbanist
	default:
		return noms[0], true
	}
	for _, nom := range noms {
		if nom.Advisor == favored {
			return nom, true
		}
	}
	return noms[0], true
}

// deathRevealPenalties scores the rule-variant accountability sweep: when
// the Mayor dies on a mine, every other nominated tile is turned over and
// advisors pay for what it exposes. Lying about a mine costs -3, crying
// wolf about a safe tile costs -2.
func deathRevealPenalties(chosen hex.Cube, noms []Nomination, reality *RealityDealer) Delta {
	var delta Delta
	for _, nom := range noms {
		if nom.Hex == chosen {
			continue
		}
		tile := reality.Reveal(nom.Hex)
		switch {
		case tile.Suit == deck.Spades && nom.Claim.Suit != deck.Spades:
			delta.add(nom.Advisor, -3)
		case tile.Suit != deck.Spades && nom.Claim.Suit == deck.Spades:
			delta.add(nom.Advisor, -2)
		}
	}
	return delta
}
