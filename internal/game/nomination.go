package game

import (
	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

// Nomination is one advisor's covert proposal: a frontier hex plus a claim
// about what sits there. The claim need not match the tile's reality.
type Nomination struct {
	Hex     hex.Cube
	Claim   deck.Card
	Advisor Role
}

// Placement records one completed Mayor action. Exactly one exists per
// completed PLACE phase; the latest is retained for clients and all of them
// fold into the turn history.
type Placement struct {
	Turn         int
	Card         deck.Card
	Hex          hex.Cube
	WinningRole  Role
	WinningClaim deck.Card
}

// TurnRecord is one entry of the full-game history advisors and the Mayor
// can replay for deduction.
type TurnRecord struct {
	Turn        int
	Revealed    []int
	ControlMode ControlMode
	Nominations []Nomination
	Placement   Placement
	Reality     deck.Card
	ScoreDelta  Delta
}

// Scores is the monotonic score ledger. Only the scoring engine moves it,
// and only the mine-penalty rule ever moves it down.
type Scores struct {
	Mayor    int
	Industry int
	Urbanist int
}

func (s *Scores) apply(d Delta) {
	s.Mayor += d.Mayor
	s.Industry += d.Industry
	s.Urbanist += d.Urbanist
}

// nominationsFor filters the visible nominations down to one hex.
func nominationsFor(noms []Nomination, h hex.Cube) []Nomination {
	var out []Nomination
	for _, n := range noms {
		if n.Hex == h {
			out = append(out, n)
		}
	}
	return out
}
