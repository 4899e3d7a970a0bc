package protocol

import (
	"github.com/cognivore/collapsization-sub001/internal/game"
)

// Validators are pure structural checks on wire shapes: field ranges, array
// lengths, enum membership. They never panic and never touch game state;
// the caller decides what to do with a false.

// ValidCard reports whether a wire card has a known suit and rank label.
func ValidCard(w WireCard) bool {
	_, ok := CardFromWire(w)
	return ok
}

// ValidHex reports whether a wire coordinate is on the cube lattice.
func ValidHex(w WireHex) bool {
	_, ok := HexFromWire(w)
	return ok
}

// ValidRole reports whether a string names a game role.
func ValidRole(s string) bool {
	_, ok := game.ParseRole(s)
	return ok
}

// ValidNomination reports whether a wire nomination is structurally sound:
// lattice hex, well-formed claim, advisor role (the Mayor cannot nominate).
func ValidNomination(w WireNomination) bool {
	_, ok := NominationFromWire(w)
	return ok
}

// ValidPlacement reports whether a wire placement is structurally sound.
func ValidPlacement(w WirePlacement) bool {
	_, ok := PlacementFromWire(w)
	return ok
}

// ValidHandView reports whether a hand view is internally consistent:
// revealed indices in range and no more cards than the hand holds.
func ValidHandView(v HandView) bool {
	if v.Size < 0 || len(v.Cards) > v.Size || len(v.Revealed) > v.Size {
		return false
	}
	for _, idx := range v.Revealed {
		if idx < 0 || idx >= v.Size {
			return false
		}
	}
	for _, c := range v.Cards {
		if !ValidCard(c) {
			return false
		}
	}
	return true
}

// ValidCardIndex reports whether an intent's card index can address a hand
// of the given size.
func ValidCardIndex(idx, handSize int) bool {
	return idx >= 0 && idx < handSize
}
