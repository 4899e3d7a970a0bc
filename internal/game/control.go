package game

import (
	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

// ControlMode is the Mayor's constraint choice for the coming NOMINATE
// phase. The CONTROL phase itself is a rule-variant toggle; with it
// disabled every turn behaves as ControlNone.
type ControlMode int

const (
	ControlNone ControlMode = iota
	ControlForceSuits
	ControlForceHexes
)

func (m ControlMode) String() string {
	switch m {
	case ControlNone:
		return "none"
	case ControlForceSuits:
		return "force_suits"
	case ControlForceHexes:
		return "force_hexes"
	default:
		return "unknown"
	}
}

// SuitConfig picks which suit each advisor is restricted to under
// ControlForceSuits.
type SuitConfig int

const (
	// SuitConfigUrbDiamondIndHeart forces Urbanist→Diamonds, Industry→Hearts.
	SuitConfigUrbDiamondIndHeart SuitConfig = iota
	// SuitConfigUrbHeartIndDiamond forces Urbanist→Hearts, Industry→Diamonds.
	SuitConfigUrbHeartIndDiamond
)

// ControlChoice carries the Mayor's CONTROL-phase submission.
type ControlChoice struct {
	Mode       ControlMode
	SuitConfig SuitConfig // meaningful for ControlForceSuits
	// Forced first-nomination targets, meaningful for ControlForceHexes.
	IndustryHex hex.Cube
	UrbanistHex hex.Cube
}

// controlState is the per-turn record of the active constraint.
type controlState struct {
	mode       ControlMode
	suitConfig SuitConfig
	forced     map[Role]hex.Cube
}

func (c *controlState) reset() {
	c.mode = ControlNone
	c.forced = nil
}

// forcedSuit returns the suit an advisor's first claim must use, if any.
func (c *controlState) forcedSuit(role Role) (deck.Suit, bool) {
	if c.mode != ControlForceSuits {
		return 0, false
	}
	switch c.suitConfig {
	case SuitConfigUrbDiamondIndHeart:
		if role == RoleUrbanist {
			return deck.Diamonds, true
		}
		return deck.Hearts, true
	case SuitConfigUrbHeartIndDiamond:
		if role == RoleUrbanist {
			return deck.Hearts, true
		}
		return deck.Diamonds, true
	}
	return 0, false
}

// forcedHex returns the hex an advisor's first nomination must target, if
// any.
func (c *controlState) forcedHex(role Role) (hex.Cube, bool) {
	if c.mode != ControlForceHexes || c.forced == nil {
		return hex.Cube{}, false
	}
	h, ok := c.forced[role]
	return h, ok
}
