package game

import (
	rand "math/rand/v2"

	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

// Rules holds the variant toggles for a session.
type Rules struct {
	// HandSize is the Mayor's hand size after every DRAW entry.
	HandSize int
	// RevealsPerTurn is how many hand cards the Mayor shows the advisors
	// before nominations open.
	RevealsPerTurn int
	// ControlEnabled turns on the optional CONTROL phase between DRAW and
	// NOMINATE.
	ControlEnabled bool
	// AllowVerify lets the Mayor spend a PLACE phase revealing one
	// nominated tile's reality instead of building.
	AllowVerify bool
	// DeathReveal turns over all other nominated tiles when the Mayor hits
	// a mine and penalizes the liars it exposes.
	DeathReveal bool
	// FacilitiesTarget ends the game once this many hearts AND diamonds
	// facilities stand (counted by reality suit). Zero disables the
	// endgame check.
	FacilitiesTarget int
}

// DefaultRules returns the baseline rule set.
func DefaultRules() Rules {
	return Rules{
		HandSize:         4,
		RevealsPerTurn:   2,
		FacilitiesTarget: 10,
	}
}

// Game is the authoritative state machine for one session. It is mutated
// only through its intent methods, all of which validate defensively and
// silently no-op on anything invalid: duplicate or late intents from a
// lagging peer must not corrupt state, and the next snapshot broadcast
// resolves the discrepancy. Each rejection bumps a diagnostic counter.
//
// Game is not safe for concurrent use; the owning session applies one
// intent at a time.
type Game struct {
	rules  Rules
	logger zerolog.Logger

	circ    *deck.Circulation
	reality *RealityDealer

	phase    Phase
	subPhase SubPhase
	turn     int

	hand     []deck.Card
	revealed []int

	built    []hex.Cube
	builtSet map[hex.Cube]bool
	fog      map[hex.Cube]bool // revealed (fog-cleared) hexes

	commits     map[Role][]Nomination
	nominations []Nomination
	trays       map[Role][]int

	control  controlState
	verified map[hex.Cube]bool

	scores       Scores
	facilities   map[deck.Suit]int
	mayorHitMine bool
	cityComplete bool

	lastPlacement *Placement
	history       []TurnRecord

	rejected map[string]int
}

// New creates a game in the LOBBY phase. The RNG drives both the Mayor's
// deck and the reality dealer's independent circulation; a fixed seed gives
// a fully reproducible session.
func New(rules Rules, rng *rand.Rand, logger zerolog.Logger) *Game {
	return &Game{
		rules:    rules,
		logger:   logger.With().Str("component", "game").Logger(),
		circ:     deck.NewCirculation(rng),
		reality:  NewRealityDealer(rng),
		phase:    PhaseLobby,
		builtSet: map[hex.Cube]bool{},
		fog:      map[hex.Cube]bool{},
		commits:  map[Role][]Nomination{},
		trays: map[Role][]int{
			RoleIndustry: fullTray(),
			RoleUrbanist: fullTray(),
		},
		verified:   map[hex.Cube]bool{},
		facilities: map[deck.Suit]int{},
		rejected:   map[string]int{},
	}
}

func fullTray() []int {
	tray := make([]int, deck.NumCards)
	for i := range tray {
		tray[i] = i
	}
	return tray
}

// Start leaves the lobby: the town center (always A♥) is built, its ring is
// revealed, and the first DRAW begins.
func (g *Game) Start() bool {
	if g.phase != PhaseLobby {
		return g.reject("wrong_phase")
	}
	g.reality.Assign(hex.Origin, deck.NewCard(deck.Hearts, deck.Ace))
	g.built = append(g.built, hex.Origin)
	g.builtSet[hex.Origin] = true
	g.facilities[deck.Hearts] = 1 // the center counts as a hearts facility
	g.revealAround(hex.Origin)
	g.enterDraw()
	g.logger.Info().Int("turn", g.turn).Msg("game started")
	return true
}

// enterDraw is the DRAW-phase entry action. Discarding the outgoing hand
// BEFORE drawing is what keeps the 39-card universe conserved.
func (g *Game) enterDraw() {
	g.circ.Discard(g.hand...)
	g.hand = g.circ.Draw(g.rules.HandSize)
	g.revealed = nil
	g.commits = map[Role][]Nomination{}
	g.nominations = nil
	g.control.reset()
	g.subPhase = SubPhaseIndustryCommit1
	g.phase = PhaseDraw
}

// Reveal shows one of the Mayor's hand cards to the advisors. After the
// configured number of reveals the turn moves on to CONTROL (if enabled)
// or straight to NOMINATE.
func (g *Game) Reveal(role Role, cardIdx int) bool {
	if g.phase != PhaseDraw {
		return g.reject("wrong_phase")
	}
	if role != RoleMayor {
		return g.reject("wrong_role")
	}
	if cardIdx < 0 || cardIdx >= len(g.hand) {
		return g.reject("bad_card")
	}
	for _, i := range g.revealed {
		if i == cardIdx {
			return g.reject("already_revealed")
		}
	}
	g.revealed = append(g.revealed, cardIdx)
	if len(g.revealed) >= g.rules.RevealsPerTurn {
		if g.rules.ControlEnabled {
			g.phase = PhaseControl
		} else {
			g.phase = PhaseNominate
		}
	}
	return true
}

// ChooseControl applies the Mayor's CONTROL-phase constraint and opens
// nominations.
func (g *Game) ChooseControl(role Role, choice ControlChoice) bool {
	if g.phase != PhaseControl {
		return g.reject("wrong_phase")
	}
	if role != RoleMayor {
		return g.reject("wrong_role")
	}
	switch choice.Mode {
	case ControlNone:
		g.control.reset()
	case ControlForceSuits:
		if choice.SuitConfig != SuitConfigUrbDiamondIndHeart && choice.SuitConfig != SuitConfigUrbHeartIndDiamond {
			return g.reject("bad_control")
		}
		g.control.mode = ControlForceSuits
		g.control.suitConfig = choice.SuitConfig
		g.control.forced = nil
	case ControlForceHexes:
		if !g.nominable(choice.IndustryHex) || !g.nominable(choice.UrbanistHex) {
			return g.reject("bad_control")
		}
		g.control.mode = ControlForceHexes
		g.control.forced = map[Role]hex.Cube{
			RoleIndustry: choice.IndustryHex,
			RoleUrbanist: choice.UrbanistHex,
		}
	default:
		return g.reject("bad_control")
	}
	g.phase = PhaseNominate
	return true
}

// nominable reports whether a hex can carry a nomination: on the lattice,
// not yet built, and adjacent to something built.
func (g *Game) nominable(h hex.Cube) bool {
	if !h.Valid() || g.builtSet[h] {
		return false
	}
	for _, n := range h.Neighbors() {
		if g.builtSet[n] {
			return true
		}
	}
	return false
}

// CommitNomination accepts one advisor commit in strict sub-phase order.
// The fourth accepted commit makes all nominations visible simultaneously
// and advances the turn to PLACE.
func (g *Game) CommitNomination(role Role, target hex.Cube, claim deck.Card) bool {
	if g.phase != PhaseNominate {
		return g.reject("wrong_phase")
	}
	expected, ok := g.subPhase.committer()
	if !ok {
		return g.reject("wrong_phase")
	}
	if role != expected {
		return g.reject("out_of_turn")
	}
	if !g.nominable(target) {
		return g.reject("bad_hex")
	}
	for _, prior := range g.commits[role] {
		if prior.Hex == target {
			return g.reject("duplicate_hex")
		}
	}
	claimIdx := claim.Index()
	if claimIdx < 0 {
		return g.reject("bad_claim")
	}
	if !g.trayHas(role, claimIdx) {
		return g.reject("claim_unavailable")
	}
	if g.subPhase.isFirstCommit() {
		if forced, ok := g.control.forcedHex(role); ok && forced != target {
			return g.reject("forced_hex")
		}
		if suit, ok := g.control.forcedSuit(role); ok && claim.Suit != suit {
			return g.reject("forced_suit")
		}
	}

	g.commits[role] = append(g.commits[role], Nomination{Hex: target, Claim: claim, Advisor: role})
	g.trayTake(role, claimIdx)
	g.subPhase = g.subPhase.next()

	if g.subPhase == SubPhasePlaceReady {
		// All four commits are in; nominations become visible at once.
		g.nominations = append(g.nominations, g.commits[RoleIndustry]...)
		g.nominations = append(g.nominations, g.commits[RoleUrbanist]...)
		g.phase = PhasePlace
	}
	return true
}

func (g *Game) trayHas(role Role, claimIdx int) bool {
	for _, idx := range g.trays[role] {
		if idx == claimIdx {
			return true
		}
	}
	return false
}

// trayTake removes a claim from the advisor's tray, refilling the tray once
// it empties (the advisors' own circulation).
func (g *Game) trayTake(role Role, claimIdx int) {
	tray := g.trays[role]
	for i, idx := range tray {
		if idx == claimIdx {
			g.trays[role] = append(tray[:i], tray[i+1:]...)
			break
		}
	}
	if len(g.trays[role]) == 0 {
		g.trays[role] = fullTray()
	}
}

// Place plays a held card onto a nominated, not-yet-built hex. It scores
// the placement, persists the winning claim, expands the fog and either
// ends the game (mine or completed city) or starts the next turn.
func (g *Game) Place(role Role, cardIdx int, target hex.Cube) bool {
	if g.phase != PhasePlace {
		return g.reject("wrong_phase")
	}
	if role != RoleMayor {
		return g.reject("wrong_role")
	}
	if cardIdx < 0 || cardIdx >= len(g.hand) {
		return g.reject("bad_card")
	}
	if g.builtSet[target] {
		return g.reject("built_hex")
	}
	noms := nominationsFor(g.nominations, target)
	if len(noms) == 0 {
		return g.reject("not_nominated")
	}

	placed := g.hand[cardIdx]
	g.hand = append(g.hand[:cardIdx], g.hand[cardIdx+1:]...)
	g.circ.Discard(placed)

	g.built = append(g.built, target)
	g.builtSet[target] = true
	reality := g.reality.Reveal(target)
	g.revealAround(target)

	winning, _ := WinningNomination(placed, noms)
	delta := ScorePlacement(placed, reality, noms)
	if delta.HitMine && g.rules.DeathReveal {
		sweep := deathRevealPenalties(target, g.nominations, g.reality)
		delta.Mayor += sweep.Mayor
		delta.Industry += sweep.Industry
		delta.Urbanist += sweep.Urbanist
	}
	g.scores.apply(delta)

	placement := Placement{
		Turn:         g.turn,
		Card:         placed,
		Hex:          target,
		WinningRole:  winning.Advisor,
		WinningClaim: winning.Claim,
	}
	g.lastPlacement = &placement
	g.history = append(g.history, TurnRecord{
		Turn:        g.turn,
		Revealed:    append([]int(nil), g.revealed...),
		ControlMode: g.control.mode,
		Nominations: append([]Nomination(nil), g.nominations...),
		Placement:   placement,
		Reality:     reality,
		ScoreDelta:  delta,
	})

	if delta.HitMine {
		g.mayorHitMine = true
		g.phase = PhaseGameOver
		g.logger.Info().Int("turn", g.turn).Str("hex", target.String()).Msg("mayor hit a mine")
		return true
	}

	g.facilities[reality.Suit]++
	if t := g.rules.FacilitiesTarget; t > 0 &&
		g.facilities[deck.Hearts] >= t && g.facilities[deck.Diamonds] >= t {
		g.cityComplete = true
		g.phase = PhaseGameOver
		g.logger.Info().Int("turn", g.turn).Msg("city complete")
		return true
	}

	g.turn++
	g.enterDraw()
	return true
}

// Verify is the rule-variant deduction tool: the Mayor forfeits the build
// to learn one nominated tile's reality. The turn ends without a placement.
func (g *Game) Verify(role Role, target hex.Cube) bool {
	if !g.rules.AllowVerify {
		return g.reject("disabled")
	}
	if g.phase != PhasePlace {
		return g.reject("wrong_phase")
	}
	if role != RoleMayor {
		return g.reject("wrong_role")
	}
	if len(nominationsFor(g.nominations, target)) == 0 {
		return g.reject("not_nominated")
	}
	if g.verified[target] {
		return g.reject("already_verified")
	}
	g.reality.Reveal(target)
	g.verified[target] = true
	g.turn++
	g.enterDraw()
	return true
}

// revealAround clears fog on a hex and its six neighbors, assigning reality
// to any tile seen for the first time.
func (g *Game) revealAround(center hex.Cube) {
	g.fog[center] = true
	g.reality.Reveal(center)
	for _, n := range center.Neighbors() {
		g.fog[n] = true
		g.reality.Reveal(n)
	}
}

func (g *Game) reject(reason string) bool {
	g.rejected[reason]++
	g.logger.Debug().Str("reason", reason).Str("phase", g.phase.String()).Msg("intent rejected")
	return false
}

// Accessors. Slices and maps are copied; callers never see internal state.

// Phase returns the current coarse phase.
func (g *Game) Phase() Phase { return g.phase }

// SubPhase returns the NOMINATE sequencing step.
func (g *Game) SubPhase() SubPhase { return g.subPhase }

// Turn returns the zero-based turn index.
func (g *Game) Turn() int { return g.turn }

// Hand returns the Mayor's current hand.
func (g *Game) Hand() []deck.Card { return append([]deck.Card(nil), g.hand...) }

// RevealedIndices returns the hand indices shown to the advisors this turn.
func (g *Game) RevealedIndices() []int { return append([]int(nil), g.revealed...) }

// Nominations returns the visible nominations (empty until the 4th commit).
func (g *Game) Nominations() []Nomination { return append([]Nomination(nil), g.nominations...) }

// CommitCount returns how many commits an advisor has made this turn.
func (g *Game) CommitCount(role Role) int { return len(g.commits[role]) }

// Built returns the built hexes in placement order.
func (g *Game) Built() []hex.Cube { return append([]hex.Cube(nil), g.built...) }

// IsBuilt reports whether a hex carries a facility.
func (g *Game) IsBuilt(h hex.Cube) bool { return g.builtSet[h] }

// Frontier returns the nominable ring: revealed hexes adjacent to the city,
// in deterministic build-then-direction order.
func (g *Game) Frontier() []hex.Cube {
	var out []hex.Cube
	seen := map[hex.Cube]bool{}
	for _, b := range g.built {
		for _, n := range b.Neighbors() {
			if !g.builtSet[n] && !seen[n] {
				out = append(out, n)
				seen[n] = true
			}
		}
	}
	return out
}

// Tray returns the claim cards (flat indices) an advisor may still use.
func (g *Game) Tray(role Role) []int { return append([]int(nil), g.trays[role]...) }

// Scores returns the current score ledger.
func (g *Game) Scores() Scores { return g.scores }

// ControlMode returns this turn's active constraint mode.
func (g *Game) ControlMode() ControlMode { return g.control.mode }

// ForcedHex returns the hex an advisor's first nomination must target under
// the active constraint, if any.
func (g *Game) ForcedHex(role Role) (hex.Cube, bool) { return g.control.forcedHex(role) }

// ForcedSuit returns the suit an advisor's first claim must use under the
// active constraint, if any.
func (g *Game) ForcedSuit(role Role) (deck.Suit, bool) { return g.control.forcedSuit(role) }

// RealityAt returns a tile's reality if it has been assigned.
func (g *Game) RealityAt(h hex.Cube) (deck.Card, bool) { return g.reality.At(h) }

// VerifiedHexes returns the tiles the Mayor has verified.
func (g *Game) VerifiedHexes() []hex.Cube {
	var out []hex.Cube
	for h := range g.verified {
		out = append(out, h)
	}
	return out
}

// MayorHitMine reports whether the game ended on a mine.
func (g *Game) MayorHitMine() bool { return g.mayorHitMine }

// CityComplete reports whether the game ended by finishing the city.
func (g *Game) CityComplete() bool { return g.cityComplete }

// Over reports whether the game reached GAME_OVER.
func (g *Game) Over() bool { return g.phase == PhaseGameOver }

// Facilities returns how many facilities stand per reality suit.
func (g *Game) Facilities(s deck.Suit) int { return g.facilities[s] }

// LastPlacement returns the most recent placement, if any.
func (g *Game) LastPlacement() (Placement, bool) {
	if g.lastPlacement == nil {
		return Placement{}, false
	}
	return *g.lastPlacement, true
}

// History returns the full turn history.
func (g *Game) History() []TurnRecord { return append([]TurnRecord(nil), g.history...) }

// RejectedIntents returns the diagnostic counters of silently dropped
// intents, keyed by reason.
func (g *Game) RejectedIntents() map[string]int {
	out := make(map[string]int, len(g.rejected))
	for k, v := range g.rejected {
		out[k] = v
	}
	return out
}

// Conserved reports whether the Mayor's 39-card universe is intact across
// deck, discard and hand.
func (g *Game) Conserved() bool {
	return g.circ.Conserved() && g.circ.Outstanding() == len(g.hand)
}

// DeckSize returns the Mayor's draw-pile size.
func (g *Game) DeckSize() int { return g.circ.DeckSize() }

// DiscardSize returns the Mayor's discard-pile size.
func (g *Game) DiscardSize() int { return g.circ.DiscardSize() }
