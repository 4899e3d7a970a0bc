package game

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/hex"
	"github.com/cognivore/collapsization-sub001/internal/randutil"
)

func newTestGame(t *testing.T, rules Rules, seed int64) *Game {
	t.Helper()
	g := New(rules, randutil.New(seed), zerolog.Nop())
	if !g.Start() {
		t.Fatal("Start should succeed from the lobby")
	}
	return g
}

// assignSafeBoard pins every tile within the given radius to a hearts
// reality before the game starts, so multi-turn tests never trip a mine.
func assignSafeBoard(g *Game, radius int) {
	for q := -radius; q <= radius; q++ {
		for r := -radius; r <= radius; r++ {
			c := hex.Cube{Q: q, R: r, S: -q - r}
			if hex.Distance(hex.Origin, c) <= radius {
				g.reality.Assign(c, deck.NewCard(deck.Hearts, deck.Five))
			}
		}
	}
}

func revealTwo(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i < 2; i++ {
		if !g.Reveal(RoleMayor, i) {
			t.Fatalf("reveal %d should be accepted", i)
		}
	}
}

// commitFour walks the full nomination sequence over distinct frontier
// hexes. Claims come from different tray cards each turn so no advisor
// trips over an already-spent claim.
func commitFour(t *testing.T, g *Game) {
	t.Helper()
	frontier := g.Frontier()
	if len(frontier) < 4 {
		t.Fatalf("frontier too small: %d", len(frontier))
	}
	order := []Role{RoleIndustry, RoleIndustry, RoleUrbanist, RoleUrbanist}
	for i, role := range order {
		claim, _ := deck.CardAt((g.Turn()*2 + i%2) % deck.NumCards)
		if !g.CommitNomination(role, frontier[i], claim) {
			t.Fatalf("commit %d by %s should be accepted", i, role)
		}
	}
}

func TestStartDealsHandAndFrontier(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)

	if g.Phase() != PhaseDraw {
		t.Errorf("phase = %s, want draw", g.Phase())
	}
	if len(g.Hand()) != 4 {
		t.Errorf("hand size = %d, want 4", len(g.Hand()))
	}
	if !g.Conserved() {
		t.Error("card universe not conserved after start")
	}
	if !g.IsBuilt(hex.Origin) {
		t.Error("town center should be built")
	}
	if got := len(g.Frontier()); got != 6 {
		t.Errorf("initial frontier = %d hexes, want 6", got)
	}
	if center, ok := g.RealityAt(hex.Origin); !ok || center != deck.NewCard(deck.Hearts, deck.Ace) {
		t.Errorf("town center reality = %v, want A♥", center)
	}
	for _, h := range g.Frontier() {
		if _, ok := g.RealityAt(h); !ok {
			t.Errorf("frontier hex %s has no reality", h)
		}
	}
}

func TestRevealSequencing(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)

	if g.Reveal(RoleIndustry, 0) {
		t.Error("advisor reveal should be rejected")
	}
	if !g.Reveal(RoleMayor, 1) {
		t.Fatal("first reveal should be accepted")
	}
	if g.Reveal(RoleMayor, 1) {
		t.Error("revealing the same card twice should be rejected")
	}
	if g.Phase() != PhaseDraw {
		t.Errorf("phase = %s, want draw after one reveal", g.Phase())
	}
	if !g.Reveal(RoleMayor, 3) {
		t.Fatal("second reveal should be accepted")
	}
	if g.Phase() != PhaseNominate {
		t.Errorf("phase = %s, want nominate after two reveals", g.Phase())
	}
	if got := g.RevealedIndices(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("revealed indices = %v, want [1 3]", got)
	}
}

func TestSubPhaseSequencing(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	revealTwo(t, g)
	frontier := g.Frontier()
	claim := deck.NewCard(deck.Hearts, deck.Two)

	if g.SubPhase() != SubPhaseIndustryCommit1 {
		t.Fatalf("sub-phase = %s, want industry_commit_1", g.SubPhase())
	}
	// Urbanist cannot jump the queue.
	if g.CommitNomination(RoleUrbanist, frontier[0], claim) {
		t.Error("urbanist commit during industry_commit_1 should be rejected")
	}
	// The Mayor certainly cannot commit.
	if g.CommitNomination(RoleMayor, frontier[0], claim) {
		t.Error("mayor commit should be rejected")
	}
	if !g.CommitNomination(RoleIndustry, frontier[0], claim) {
		t.Fatal("industry commit should be accepted")
	}
	if g.SubPhase() != SubPhaseIndustryCommit2 {
		t.Errorf("sub-phase = %s, want industry_commit_2", g.SubPhase())
	}
	if len(g.Nominations()) != 0 {
		t.Error("nominations must stay hidden until the fourth commit")
	}

	rest := []struct {
		role Role
		hex  hex.Cube
	}{
		{RoleIndustry, frontier[1]},
		{RoleUrbanist, frontier[2]},
		{RoleUrbanist, frontier[3]},
	}
	claims := []deck.Card{
		deck.NewCard(deck.Diamonds, deck.Three),
		deck.NewCard(deck.Hearts, deck.Four),
		deck.NewCard(deck.Spades, deck.Five),
	}
	for i, step := range rest {
		if !g.CommitNomination(step.role, step.hex, claims[i]) {
			t.Fatalf("commit %d should be accepted", i+1)
		}
	}

	if g.Phase() != PhasePlace {
		t.Errorf("phase = %s, want place after four commits", g.Phase())
	}
	if got := len(g.Nominations()); got != 4 {
		t.Errorf("visible nominations = %d, want 4", got)
	}
}

func TestDuplicateHexRejected(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	revealTwo(t, g)
	frontier := g.Frontier()

	if !g.CommitNomination(RoleIndustry, frontier[0], deck.NewCard(deck.Hearts, deck.Two)) {
		t.Fatal("first commit should be accepted")
	}
	if g.CommitNomination(RoleIndustry, frontier[0], deck.NewCard(deck.Diamonds, deck.Nine)) {
		t.Error("re-nominating the same hex should be rejected")
	}
	if got := g.CommitCount(RoleIndustry); got != 1 {
		t.Errorf("industry commits = %d, want 1", got)
	}
}

func TestClaimTrayExhaustion(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	revealTwo(t, g)
	frontier := g.Frontier()
	claim := deck.NewCard(deck.Hearts, deck.Two)

	if !g.CommitNomination(RoleIndustry, frontier[0], claim) {
		t.Fatal("first commit should be accepted")
	}
	// The claim card left Industry's tray with the first commit.
	if g.CommitNomination(RoleIndustry, frontier[1], claim) {
		t.Error("reusing a spent claim card should be rejected")
	}
	if !g.CommitNomination(RoleIndustry, frontier[1], deck.NewCard(deck.Hearts, deck.Three)) {
		t.Error("a fresh claim should be accepted")
	}
	// Urbanist's tray is untouched by Industry's spend.
	if !g.CommitNomination(RoleUrbanist, frontier[2], claim) {
		t.Error("urbanist should still hold the card industry spent")
	}
}

func TestInvalidNominationTargets(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	revealTwo(t, g)
	claim := deck.NewCard(deck.Hearts, deck.Two)

	if g.CommitNomination(RoleIndustry, hex.Origin, claim) {
		t.Error("nominating a built hex should be rejected")
	}
	if g.CommitNomination(RoleIndustry, hex.Cube{Q: 5, R: -5, S: 0}, claim) {
		t.Error("nominating a hex with no built neighbor should be rejected")
	}
	if g.CommitNomination(RoleIndustry, hex.Cube{Q: 1, R: 1, S: 1}, claim) {
		t.Error("nominating an off-lattice coordinate should be rejected")
	}
	if got := g.RejectedIntents()["bad_hex"]; got != 3 {
		t.Errorf("bad_hex counter = %d, want 3", got)
	}
}

func TestPlaceAdvancesTurn(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	assignSafeBoard(g, 3)
	revealTwo(t, g)
	commitFour(t, g)

	target := g.Nominations()[0].Hex
	if g.Place(RoleUrbanist, 0, target) {
		t.Error("advisor place should be rejected")
	}
	if g.Place(RoleMayor, 9, target) {
		t.Error("out-of-hand card index should be rejected")
	}
	if g.Place(RoleMayor, 0, hex.Cube{Q: 4, R: -4, S: 0}) {
		t.Error("placing on an un-nominated hex should be rejected")
	}

	if !g.Place(RoleMayor, 0, target) {
		t.Fatal("valid placement should be accepted")
	}
	if g.Turn() != 1 {
		t.Errorf("turn = %d, want 1", g.Turn())
	}
	if g.Phase() != PhaseDraw {
		t.Errorf("phase = %s, want draw", g.Phase())
	}
	if len(g.Hand()) != 4 {
		t.Errorf("hand size = %d, want 4 after new draw", len(g.Hand()))
	}
	if !g.IsBuilt(target) {
		t.Error("placed hex should be built")
	}
	if !g.Conserved() {
		t.Error("card universe not conserved after placement")
	}
	if placement, ok := g.LastPlacement(); !ok || placement.Hex != target || placement.Turn != 0 {
		t.Errorf("last placement = %+v (ok=%v)", placement, ok)
	}
	if len(g.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(g.History()))
	}
	if len(g.Nominations()) != 0 {
		t.Error("nominations should be cleared on the next draw")
	}
}

func TestMineEndsGame(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	revealTwo(t, g)

	frontier := g.Frontier()
	mineHex := frontier[2]
	g.reality.Assign(mineHex, deck.NewCard(deck.Spades, deck.Seven))

	order := []Role{RoleIndustry, RoleIndustry, RoleUrbanist, RoleUrbanist}
	for i, role := range order {
		claim := deck.NewCard(deck.Diamonds, deck.Rank(int(deck.Two)+i))
		if !g.CommitNomination(role, frontier[i], claim) {
			t.Fatalf("commit %d should be accepted", i)
		}
	}

	if !g.Place(RoleMayor, 0, mineHex) {
		t.Fatal("placement on the mine should be accepted")
	}
	if !g.MayorHitMine() {
		t.Error("mayor_hit_mine should be set")
	}
	if g.Phase() != PhaseGameOver {
		t.Errorf("phase = %s, want game_over", g.Phase())
	}
	// Urbanist claimed diamonds on the mine: lied, -2.
	if got := g.Scores().Urbanist; got != -2 {
		t.Errorf("urbanist score = %d, want -2", got)
	}

	// Terminal: nothing mutates anymore.
	if g.Reveal(RoleMayor, 0) || g.Place(RoleMayor, 0, frontier[0]) {
		t.Error("game over must accept no further intents")
	}
}

func TestDeathRevealSweep(t *testing.T) {
	rules := DefaultRules()
	rules.DeathReveal = true
	g := newTestGame(t, rules, 42)
	revealTwo(t, g)

	frontier := g.Frontier()
	mineHex := frontier[2]
	g.reality.Assign(frontier[0], deck.NewCard(deck.Spades, deck.Nine))
	g.reality.Assign(frontier[1], deck.NewCard(deck.Hearts, deck.Six))
	g.reality.Assign(mineHex, deck.NewCard(deck.Spades, deck.Seven))
	g.reality.Assign(frontier[3], deck.NewCard(deck.Hearts, deck.Eight))

	commits := []struct {
		role  Role
		hex   hex.Cube
		claim deck.Card
	}{
		// Industry lies about a second mine, then cries wolf on a safe tile.
		{RoleIndustry, frontier[0], deck.NewCard(deck.Diamonds, deck.Four)},
		{RoleIndustry, frontier[1], deck.NewCard(deck.Spades, deck.Ten)},
		// Urbanist warns honestly about the chosen mine.
		{RoleUrbanist, mineHex, deck.NewCard(deck.Spades, deck.Jack)},
		{RoleUrbanist, frontier[3], deck.NewCard(deck.Hearts, deck.Three)},
	}
	for i, c := range commits {
		if !g.CommitNomination(c.role, c.hex, c.claim) {
			t.Fatalf("commit %d by %s should be accepted", i, c.role)
		}
	}

	if !g.Place(RoleMayor, 0, mineHex) {
		t.Fatal("placement on the mine should be accepted")
	}
	if g.Phase() != PhaseGameOver {
		t.Fatalf("phase = %s, want game_over", g.Phase())
	}

	// On-hex: honest spade warning +1. Sweep: mine lie -3, cried wolf -2.
	if got := g.Scores().Urbanist; got != 1 {
		t.Errorf("urbanist score = %d, want 1", got)
	}
	if got := g.Scores().Industry; got != -5 {
		t.Errorf("industry score = %d, want -5", got)
	}
}

func TestConservationOverManyTurns(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 7)
	assignSafeBoard(g, 8)

	for turn := 0; turn < 12; turn++ {
		revealTwo(t, g)
		commitFour(t, g)
		if !g.Conserved() {
			t.Fatalf("turn %d: conservation broken before place", turn)
		}
		if !g.Place(RoleMayor, turn%4, g.Nominations()[turn%4].Hex) {
			t.Fatalf("turn %d: place should be accepted", turn)
		}
		if !g.Conserved() {
			t.Fatalf("turn %d: conservation broken after place", turn)
		}
		if len(g.Hand()) != 4 {
			t.Fatalf("turn %d: hand = %d, want 4", turn, len(g.Hand()))
		}
	}
	if g.Turn() != 12 {
		t.Errorf("turn = %d, want 12", g.Turn())
	}
	// Safe board of hearts: every placement grows the hearts facility count.
	if got := g.Facilities(deck.Hearts); got != 13 {
		t.Errorf("hearts facilities = %d, want 13 (center + 12 builds)", got)
	}
}

func TestForcedSuitsConstraint(t *testing.T) {
	rules := DefaultRules()
	rules.ControlEnabled = true
	g := newTestGame(t, rules, 42)
	revealTwo(t, g)

	if g.Phase() != PhaseControl {
		t.Fatalf("phase = %s, want control", g.Phase())
	}
	// Industry → Hearts, Urbanist → Diamonds.
	if !g.ChooseControl(RoleMayor, ControlChoice{Mode: ControlForceSuits, SuitConfig: SuitConfigUrbDiamondIndHeart}) {
		t.Fatal("control choice should be accepted")
	}

	frontier := g.Frontier()
	if g.CommitNomination(RoleIndustry, frontier[0], deck.NewCard(deck.Diamonds, deck.Two)) {
		t.Error("industry's first claim must be hearts under this config")
	}
	if !g.CommitNomination(RoleIndustry, frontier[0], deck.NewCard(deck.Hearts, deck.Two)) {
		t.Fatal("hearts claim should be accepted")
	}
	// The constraint binds the first nomination only.
	if !g.CommitNomination(RoleIndustry, frontier[1], deck.NewCard(deck.Spades, deck.Nine)) {
		t.Error("industry's second claim is unconstrained")
	}
}

func TestForcedHexConstraint(t *testing.T) {
	rules := DefaultRules()
	rules.ControlEnabled = true
	g := newTestGame(t, rules, 42)
	revealTwo(t, g)

	frontier := g.Frontier()
	choice := ControlChoice{
		Mode:        ControlForceHexes,
		IndustryHex: frontier[0],
		UrbanistHex: frontier[1],
	}
	if !g.ChooseControl(RoleMayor, choice) {
		t.Fatal("control choice should be accepted")
	}

	claim := deck.NewCard(deck.Hearts, deck.Two)
	if g.CommitNomination(RoleIndustry, frontier[2], claim) {
		t.Error("industry's first nomination must target the forced hex")
	}
	if !g.CommitNomination(RoleIndustry, frontier[0], claim) {
		t.Fatal("forced hex nomination should be accepted")
	}
	if !g.CommitNomination(RoleIndustry, frontier[3], deck.NewCard(deck.Hearts, deck.Three)) {
		t.Error("industry's second nomination is free")
	}
}

func TestControlDisabledSkipsPhase(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	revealTwo(t, g)
	if g.Phase() != PhaseNominate {
		t.Errorf("phase = %s, want nominate with control disabled", g.Phase())
	}
	if g.ControlMode() != ControlNone {
		t.Errorf("control mode = %s, want none", g.ControlMode())
	}
}

func TestVerifyForfeitsBuild(t *testing.T) {
	rules := DefaultRules()
	rules.AllowVerify = true
	g := newTestGame(t, rules, 42)
	assignSafeBoard(g, 3)
	revealTwo(t, g)
	commitFour(t, g)

	target := g.Nominations()[1].Hex
	builtBefore := len(g.Built())
	if !g.Verify(RoleMayor, target) {
		t.Fatal("verify should be accepted")
	}
	if len(g.Built()) != builtBefore {
		t.Error("verify must not build")
	}
	if g.Turn() != 1 || g.Phase() != PhaseDraw {
		t.Errorf("turn/phase = %d/%s, want 1/draw", g.Turn(), g.Phase())
	}
	if got := g.VerifiedHexes(); len(got) != 1 || got[0] != target {
		t.Errorf("verified hexes = %v, want [%s]", got, target)
	}
}

func TestVerifyDisabledByDefault(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)
	assignSafeBoard(g, 3)
	revealTwo(t, g)
	commitFour(t, g)

	if g.Verify(RoleMayor, g.Nominations()[0].Hex) {
		t.Error("verify should be rejected when the variant is off")
	}
	if got := g.RejectedIntents()["disabled"]; got != 1 {
		t.Errorf("disabled counter = %d, want 1", got)
	}
}

func TestRejectedIntentCounters(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 42)

	g.Place(RoleMayor, 0, hex.Origin)                         // wrong phase
	g.CommitNomination(RoleIndustry, hex.Origin, deck.Card{}) // wrong phase
	g.Reveal(RoleUrbanist, 0)                                 // wrong role

	counters := g.RejectedIntents()
	if counters["wrong_phase"] != 2 {
		t.Errorf("wrong_phase = %d, want 2", counters["wrong_phase"])
	}
	if counters["wrong_role"] != 1 {
		t.Errorf("wrong_role = %d, want 1", counters["wrong_role"])
	}
}
