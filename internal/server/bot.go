package server

import (
	rand "math/rand/v2"

	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/game"
	"github.com/cognivore/collapsization-sub001/internal/hex"
	"github.com/cognivore/collapsization-sub001/internal/protocol"
)

// Bot fills a seat with synthetic intents. It goes through the same intent
// methods as a remote player, so liveness never depends on a human and no
// game code special-cases bots.
type Bot struct {
	peer protocol.PeerID
	role game.Role
	rng  *rand.Rand

	// own nominations this turn, cleared when the turn advances
	turn   int
	picked map[hex.Cube]bool
}

// NewBot seats a bot.
func NewBot(peer protocol.PeerID, role game.Role, rng *rand.Rand) *Bot {
	return &Bot{peer: peer, role: role, rng: rng, turn: -1}
}

// Act submits at most one intent if it is this seat's move. It reports
// whether an intent was applied.
func (b *Bot) Act(g *game.Game) bool {
	if g.Over() {
		return false
	}
	if b.turn != g.Turn() {
		b.turn = g.Turn()
		b.picked = map[hex.Cube]bool{}
	}

	if b.role == game.RoleMayor {
		return b.actMayor(g)
	}
	return b.actAdvisor(g)
}

func (b *Bot) actMayor(g *game.Game) bool {
	switch g.Phase() {
	case game.PhaseDraw:
		revealed := map[int]bool{}
		for _, idx := range g.RevealedIndices() {
			revealed[idx] = true
		}
		for idx := range g.Hand() {
			if !revealed[idx] {
				return g.Reveal(game.RoleMayor, idx)
			}
		}
	case game.PhaseControl:
		return g.ChooseControl(game.RoleMayor, game.ControlChoice{Mode: game.ControlNone})
	case game.PhasePlace:
		noms := g.Nominations()
		if len(noms) == 0 || len(g.Hand()) == 0 {
			return false
		}
		target := noms[b.rng.IntN(len(noms))].Hex
		return g.Place(game.RoleMayor, b.rng.IntN(len(g.Hand())), target)
	}
	return false
}

func (b *Bot) actAdvisor(g *game.Game) bool {
	if g.Phase() != game.PhaseNominate || !b.myCommit(g) {
		return false
	}
	target, ok := b.pickTarget(g)
	if !ok {
		return false
	}
	claim, ok := b.pickClaim(g)
	if !ok {
		return false
	}
	if g.CommitNomination(b.role, target, claim) {
		b.picked[target] = true
		return true
	}
	return false
}

// myCommit derives whose commit the sub-phase expects: Industry's two come
// before Urbanist's two.
func (b *Bot) myCommit(g *game.Game) bool {
	industryDone := g.CommitCount(game.RoleIndustry) >= 2
	if b.role == game.RoleIndustry {
		return !industryDone
	}
	return industryDone && g.CommitCount(game.RoleUrbanist) < 2
}

func (b *Bot) pickTarget(g *game.Game) (hex.Cube, bool) {
	if g.CommitCount(b.role) == 0 {
		if forced, ok := g.ForcedHex(b.role); ok {
			return forced, true
		}
	}
	var open []hex.Cube
	for _, h := range g.Frontier() {
		if !b.picked[h] {
			open = append(open, h)
		}
	}
	if len(open) == 0 {
		return hex.Cube{}, false
	}
	return open[b.rng.IntN(len(open))], true
}

func (b *Bot) pickClaim(g *game.Game) (deck.Card, bool) {
	tray := g.Tray(b.role)
	if g.CommitCount(b.role) == 0 {
		if suit, ok := g.ForcedSuit(b.role); ok {
			var filtered []int
			for _, idx := range tray {
				if c, ok := deck.CardAt(idx); ok && c.Suit == suit {
					filtered = append(filtered, idx)
				}
			}
			tray = filtered
		}
	}
	if len(tray) == 0 {
		return deck.Card{}, false
	}
	c, ok := deck.CardAt(tray[b.rng.IntN(len(tray))])
	return c, ok
}
