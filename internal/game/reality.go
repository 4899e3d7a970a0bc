package game

import (
	rand "math/rand/v2"

	"github.com/cognivore/collapsization-sub001/internal/deck"
	"github.com/cognivore/collapsization-sub001/internal/hex"
)

// RealityDealer lazily assigns each newly revealed tile its true, hidden
// card. It circulates its own 39-card universe, entirely separate from the
// Mayor's deck: a drawn card is copied onto the tile and immediately
// returned to the dealer's discard, so tile generation never runs the
// universe dry no matter how large the city grows.
type RealityDealer struct {
	circ  *deck.Circulation
	tiles map[hex.Cube]deck.Card
}

// NewRealityDealer builds a dealer with its own shuffled circulation.
func NewRealityDealer(rng *rand.Rand) *RealityDealer {
	return &RealityDealer{
		circ:  deck.NewCirculation(rng),
		tiles: make(map[hex.Cube]deck.Card),
	}
}

// Assign fixes a tile's reality explicitly (the town center is always A♥).
func (d *RealityDealer) Assign(h hex.Cube, c deck.Card) {
	d.tiles[h] = c
}

// Reveal returns the tile's reality, drawing one on first reveal. Reality
// is immutable once assigned.
func (d *RealityDealer) Reveal(h hex.Cube) deck.Card {
	if c, ok := d.tiles[h]; ok {
		return c
	}
	drawn := d.circ.Draw(1)[0]
	d.circ.Discard(drawn)
	d.tiles[h] = drawn
	return drawn
}

// At returns the tile's reality without forcing a reveal.
func (d *RealityDealer) At(h hex.Cube) (deck.Card, bool) {
	c, ok := d.tiles[h]
	return c, ok
}

// Known returns the number of tiles with assigned reality.
func (d *RealityDealer) Known() int {
	return len(d.tiles)
}
