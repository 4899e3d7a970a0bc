package deck

import (
	"fmt"
	rand "math/rand/v2"
)

// Circulation manages the 39-card universe across the draw pile and the
// discard pile. Cards held outside the circulation (the Mayor's hand,
// mid-transaction) are tracked by the caller; the conservation invariant is
// |deck| + |discard| + outstanding == 39 at all times.
//
// Cards are never created or destroyed after Build, only moved between
// pools.
type Circulation struct {
	deck    []Card
	discard []Card
	out     int // cards currently held by the caller
	rng     *rand.Rand
}

// NewCirculation builds a shuffled 39-card circulation from the given RNG.
func NewCirculation(rng *rand.Rand) *Circulation {
	c := &Circulation{rng: rng}
	c.Build()
	return c
}

// Build constructs all 39 cards, shuffles them into the draw pile and
// empties the discard pile. Any cards the caller still holds are forgotten.
func (c *Circulation) Build() {
	c.deck = Universe()
	c.discard = c.discard[:0]
	c.out = 0
	c.shuffle(c.deck)
}

func (c *Circulation) shuffle(cards []Card) {
	c.rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// Draw removes up to n cards from the front of the draw pile. If the pile
// runs out mid-draw the whole discard pile is shuffled back in and drawing
// continues. Requesting more cards than remain in circulation is a
// programming error and panics: the conservation invariant makes it
// unreachable for n <= 39 minus outstanding cards.
func (c *Circulation) Draw(n int) []Card {
	if n > len(c.deck)+len(c.discard) {
		panic(fmt.Sprintf("deck: drawing %d cards with only %d in circulation", n, len(c.deck)+len(c.discard)))
	}
	drawn := make([]Card, 0, n)
	for len(drawn) < n {
		if len(c.deck) == 0 {
			c.reshuffleDiscard()
		}
		drawn = append(drawn, c.deck[0])
		c.deck = c.deck[1:]
	}
	c.out += len(drawn)
	return drawn
}

func (c *Circulation) reshuffleDiscard() {
	c.deck = append(c.deck, c.discard...)
	c.discard = c.discard[:0]
	c.shuffle(c.deck)
}

// Discard returns cards to the discard pile.
func (c *Circulation) Discard(cards ...Card) {
	c.discard = append(c.discard, cards...)
	c.out -= len(cards)
}

// DeckSize returns the number of cards in the draw pile.
func (c *Circulation) DeckSize() int {
	return len(c.deck)
}

// DiscardSize returns the number of cards in the discard pile.
func (c *Circulation) DiscardSize() int {
	return len(c.discard)
}

// Outstanding returns the number of cards held outside the circulation.
func (c *Circulation) Outstanding() int {
	return c.out
}

// Conserved reports whether every card of the universe is accounted for.
func (c *Circulation) Conserved() bool {
	return len(c.deck)+len(c.discard)+c.out == NumCards
}
