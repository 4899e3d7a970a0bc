package deck

import (
	"testing"

	"github.com/cognivore/collapsization-sub001/internal/randutil"
)

func TestBuildShufflesDeterministically(t *testing.T) {
	a := NewCirculation(randutil.New(42))
	b := NewCirculation(randutil.New(42))

	for i := 0; i < NumCards; i++ {
		ca := a.Draw(1)[0]
		cb := b.Draw(1)[0]
		if ca != cb {
			t.Fatalf("draw %d differs: %s vs %s", i, ca, cb)
		}
	}
}

func TestDrawConservesUniverse(t *testing.T) {
	c := NewCirculation(randutil.New(7))

	held := []Card{}
	for turn := 0; turn < 30; turn++ {
		// Discard the whole held set before drawing, like a DRAW-phase entry.
		c.Discard(held...)
		held = c.Draw(4)

		if len(held) != 4 {
			t.Fatalf("turn %d: drew %d cards, want 4", turn, len(held))
		}
		if !c.Conserved() {
			t.Fatalf("turn %d: conservation broken: deck=%d discard=%d out=%d",
				turn, c.DeckSize(), c.DiscardSize(), c.Outstanding())
		}
	}
}

func TestDrawReshufflesDiscardOnExhaustion(t *testing.T) {
	c := NewCirculation(randutil.New(1))

	// Drain the deck, discarding everything as we go.
	first := c.Draw(NumCards)
	c.Discard(first...)
	if c.DeckSize() != 0 {
		t.Fatalf("deck should be empty, has %d", c.DeckSize())
	}
	if c.DiscardSize() != NumCards {
		t.Fatalf("discard should hold the universe, has %d", c.DiscardSize())
	}

	// The next draw must fold the discard back into the deck.
	again := c.Draw(5)
	if len(again) != 5 {
		t.Fatalf("drew %d after reshuffle, want 5", len(again))
	}
	if c.DiscardSize() != 0 {
		t.Errorf("discard should be empty after reshuffle, has %d", c.DiscardSize())
	}
	if !c.Conserved() {
		t.Errorf("conservation broken after reshuffle")
	}
}

func TestDrawBeyondUniversePanics(t *testing.T) {
	c := NewCirculation(randutil.New(3))
	c.Draw(10) // cards held outside circulation

	defer func() {
		if recover() == nil {
			t.Error("drawing past the universe should panic")
		}
	}()
	c.Draw(NumCards)
}

func TestDrawSpansReshuffleBoundary(t *testing.T) {
	c := NewCirculation(randutil.New(9))

	held := c.Draw(NumCards - 2)
	c.Discard(held...)

	// 2 left in deck, 37 in discard; a 4-card draw crosses the boundary.
	cards := c.Draw(4)
	if len(cards) != 4 {
		t.Fatalf("drew %d, want 4", len(cards))
	}
	if !c.Conserved() {
		t.Errorf("conservation broken across reshuffle boundary")
	}
}
