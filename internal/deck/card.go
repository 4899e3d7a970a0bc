package deck

import "fmt"

// Suit represents a card suit. The game deck has no clubs: hearts are the
// Urbanist's domain, diamonds the Industry's, and spades are mines.
type Suit int

const (
	Hearts Suit = iota
	Diamonds
	Spades
)

// NumSuits is the number of suits in the game deck.
const NumSuits = 3

var suitGlyphs = [NumSuits]string{"♥", "♦", "♠"}

// String returns the glyph for a suit.
func (s Suit) String() string {
	if !s.Valid() {
		return "?"
	}
	return suitGlyphs[s]
}

// Valid reports whether the suit is one of the three game suits.
func (s Suit) Valid() bool {
	return s >= Hearts && s <= Spades
}

// Rank represents a card rank. Numeric values follow the house ordering:
// Queen (13) outranks King (12), Ace stays high at 14.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	King
	Queen
	Ace
)

// NumRanks is the number of ranks per suit.
const NumRanks = 13

// ranks in ascending value order.
var ranks = [NumRanks]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, King, Queen, Ace}

var courtLabels = map[Rank]string{Jack: "J", King: "K", Queen: "Q", Ace: "A"}

// String returns the label for a rank.
func (r Rank) String() string {
	if label, ok := courtLabels[r]; ok {
		return label
	}
	if r >= Two && r <= Ten {
		return fmt.Sprintf("%d", int(r))
	}
	return "?"
}

// RankFromLabel parses a rank label ("2".."10", "J", "Q", "K", "A"). The
// boolean is false for unknown labels.
func RankFromLabel(label string) (Rank, bool) {
	for _, r := range ranks {
		if r.String() == label {
			return r, true
		}
	}
	return 0, false
}

// Valid reports whether the rank is in 2..A.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Card is an immutable value object. Duplicates are legal; a card has no
// identity beyond its fields.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// Value returns the numeric value used for comparisons. Queen beats King.
func (c Card) Value() int {
	return int(c.Rank)
}

// String returns e.g. "Q♥".
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// NumCards is the size of the 39-card universe (13 ranks x 3 suits).
const NumCards = NumSuits * NumRanks

// Index returns the card's flat index in 0..38, or -1 for an invalid card.
func (c Card) Index() int {
	if !c.Suit.Valid() || !c.Rank.Valid() {
		return -1
	}
	for i, r := range ranks {
		if r == c.Rank {
			return int(c.Suit)*NumRanks + i
		}
	}
	return -1
}

// CardAt returns the card for a flat index in 0..38. The boolean is false
// for out-of-range indices.
func CardAt(idx int) (Card, bool) {
	if idx < 0 || idx >= NumCards {
		return Card{}, false
	}
	return Card{Suit: Suit(idx / NumRanks), Rank: ranks[idx%NumRanks]}, true
}

// Universe returns all 39 cards in index order.
func Universe() []Card {
	cards := make([]Card, 0, NumCards)
	for i := 0; i < NumCards; i++ {
		c, _ := CardAt(i)
		cards = append(cards, c)
	}
	return cards
}
