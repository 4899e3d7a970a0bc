// Package roomid generates the short join codes players type to enter a
// lobby room.
package roomid

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// Alphabet for room codes. Ambiguous glyphs (I, O, 0, 1) are excluded so
// codes survive being read aloud or scribbled down.
const alphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// Length of a room code.
const Length = 6

// RandSource lets callers inject deterministic randomness for tests.
type RandSource interface {
	IntN(n int) int
}

// Generator produces room codes with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource falls back to
// crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// Generate creates a new room code using crypto/rand.
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new 6-character room code.
func (g *Generator) Generate() string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		b.WriteByte(alphabet[g.pick()])
	}
	return b.String()
}

func (g *Generator) pick() int {
	if g.randSource != nil {
		return g.randSource.IntN(len(alphabet))
	}
	var buf [1]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			panic("roomid: failed to read random bytes: " + err.Error())
		}
		// Reject values beyond the largest multiple of len(alphabet) to
		// keep the distribution uniform.
		if int(buf[0]) < 256-256%len(alphabet) {
			return int(buf[0]) % len(alphabet)
		}
	}
}

// Validate checks that a room code has the right length and draws only from
// the code alphabet.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("room code must be exactly %d characters, got %d", Length, len(id))
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}
