package roomid

import (
	"strings"
	"testing"

	"github.com/cognivore/collapsization-sub001/internal/randutil"
)

func TestGenerateLength(t *testing.T) {
	id := Generate()
	if len(id) != Length {
		t.Errorf("Generate() length = %d, want %d", len(id), Length)
	}
	if err := Validate(id); err != nil {
		t.Errorf("generated code failed validation: %v", err)
	}
}

func TestGenerateExcludesAmbiguousGlyphs(t *testing.T) {
	for i := 0; i < 200; i++ {
		for _, forbidden := range "IO01" {
			if strings.ContainsRune(Generate(), forbidden) {
				t.Fatalf("generated code contains ambiguous glyph %c", forbidden)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := NewGenerator(randutil.New(7)).Generate()
	b := NewGenerator(randutil.New(7)).Generate()
	if a != b {
		t.Errorf("same seed produced %q and %q", a, b)
	}
	c := NewGenerator(randutil.New(8)).Generate()
	if a == c {
		t.Errorf("different seeds both produced %q", a)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		id     string
		wantOK bool
	}{
		{"ABC234", true},
		{"ZZZZZZ", true},
		{"ABC23", false},   // too short
		{"ABC2345", false}, // too long
		{"ABC10X", false},  // contains 1 and 0
		{"abc234", false},  // lower case is not in the alphabet
		{"", false},
	}
	for _, tc := range cases {
		err := Validate(tc.id)
		if (err == nil) != tc.wantOK {
			t.Errorf("Validate(%q) error = %v, wantOK %v", tc.id, err, tc.wantOK)
		}
	}
}
