package hex

import "testing"

func TestValid(t *testing.T) {
	cases := []struct {
		cube Cube
		want bool
	}{
		{Cube{0, 0, 0}, true},
		{Cube{1, -1, 0}, true},
		{Cube{-3, 1, 2}, true},
		{Cube{1, 1, 1}, false},
		{Cube{1, 0, 0}, false},
	}
	for _, tc := range cases {
		if got := tc.cube.Valid(); got != tc.want {
			t.Errorf("%s.Valid() = %v, want %v", tc.cube, got, tc.want)
		}
	}
}

func TestNeighborsStayOnLattice(t *testing.T) {
	for _, n := range (Cube{2, -3, 1}).Neighbors() {
		if !n.Valid() {
			t.Errorf("neighbor %s is off the lattice", n)
		}
		if !Adjacent(Cube{2, -3, 1}, n) {
			t.Errorf("neighbor %s is not adjacent", n)
		}
	}
}

func TestNeighborsAreDistinct(t *testing.T) {
	seen := map[Cube]bool{}
	for _, n := range Origin.Neighbors() {
		if seen[n] {
			t.Errorf("duplicate neighbor %s", n)
		}
		seen[n] = true
	}
	if len(seen) != 6 {
		t.Errorf("expected 6 distinct neighbors, got %d", len(seen))
	}
}

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b Cube
		want int
	}{
		{Origin, Origin, 0},
		{Origin, Cube{1, -1, 0}, 1},
		{Origin, Cube{2, -1, -1}, 2},
		{Cube{-2, 2, 0}, Cube{2, -2, 0}, 4},
	}
	for _, tc := range cases {
		if got := Distance(tc.a, tc.b); got != tc.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		if got := Distance(tc.b, tc.a); got != tc.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tc.b, tc.a, got, tc.want)
		}
	}
}

func TestAdjacent(t *testing.T) {
	if Adjacent(Origin, Origin) {
		t.Error("a hex is not adjacent to itself")
	}
	if Adjacent(Origin, Cube{2, -2, 0}) {
		t.Error("distance-2 hexes are not adjacent")
	}
	if !Adjacent(Origin, Cube{0, 1, -1}) {
		t.Error("unit-offset hexes are adjacent")
	}
}
