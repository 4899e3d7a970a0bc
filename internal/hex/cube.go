// Package hex provides the cube-coordinate type used by the map layer.
//
// The full grid geometry (ring/range/outline queries) lives in the rendering
// layer and is consumed by the core as an oracle; the core only needs
// adjacency and distance.
package hex

import "fmt"

// Cube is a cube coordinate on the hex grid. Valid coordinates satisfy
// Q+R+S == 0.
type Cube struct {
	Q, R, S int
}

// String returns e.g. "(1,-1,0)".
func (c Cube) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.Q, c.R, c.S)
}

// directions are the six neighbor offsets, in the same order the map layer
// walks them.
var directions = [6]Cube{
	{1, -1, 0},
	{1, 0, -1},
	{0, 1, -1},
	{-1, 1, 0},
	{-1, 0, 1},
	{0, -1, 1},
}

// Origin is the town-center coordinate.
var Origin = Cube{0, 0, 0}

// Valid reports whether the coordinate lies on the cube lattice.
func (c Cube) Valid() bool {
	return c.Q+c.R+c.S == 0
}

// Add returns the component-wise sum of two coordinates.
func (c Cube) Add(o Cube) Cube {
	return Cube{c.Q + o.Q, c.R + o.R, c.S + o.S}
}

// Neighbors returns the six adjacent coordinates.
func (c Cube) Neighbors() [6]Cube {
	var out [6]Cube
	for i, d := range directions {
		out[i] = c.Add(d)
	}
	return out
}

// Distance returns the hex distance between two coordinates.
func Distance(a, b Cube) int {
	return (abs(a.Q-b.Q) + abs(a.R-b.R) + abs(a.S-b.S)) / 2
}

// Adjacent reports whether a and b share an edge.
func Adjacent(a, b Cube) bool {
	return Distance(a, b) == 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
