// Package game implements the grid/map/player/room state model: movement
// validation, portal transitions, broadcast fan-out, and the procedural
// maze generator.
package game

// Point is an integer grid coordinate. Equality is by value, as with any
// Go struct of comparable fields.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ManhattanDistance returns |Δx| + |Δy| between p and o.
func (p Point) ManhattanDistance(o Point) int {
	return absInt(p.X-o.X) + absInt(p.Y-o.Y)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
