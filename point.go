package pointsdb

import "strconv"

// Point is a named location stored in a Tree leaf node.
// Points are values and are never modified once built.
type Point struct {
	Name string
	X, Y int
}

// NewPoint returns the Point called name at (x, y).
func NewPoint(name string, x, y int) Point {
	return Point{Name: name, X: x, Y: y}
}

// Equal reports whether p and o sit at the same coordinate. Names are
// ignored, so two differently named points at one location are equal.
func (p Point) Equal(o Point) bool {
	return p.X == o.X && p.Y == o.Y
}

// Key returns the "x,y" coordinate key used to group duplicates.
func (p Point) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// String renders p as "(name, x, y)".
func (p Point) String() string {
	return "(" + p.Name + ", " + strconv.Itoa(p.X) + ", " + strconv.Itoa(p.Y) + ")"
}
