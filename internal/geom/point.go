package geom

import (
	"cmp"
	"fmt"
)

// Point3 is an integer 3-vector.
type Point3 struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Add returns p + q.
func (p Point3) Add(q Point3) Point3 {
	return Point3{p.X + q.X, p.Y + q.Y, p.Z + q.Z}
}

// Sub returns p - q.
func (p Point3) Sub(q Point3) Point3 {
	return Point3{p.X - q.X, p.Y - q.Y, p.Z - q.Z}
}

// Neg returns -p.
func (p Point3) Neg() Point3 {
	return Point3{-p.X, -p.Y, -p.Z}
}

// Manhattan returns |Δx| + |Δy| + |Δz| between p and q.
func Manhattan(p, q Point3) int {
	d := p.Sub(q)
	return abs(d.X) + abs(d.Y) + abs(d.Z)
}

// Compare orders points lexicographically by X, then Y, then Z.
// Suitable for slices.SortFunc.
func Compare(p, q Point3) int {
	if c := cmp.Compare(p.X, q.X); c != 0 {
		return c
	}
	if c := cmp.Compare(p.Y, q.Y); c != 0 {
		return c
	}
	return cmp.Compare(p.Z, q.Z)
}

// String renders the point in the input file format "x,y,z".
func (p Point3) String() string {
	return fmt.Sprintf("%d,%d,%d", p.X, p.Y, p.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
