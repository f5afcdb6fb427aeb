package canon

import (
	"slices"
	"unicode/utf16"

	"github.com/roach88/beaconreg/internal/geom"
)

// Value is implemented by the canonical value types only.
type Value interface {
	canonValue()
}

// String is a JSON string.
type String string

func (String) canonValue() {}

// Int is a JSON integer. There is no float type.
type Int int64

func (Int) canonValue() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) canonValue() {}

// Array is a JSON array.
type Array []Value

func (Array) canonValue() {}

// Object is a JSON object. Use SortedKeys for deterministic iteration.
type Object map[string]Value

func (Object) canonValue() {}

// SortedKeys returns the keys in RFC 8785 order (UTF-16 code units).
// This differs from sort.Strings for characters outside the BMP.
func (o Object) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareUTF16)
	return keys
}

func compareUTF16(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// Point encodes p as [x, y, z].
func Point(p geom.Point3) Array {
	return Array{Int(p.X), Int(p.Y), Int(p.Z)}
}

// Points encodes a point list in order.
func Points(ps []geom.Point3) Array {
	out := make(Array, len(ps))
	for i, p := range ps {
		out[i] = Point(p)
	}
	return out
}

// Rotation encodes r as three row arrays.
func Rotation(r geom.Rotation) Array {
	out := make(Array, 3)
	for i, row := range r {
		out[i] = Array{Int(row[0]), Int(row[1]), Int(row[2])}
	}
	return out
}

// Pose encodes p as {"rotation": ..., "translation": ...}.
func Pose(p geom.Pose) Object {
	return Object{
		"rotation":    Rotation(p.R),
		"translation": Point(p.T),
	}
}
