package geom

import (
	"math"
	"slices"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// CatalogSize is the order of the rotation group of a cube.
const CatalogSize = 24

var (
	catalogOnce sync.Once
	catalog     []Rotation
)

// Catalog returns the 24 proper axis-aligned rotations.
// The set is generated once per process; the order is stable for the
// lifetime of the process. Callers receive a copy and may modify it.
func Catalog() []Rotation {
	catalogOnce.Do(func() {
		catalog = GenerateRotations()
	})
	return slices.Clone(catalog)
}

// GenerateRotations enumerates every combination of 4 roll × 4 pitch × 4 yaw
// quarter turns, composes them as Rz(yaw)·Ry(pitch)·Rx(roll), rounds each
// entry to the nearest integer and keeps the first occurrence of each
// distinct matrix. The result always has CatalogSize elements and begins
// with the identity.
func GenerateRotations() []Rotation {
	seen := make(map[Rotation]struct{}, CatalogSize)
	out := make([]Rotation, 0, CatalogSize)

	for roll := 0; roll < 4; roll++ {
		for pitch := 0; pitch < 4; pitch++ {
			for yaw := 0; yaw < 4; yaw++ {
				r := fromEuler(roll, pitch, yaw)
				if _, ok := seen[r]; ok {
					continue
				}
				seen[r] = struct{}{}
				out = append(out, r)
			}
		}
	}

	return out
}

// fromEuler builds the rounded integer rotation for the given quarter turns.
func fromEuler(roll, pitch, yaw int) Rotation {
	var zy, zyx mat.Dense
	zy.Mul(axisRotation(2, yaw), axisRotation(1, pitch))
	zyx.Mul(&zy, axisRotation(0, roll))

	var r Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			// Round before converting; sin(π) is ~1e-16, not 0.
			r[i][j] = int(math.Round(zyx.At(i, j)))
		}
	}
	return r
}

// axisRotation returns the elementary rotation by quarter·90° about axis
// 0 (x), 1 (y) or 2 (z).
func axisRotation(axis, quarter int) *mat.Dense {
	theta := float64(quarter) * math.Pi / 2
	c, s := math.Cos(theta), math.Sin(theta)

	switch axis {
	case 0:
		return mat.NewDense(3, 3, []float64{
			1, 0, 0,
			0, c, -s,
			0, s, c,
		})
	case 1:
		return mat.NewDense(3, 3, []float64{
			c, 0, s,
			0, 1, 0,
			-s, 0, c,
		})
	default:
		return mat.NewDense(3, 3, []float64{
			c, -s, 0,
			s, c, 0,
			0, 0, 1,
		})
	}
}

// Dense converts r to a gonum matrix, mostly for numeric checks.
func (r Rotation) Dense() *mat.Dense {
	data := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			data = append(data, float64(r[i][j]))
		}
	}
	return mat.NewDense(3, 3, data)
}
