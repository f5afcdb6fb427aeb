package geom

// Rotation is a 3x3 integer matrix, row-major.
// Valid rotations satisfy R·Rᵗ = I and det(R) = 1.
type Rotation [3][3]int

// Identity returns the identity rotation.
func Identity() Rotation {
	return Rotation{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
}

// Mul returns the matrix product r·o.
func (r Rotation) Mul(o Rotation) Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				out[i][j] += r[i][k] * o[k][j]
			}
		}
	}
	return out
}

// Transpose returns rᵗ. For a valid rotation this is also its inverse.
func (r Rotation) Transpose() Rotation {
	var out Rotation
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[j][i] = r[i][j]
		}
	}
	return out
}

// Apply returns r·p.
func (r Rotation) Apply(p Point3) Point3 {
	return Point3{
		X: r[0][0]*p.X + r[0][1]*p.Y + r[0][2]*p.Z,
		Y: r[1][0]*p.X + r[1][1]*p.Y + r[1][2]*p.Z,
		Z: r[2][0]*p.X + r[2][1]*p.Y + r[2][2]*p.Z,
	}
}

// ApplyAll rotates every point into a new slice.
func (r Rotation) ApplyAll(points []Point3) []Point3 {
	out := make([]Point3, len(points))
	for i, p := range points {
		out[i] = r.Apply(p)
	}
	return out
}

// Det returns the determinant by cofactor expansion along the first row.
func (r Rotation) Det() int {
	return r[0][0]*(r[1][1]*r[2][2]-r[1][2]*r[2][1]) -
		r[0][1]*(r[1][0]*r[2][2]-r[1][2]*r[2][0]) +
		r[0][2]*(r[1][0]*r[2][1]-r[1][1]*r[2][0])
}

// IsProper reports whether r is orthogonal with determinant +1.
func (r Rotation) IsProper() bool {
	return r.Mul(r.Transpose()) == Identity() && r.Det() == 1
}
