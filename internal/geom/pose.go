package geom

// Pose is a rigid transform mapping local → R·local + T.
type Pose struct {
	R Rotation `json:"rotation"`
	T Point3   `json:"translation"`
}

// IdentityPose returns (I, 0).
func IdentityPose() Pose {
	return Pose{R: Identity()}
}

// Compose returns the pose equivalent to applying p2 and then p1:
// (R1·R2, T1 + R1·T2).
func Compose(p1, p2 Pose) Pose {
	return Pose{
		R: p1.R.Mul(p2.R),
		T: p1.T.Add(p1.R.Apply(p2.T)),
	}
}

// Inverse returns (Rᵗ, −Rᵗ·T). Only meaningful for proper rotations.
func (p Pose) Inverse() Pose {
	rt := p.R.Transpose()
	return Pose{R: rt, T: rt.Apply(p.T).Neg()}
}

// Apply maps a single point through the pose.
func (p Pose) Apply(q Point3) Point3 {
	return p.R.Apply(q).Add(p.T)
}

// ApplyAll maps every point through the pose into a new slice.
func (p Pose) ApplyAll(points []Point3) []Point3 {
	out := make([]Point3, len(points))
	for i, q := range points {
		out[i] = p.Apply(q)
	}
	return out
}
