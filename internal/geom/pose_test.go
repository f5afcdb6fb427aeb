package geom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestPoseApply(t *testing.T) {
	// 90° about z: x → y, y → -x.
	p := Pose{
		R: Rotation{
			{0, -1, 0},
			{1, 0, 0},
			{0, 0, 1},
		},
		T: Point3{10, 20, 30},
	}

	assert.Equal(t, Point3{8, 21, 33}, p.Apply(Point3{1, 2, 3}))
}

func TestComposeMatchesSequentialApply(t *testing.T) {
	rots := Catalog()
	p1 := Pose{R: rots[5], T: Point3{68, -1246, -43}}
	p2 := Pose{R: rots[17], T: Point3{-20, 7, 1133}}
	q := Point3{-618, -824, -621}

	want := p1.Apply(p2.Apply(q))
	got := Compose(p1, p2).Apply(q)
	assert.Equal(t, want, got)
}

func TestComposeAssociative(t *testing.T) {
	rots := Catalog()
	a := Pose{R: rots[3], T: Point3{1, 2, 3}}
	b := Pose{R: rots[11], T: Point3{-4, 5, -6}}
	c := Pose{R: rots[22], T: Point3{7, -8, 9}}

	left := Compose(Compose(a, b), c)
	right := Compose(a, Compose(b, c))
	if diff := cmp.Diff(left, right); diff != "" {
		t.Errorf("composition not associative (-left +right):\n%s", diff)
	}
}

func TestInverse(t *testing.T) {
	for i, r := range Catalog() {
		p := Pose{R: r, T: Point3{i * 3, -i, 1000 - i}}

		if diff := cmp.Diff(IdentityPose(), Compose(p, p.Inverse())); diff != "" {
			t.Errorf("rotation %d: p∘p⁻¹ != identity (-want +got):\n%s", i, diff)
		}
		if diff := cmp.Diff(IdentityPose(), Compose(p.Inverse(), p)); diff != "" {
			t.Errorf("rotation %d: p⁻¹∘p != identity (-want +got):\n%s", i, diff)
		}
	}
}

func TestIdentityPose(t *testing.T) {
	q := Point3{-5, 0, 12}
	assert.Equal(t, q, IdentityPose().Apply(q))
	assert.Equal(t, []Point3{q}, IdentityPose().ApplyAll([]Point3{q}))
}

func TestManhattan(t *testing.T) {
	tests := []struct {
		name string
		p, q Point3
		want int
	}{
		{"same point", Point3{1, 2, 3}, Point3{1, 2, 3}, 0},
		{"origin to positive", Point3{}, Point3{1, 2, 3}, 6},
		{"mixed signs", Point3{1105, -1205, 1229}, Point3{-92, -2380, -20}, 3621},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Manhattan(tt.p, tt.q))
			assert.Equal(t, tt.want, Manhattan(tt.q, tt.p))
		})
	}
}

func TestCompare(t *testing.T) {
	assert.Negative(t, Compare(Point3{0, 5, 5}, Point3{1, 0, 0}))
	assert.Negative(t, Compare(Point3{1, 0, 5}, Point3{1, 1, 0}))
	assert.Positive(t, Compare(Point3{1, 1, 1}, Point3{1, 1, 0}))
	assert.Zero(t, Compare(Point3{1, 1, 1}, Point3{1, 1, 1}))
}

func TestPointString(t *testing.T) {
	assert.Equal(t, "-1,0,42", Point3{-1, 0, 42}.String())
}
