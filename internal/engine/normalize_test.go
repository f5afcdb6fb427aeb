package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

func shift(x, y, z int) geom.Pose {
	return geom.Pose{R: geom.Identity(), T: geom.Point3{X: x, Y: y, Z: z}}
}

func TestNormalize_Chain(t *testing.T) {
	turn := geom.Rotation{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
	edges := []align.Edge{
		{A: 0, B: 1, Pose: geom.Pose{R: turn, T: geom.Point3{X: 10}}, Overlap: 12},
		{A: 1, B: 2, Pose: shift(0, 5, 0), Overlap: 12},
	}
	g, err := align.NewGraph(3, edges)
	require.NoError(t, err)

	poses, err := Normalize(g, 0)
	require.NoError(t, err)

	assert.Equal(t, geom.IdentityPose(), poses[0])
	assert.Equal(t, edges[0].Pose, poses[1])
	// Scanner 2 sits 5 along scanner 1's y axis, which points along -x.
	assert.Equal(t, geom.Point3{X: 5}, poses[2].T)
	assert.Equal(t, turn, poses[2].R)
}

func TestNormalize_FromOtherReference(t *testing.T) {
	edges := []align.Edge{
		{A: 0, B: 1, Pose: shift(10, 0, 0), Overlap: 12},
		{A: 1, B: 2, Pose: shift(0, 5, 0), Overlap: 12},
	}
	g, err := align.NewGraph(3, edges)
	require.NoError(t, err)

	poses, err := Normalize(g, 2)
	require.NoError(t, err)

	assert.Equal(t, geom.Point3{X: -10, Y: -5}, poses[0].T)
	assert.Equal(t, geom.Point3{Y: -5}, poses[1].T)
	assert.Equal(t, geom.IdentityPose(), poses[2])
}

func TestNormalize_FirstDiscoveryWins(t *testing.T) {
	// 0 reaches 2 directly and via 1. The direct edge is expanded first.
	edges := []align.Edge{
		{A: 0, B: 1, Pose: shift(1, 0, 0), Overlap: 12},
		{A: 0, B: 2, Pose: shift(0, 0, 7), Overlap: 12},
		{A: 1, B: 2, Pose: shift(100, 0, 0), Overlap: 12},
	}
	g, err := align.NewGraph(3, edges)
	require.NoError(t, err)

	poses, err := Normalize(g, 0)
	require.NoError(t, err)
	assert.Equal(t, geom.Point3{Z: 7}, poses[2].T)
}

func TestNormalize_Disconnected(t *testing.T) {
	edges := []align.Edge{{A: 1, B: 3, Pose: shift(1, 1, 1), Overlap: 12}}
	g, err := align.NewGraph(4, edges)
	require.NoError(t, err)

	_, err = Normalize(g, 0)
	require.Error(t, err)

	var de *DisconnectedError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, []int{1, 2, 3}, de.Unresolved)
	assert.Equal(t, "scanners not linked to reference 0: 1, 2, 3", de.Error())
}

func TestNormalize_ReferenceOutOfRange(t *testing.T) {
	g, err := align.NewGraph(2, nil)
	require.NoError(t, err)

	_, err = Normalize(g, 2)
	assert.Error(t, err)
	_, err = Normalize(g, -1)
	assert.Error(t, err)
}

func TestMergeBeacons(t *testing.T) {
	clouds := []scan.Cloud{
		{ID: 0, Beacons: []geom.Point3{{X: 1}, {X: 2}}},
		{ID: 1, Beacons: []geom.Point3{{X: -9}, {X: 5}}},
	}
	poses := []geom.Pose{geom.IdentityPose(), shift(10, 0, 0)}

	got := MergeBeacons(clouds, poses)
	assert.Equal(t, []geom.Point3{{X: 1}, {X: 2}, {X: 15}}, got)
}

func TestMaxManhattan(t *testing.T) {
	tests := []struct {
		name     string
		poses    []geom.Pose
		expected int
	}{
		{"none", nil, 0},
		{"one", []geom.Pose{shift(5, 5, 5)}, 0},
		{"two", []geom.Pose{geom.IdentityPose(), shift(3, -4, 5)}, 12},
		{"three", []geom.Pose{shift(1105, -1205, 1229), geom.IdentityPose(), shift(-92, -2380, -20)}, 3621},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaxManhattan(tt.poses))
		})
	}
}
