package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

func sampleClouds() []scan.Cloud {
	return []scan.Cloud{
		{ID: 0, Label: "0", Beacons: []geom.Point3{{X: 1, Y: 2, Z: 3}, {X: -1, Y: -2, Z: -3}}},
		{ID: 1, Label: "1", Beacons: []geom.Point3{{X: 5, Y: 5, Z: 5}}},
	}
}

func TestInputHashDeterminism(t *testing.T) {
	h1, err := InputHash(sampleClouds())
	require.NoError(t, err)
	h2, err := InputHash(sampleClouds())
	require.NoError(t, err)

	assert.Equal(t, h1, h2, "InputHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestInputHashChangesWithInput(t *testing.T) {
	base := MustInputHash(sampleClouds())

	moved := sampleClouds()
	moved[1].Beacons[0].X = 6

	relabeled := sampleClouds()
	relabeled[0].Label = "alpha"

	reordered := sampleClouds()
	reordered[0].Beacons[0], reordered[0].Beacons[1] = reordered[0].Beacons[1], reordered[0].Beacons[0]

	assert.NotEqual(t, base, MustInputHash(moved), "coordinates contribute")
	assert.NotEqual(t, base, MustInputHash(relabeled), "labels contribute")
	assert.NotEqual(t, base, MustInputHash(reordered), "beacon order contributes")
}

func TestResultHash(t *testing.T) {
	poses := []geom.Pose{geom.IdentityPose(), {R: geom.Identity(), T: geom.Point3{X: 10}}}
	beacons := []geom.Point3{{X: 1}, {Y: 2}}

	h1, err := ResultHash(poses, beacons, 10)
	require.NoError(t, err)
	h2, err := ResultHash(poses, beacons, 10)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := ResultHash(poses, beacons, 11)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{"scanners":[]}`)
	assert.NotEqual(t, hashWithDomain(DomainInput, data), hashWithDomain(DomainResult, data))
}
