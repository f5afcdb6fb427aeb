package align

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
	"github.com/roach88/beaconreg/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestBuildLinks_CanonicalTopology(t *testing.T) {
	sys := testutil.Canonical()

	edges, err := BuildLinks(context.Background(), sys.Clouds, geom.Catalog(), Options{Logger: quietLogger()})
	require.NoError(t, err)

	var pairs [][2]int
	for _, e := range edges {
		pairs = append(pairs, [2]int{e.A, e.B})
		assert.Equal(t, 12, e.Overlap)
	}
	assert.Equal(t, [][2]int{{0, 1}, {1, 3}, {1, 4}, {2, 4}}, pairs)
}

func TestBuildLinks_EdgePoseMapsBIntoA(t *testing.T) {
	sys := testutil.Canonical()

	edges, err := BuildLinks(context.Background(), sys.Clouds, geom.Catalog(), Options{Logger: quietLogger()})
	require.NoError(t, err)

	for _, e := range edges {
		// Ground truth: B's frame into A's frame is poseA⁻¹ ∘ poseB.
		want := geom.Compose(sys.Poses[e.A].Inverse(), sys.Poses[e.B])
		assert.Equal(t, want, e.Pose, "edge %d-%d", e.A, e.B)
	}
}

func TestBuildLinks_ParallelMatchesSequential(t *testing.T) {
	sys := testutil.Canonical()
	ctx := context.Background()

	seq, err := BuildLinks(ctx, sys.Clouds, geom.Catalog(), Options{Workers: 1, Logger: quietLogger()})
	require.NoError(t, err)
	par, err := BuildLinks(ctx, sys.Clouds, geom.Catalog(), Options{Workers: 8, Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, seq, par)
}

func TestBuildLinks_UniqueStrategyAgreesOnCleanData(t *testing.T) {
	sys := testutil.Canonical()
	ctx := context.Background()

	first, err := BuildLinks(ctx, sys.Clouds, geom.Catalog(), Options{Strategy: StrategyFirst, Logger: quietLogger()})
	require.NoError(t, err)
	unique, err := BuildLinks(ctx, sys.Clouds, geom.Catalog(), Options{Strategy: StrategyUnique, Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, first, unique)
}

func TestBuildLinks_UniqueStrategyRejectsAmbiguousPair(t *testing.T) {
	// A symmetric cross: every rotation of the axis set onto itself aligns
	// all six points, so many rotations tie at the top vote.
	cross := []geom.Point3{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}
	clouds := []scan.Cloud{
		{ID: 0, Beacons: cross},
		{ID: 1, Beacons: cross},
	}
	ctx := context.Background()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	unique, err := BuildLinks(ctx, clouds, geom.Catalog(), Options{Threshold: 6, Strategy: StrategyUnique, Logger: logger})
	require.NoError(t, err)
	assert.Empty(t, unique)
	assert.Contains(t, logs.String(), "ambiguous link rejected")

	first, err := BuildLinks(ctx, clouds, geom.Catalog(), Options{Threshold: 6, Strategy: StrategyFirst, Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, geom.IdentityPose(), first[0].Pose, "first catalog entry is the identity")
}

func TestBuildLinks_NoOverlap(t *testing.T) {
	sys := testutil.Disconnected()

	edges, err := BuildLinks(context.Background(), sys.Clouds, geom.Catalog(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, 0, edges[0].A)
	assert.Equal(t, 1, edges[0].B)
}

func TestBuildLinks_LowerThresholdAddsEdge(t *testing.T) {
	sys := testutil.Disconnected()

	edges, err := BuildLinks(context.Background(), sys.Clouds, geom.Catalog(), Options{Threshold: 11, Logger: quietLogger()})
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, [2]int{0, 2}, [2]int{edges[1].A, edges[1].B})
	assert.Equal(t, 11, edges[1].Overlap)
}

func TestBuildLinks_SingleScanner(t *testing.T) {
	sys := testutil.Canonical()

	edges, err := BuildLinks(context.Background(), sys.Clouds[:1], geom.Catalog(), Options{Logger: quietLogger()})
	require.NoError(t, err)
	assert.Empty(t, edges)
}

func TestBuildLinks_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildLinks(ctx, testutil.Canonical().Clouds, geom.Catalog(), Options{Logger: quietLogger()})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEdgeReverse(t *testing.T) {
	e := Edge{A: 2, B: 5, Pose: geom.Pose{R: geom.Catalog()[7], T: geom.Point3{X: 1, Y: 2, Z: 3}}, Overlap: 12}
	r := e.Reverse()

	assert.Equal(t, 5, r.A)
	assert.Equal(t, 2, r.B)
	assert.Equal(t, geom.IdentityPose(), geom.Compose(e.Pose, r.Pose))
	assert.Equal(t, e, r.Reverse())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyFirst, s)

	s, err = ParseStrategy("unique")
	require.NoError(t, err)
	assert.Equal(t, StrategyUnique, s)

	_, err = ParseStrategy("best")
	assert.Error(t, err)
}
