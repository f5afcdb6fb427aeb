package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/beaconreg/internal/scan"
	"github.com/roach88/beaconreg/internal/testutil"
)

func loadTestScenario(t *testing.T, file string) *Scenario {
	t.Helper()
	sc, err := LoadScenario(filepath.Join(scenariosDir, file))
	require.NoError(t, err)
	return sc
}

func intPtr(n int) *int { return &n }

func TestRun_AllScenariosPass(t *testing.T) {
	scenarios, err := LoadScenarios(scenariosDir)
	require.NoError(t, err)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := Run(context.Background(), sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Empty(t, result.Errors)
			assert.NotEmpty(t, result.Snapshot)
		})
	}
}

func TestRun_Canonical(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "canonical.yaml"))
	require.NoError(t, err)

	require.NotNil(t, result.Registration)
	assert.Equal(t, "test-run-default", result.Registration.RunID)
	assert.Equal(t, testutil.CanonicalBeacons, result.Registration.BeaconCount())
	assert.Nil(t, result.Unresolved)
}

func TestRun_Disconnected(t *testing.T) {
	result, err := Run(context.Background(), loadTestScenario(t, "disconnected.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Nil(t, result.Registration)
	assert.Equal(t, []int{2}, result.Unresolved)
}

func TestRun_WrongExpectations(t *testing.T) {
	sc := loadTestScenario(t, "canonical.yaml")
	sc.Expect.Beacons = intPtr(80)
	sc.Expect.MaxDistance = intPtr(1)
	sc.Expect.Positions = map[int][]int{1: {0, 0, 0}, 9: {1, 2, 3}}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{
		"beacons: expected 80, got 79",
		"max_distance: expected 1, got 3621",
		"positions: scanner 1 expected 0,0,0, got 68,-1246,-43",
		"positions: scanner 9 does not exist (5 scanners)",
	}, result.Errors)
}

func TestRun_UnexpectedDisconnection(t *testing.T) {
	sc := loadTestScenario(t, "disconnected.yaml")
	sc.Expect = Expectation{Beacons: intPtr(58)}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "not linked to the reference")
}

func TestRun_UnexpectedSuccess(t *testing.T) {
	sc := loadTestScenario(t, "disconnected_threshold_11.yaml")
	sc.Expect = Expectation{Unresolved: []int{2}}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "registration succeeded")
}

func TestRun_WrongUnresolved(t *testing.T) {
	sc := loadTestScenario(t, "disconnected.yaml")
	sc.Expect.Unresolved = []int{1, 2}

	result, err := Run(context.Background(), sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, []string{"unresolved: expected [1 2], got [2]"}, result.Errors)
}

func TestRun_MissingInput(t *testing.T) {
	sc := loadTestScenario(t, "canonical.yaml")
	sc.Input = filepath.Join(t.TempDir(), "missing.txt")

	_, err := Run(context.Background(), sc)
	require.Error(t, err)

	var pe *scan.ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestRun_ReferenceOutOfRange(t *testing.T) {
	sc := loadTestScenario(t, "mirrored.yaml")
	sc.Reference = intPtr(5)

	_, err := Run(context.Background(), sc)
	assert.Error(t, err)
}

func TestRun_WorkersDoNotChangeSnapshot(t *testing.T) {
	sc := loadTestScenario(t, "canonical.yaml")

	one, err := Run(context.Background(), sc, WithWorkers(1))
	require.NoError(t, err)
	many, err := Run(context.Background(), sc, WithWorkers(8))
	require.NoError(t, err)

	assert.Equal(t, string(one.Snapshot), string(many.Snapshot))
}
