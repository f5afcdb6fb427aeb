package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/beaconreg/internal/engine"
	"github.com/roach88/beaconreg/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// registerCanonical registers the canonical system under the given run id
// and returns it as a record stamped with seq.
func registerCanonical(t *testing.T, runID string, seq int64) RunRecord {
	t.Helper()
	e := engine.New(engine.DefaultConfig(), engine.WithRunIDGenerator(engine.NewFixedGenerator(runID)))
	res, err := e.Register(context.Background(), testutil.Canonical().Clouds)
	require.NoError(t, err)

	rec, err := NewRunRecord(res, seq, "canonical.txt")
	require.NoError(t, err)
	return rec
}
