package harness

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/beaconreg/internal/canon"
	"github.com/roach88/beaconreg/internal/engine"
)

// Snapshot captures the outcome of a scenario for golden comparison.
// Run ids are excluded so snapshots only change when the registration does.
type Snapshot struct {
	Scenario   string
	InputHash  string
	Config     engine.Config
	Result     *engine.Result
	Unresolved []int
}

// toCanonical converts the snapshot to a canonical object. Workers is
// omitted since it never affects the outcome.
func (s *Snapshot) toCanonical() (canon.Object, error) {
	obj := canon.Object{
		"scenario":   canon.String(s.Scenario),
		"input_hash": canon.String(s.InputHash),
		"threshold":  canon.Int(s.Config.Threshold),
		"strategy":   canon.String(string(s.Config.Strategy)),
		"reference":  canon.Int(s.Config.Reference),
	}

	if s.Result == nil {
		unresolved := make(canon.Array, len(s.Unresolved))
		for i, id := range s.Unresolved {
			unresolved[i] = canon.Int(id)
		}
		obj["unresolved"] = unresolved
		return obj, nil
	}

	links := make(canon.Array, len(s.Result.Links))
	for i, l := range s.Result.Links {
		links[i] = canon.Object{
			"a":       canon.Int(l.A),
			"b":       canon.Int(l.B),
			"overlap": canon.Int(l.Overlap),
		}
	}

	resultHash, err := s.Result.Hash()
	if err != nil {
		return nil, err
	}

	obj["beacons"] = canon.Int(s.Result.BeaconCount())
	obj["max_distance"] = canon.Int(s.Result.MaxDistance)
	obj["positions"] = canon.Points(s.Result.Positions())
	obj["links"] = links
	obj["result_hash"] = canon.String(resultHash)
	return obj, nil
}

// Marshal returns the snapshot as canonical JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	obj, err := s.toCanonical()
	if err != nil {
		return nil, err
	}
	return canon.MarshalCanonical(obj)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario cannot be executed. Expectation
// failures and golden mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		t.Errorf("%s: %s", scenario.Name, e)
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, result.Snapshot)
}

// GoldenPath returns the golden file for a scenario name under dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+".golden")
}

// CompareGolden reports whether the golden file at path holds exactly the
// result's snapshot. A missing file is reported as os.ErrNotExist.
func CompareGolden(path string, result *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(want, result.Snapshot), nil
}

// WriteGolden writes the result's snapshot to path, creating parent
// directories as needed.
func WriteGolden(path string, result *Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, result.Snapshot, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
