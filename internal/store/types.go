package store

import (
	"errors"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/geom"
)

// ErrRunNotFound is returned when a run id is not in the store.
var ErrRunNotFound = errors.New("run not found")

// Run is the summary row of a registration run.
type Run struct {
	ID          string `json:"id"`
	Seq         int64  `json:"seq"`
	Source      string `json:"source"`
	InputHash   string `json:"input_hash"`
	ResultHash  string `json:"result_hash"`
	Threshold   int    `json:"threshold"`
	Strategy    string `json:"strategy"`
	Reference   int    `json:"reference"`
	Scanners    int    `json:"scanners"`
	BeaconCount int    `json:"beacon_count"`
	MaxDistance int    `json:"max_distance"`
}

// RunRecord is a complete run as written by WriteRun.
// Poses are indexed by scanner id; Scanners and BeaconCount in Run must
// agree with len(Poses) and len(Beacons).
type RunRecord struct {
	Run
	Poses   []geom.Pose
	Links   []align.Edge
	Beacons []geom.Point3
}
