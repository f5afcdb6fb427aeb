package store

import (
	"fmt"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/engine"
)

// NewRunRecord converts a registration result into a record stamped with
// seq. source is informational, usually the input file path.
func NewRunRecord(res *engine.Result, seq int64, source string) (RunRecord, error) {
	resultHash, err := res.Hash()
	if err != nil {
		return RunRecord{}, fmt.Errorf("new run record: %w", err)
	}

	return RunRecord{
		Run: Run{
			ID:          res.RunID,
			Seq:         seq,
			Source:      source,
			InputHash:   res.InputHash,
			ResultHash:  resultHash,
			Threshold:   res.Config.Threshold,
			Strategy:    string(res.Config.Strategy),
			Reference:   res.Config.Reference,
			Scanners:    len(res.Poses),
			BeaconCount: res.BeaconCount(),
			MaxDistance: res.MaxDistance,
		},
		Poses:   res.Poses,
		Links:   res.Links,
		Beacons: res.Beacons,
	}, nil
}

// Config reconstructs the engine configuration a run was registered with.
// Workers is not recorded since it never affects the result.
func (r Run) Config() engine.Config {
	return engine.Config{
		Threshold: r.Threshold,
		Strategy:  align.Strategy(r.Strategy),
		Reference: r.Reference,
	}
}
