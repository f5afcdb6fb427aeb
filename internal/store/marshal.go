package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/beaconreg/internal/canon"
	"github.com/roach88/beaconreg/internal/geom"
)

// marshalRotation converts a rotation to canonical JSON TEXT for storage.
func marshalRotation(r geom.Rotation) (string, error) {
	data, err := canon.MarshalCanonical(canon.Rotation(r))
	if err != nil {
		return "", fmt.Errorf("marshal rotation: %w", err)
	}
	return string(data), nil
}

// unmarshalRotation parses a stored rotation and rejects anything that is
// not a proper rotation, which would indicate a corrupted row.
func unmarshalRotation(s string) (geom.Rotation, error) {
	var r geom.Rotation
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return geom.Rotation{}, fmt.Errorf("unmarshal rotation: %w", err)
	}
	if !r.IsProper() {
		return geom.Rotation{}, fmt.Errorf("unmarshal rotation: %s is not a proper rotation", s)
	}
	return r, nil
}
