package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future change of encoding.
const (
	DomainInput  = "beaconreg/input/v1"
	DomainResult = "beaconreg/result/v1"
)

// hashWithDomain computes SHA256(domain || 0x00 || data).
// The null separator keeps domain and data from running together.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputHash identifies a scanner report. Block order, labels and beacon
// order all contribute, matching what the parser would produce from the
// same file.
func InputHash(clouds []scan.Cloud) (string, error) {
	arr := make(Array, len(clouds))
	for i, c := range clouds {
		arr[i] = Object{
			"id":      Int(c.ID),
			"label":   String(c.Label),
			"beacons": Points(c.Beacons),
		}
	}

	data, err := MarshalCanonical(Object{"scanners": arr})
	if err != nil {
		return "", fmt.Errorf("InputHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainInput, data), nil
}

// ResultHash identifies the outcome of a registration: every scanner's
// absolute pose, the merged beacons in the given order and the maximum
// scanner distance. Run IDs are excluded so two runs over the same input
// hash identically.
func ResultHash(poses []geom.Pose, beacons []geom.Point3, maxDistance int) (string, error) {
	ps := make(Array, len(poses))
	for i, p := range poses {
		ps[i] = Pose(p)
	}

	data, err := MarshalCanonical(Object{
		"poses":        ps,
		"beacons":      Points(beacons),
		"max_distance": Int(maxDistance),
	})
	if err != nil {
		return "", fmt.Errorf("ResultHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainResult, data), nil
}

// MustInputHash is like InputHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustInputHash(clouds []scan.Cloud) string {
	h, err := InputHash(clouds)
	if err != nil {
		panic(err)
	}
	return h
}
