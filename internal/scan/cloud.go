package scan

import "github.com/roach88/beaconreg/internal/geom"

// Cloud is one scanner's beacon report in its local frame.
// Clouds are created by the parser and treated as read-only afterwards.
type Cloud struct {
	// ID is the zero-based block order in the report.
	ID int `json:"id"`

	// Label is the N from the "--- scanner N ---" header, as written.
	Label string `json:"label"`

	// Beacons holds the distinct local-frame positions in report order.
	Beacons []geom.Point3 `json:"beacons"`
}

// Len returns the number of beacons.
func (c Cloud) Len() int {
	return len(c.Beacons)
}

// TotalBeacons sums the beacon counts of all clouds.
func TotalBeacons(clouds []Cloud) int {
	n := 0
	for _, c := range clouds {
		n += c.Len()
	}
	return n
}
