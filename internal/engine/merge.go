package engine

import (
	"slices"

	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

// MergeBeacons maps every beacon of every cloud through its scanner's pose
// and returns the distinct global positions, sorted with geom.Compare.
// poses is indexed by cloud id and must cover every cloud.
func MergeBeacons(clouds []scan.Cloud, poses []geom.Pose) []geom.Point3 {
	seen := make(map[geom.Point3]struct{}, scan.TotalBeacons(clouds))
	for _, c := range clouds {
		pose := poses[c.ID]
		for _, b := range c.Beacons {
			seen[pose.Apply(b)] = struct{}{}
		}
	}

	out := make([]geom.Point3, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.SortFunc(out, geom.Compare)
	return out
}
