package engine

import "github.com/roach88/beaconreg/internal/geom"

// MaxManhattan returns the largest Manhattan distance between any two
// scanner origins, or 0 with fewer than two scanners.
func MaxManhattan(poses []geom.Pose) int {
	best := 0
	for i := 0; i < len(poses); i++ {
		for j := i + 1; j < len(poses); j++ {
			if d := geom.Manhattan(poses[i].T, poses[j].T); d > best {
				best = d
			}
		}
	}
	return best
}
