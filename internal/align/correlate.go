package align

import "github.com/roach88/beaconreg/internal/geom"

// DefaultThreshold is the minimum number of agreeing beacon pairs for two
// clouds to be considered overlapping.
const DefaultThreshold = 12

// Match is the outcome of a successful correlation.
type Match struct {
	// Translation maps the rotated cloud onto the reference cloud:
	// p = q + Translation for every overlapping pair.
	Translation geom.Point3

	// Overlap is the number of pairs that voted for Translation.
	Overlap int
}

// Correlate tallies every difference a[i] − b[j] and returns the most
// frequent one when its count reaches threshold. b must already be rotated
// into a's orientation.
//
// Ties are broken by scan order: a is scanned in the outer loop and b in the
// inner loop, and the first difference to reach the top count wins.
// A threshold below 1 is treated as 1. Empty inputs never match.
func Correlate(a, b []geom.Point3, threshold int) (Match, bool) {
	best, ok := peak(a, b)
	if !ok {
		return Match{}, false
	}
	if threshold < 1 {
		threshold = 1
	}
	if best.Overlap < threshold {
		return best, false
	}
	return best, true
}

// peak returns the most voted difference regardless of any threshold.
func peak(a, b []geom.Point3) (Match, bool) {
	if len(a) == 0 || len(b) == 0 {
		return Match{}, false
	}

	votes := make(map[geom.Point3]int, len(a)*len(b))
	var best Match
	for _, p := range a {
		for _, q := range b {
			d := p.Sub(q)
			votes[d]++
			if n := votes[d]; n > best.Overlap {
				best = Match{Translation: d, Overlap: n}
			}
		}
	}
	return best, true
}
