package testutil

import (
	"math/rand"
	"slices"
	"strconv"

	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

// Expected results for Canonical.
const (
	CanonicalBeacons     = 79
	CanonicalMaxDistance = 3621
)

// System is a synthetic scanner arrangement with known ground truth.
type System struct {
	// Clouds are the local-frame reports, one per scanner.
	Clouds []scan.Cloud

	// Poses are the true local → global poses, indexed by scanner id.
	Poses []geom.Pose

	// Global holds the distinct global beacons, sorted with geom.Compare.
	Global []geom.Point3
}

// Positions returns the true scanner positions.
func (s System) Positions() []geom.Point3 {
	out := make([]geom.Point3, len(s.Poses))
	for i, p := range s.Poses {
		out[i] = p.T
	}
	return out
}

// Builder assembles a System by placing scanners and handing out fresh,
// globally unique beacons to groups of scanners. Beacon coordinates are
// drawn from a seeded source so systems are reproducible.
type Builder struct {
	rng     *rand.Rand
	spread  int
	used    map[geom.Point3]struct{}
	poses   []geom.Pose
	members [][]geom.Point3
}

// NewBuilder creates a builder drawing coordinates in [-1000, 1000].
func NewBuilder(seed int64) *Builder {
	return &Builder{
		rng:    rand.New(rand.NewSource(seed)),
		spread: 1000,
		used:   make(map[geom.Point3]struct{}),
	}
}

// AddScanner places a scanner with the given local → global pose and
// returns its id.
func (b *Builder) AddScanner(pose geom.Pose) int {
	b.poses = append(b.poses, pose)
	b.members = append(b.members, nil)
	return len(b.poses) - 1
}

// Shared creates n new global beacons observed by every listed scanner.
// With a single scanner the beacons are private to it.
func (b *Builder) Shared(n int, scanners ...int) *Builder {
	for k := 0; k < n; k++ {
		p := b.fresh()
		for _, s := range scanners {
			b.members[s] = append(b.members[s], p)
		}
	}
	return b
}

// Build converts every scanner's global beacons into its local frame.
// Local beacon order is shuffled so clouds do not line up index by index.
func (b *Builder) Build() System {
	sys := System{
		Clouds: make([]scan.Cloud, len(b.poses)),
		Poses:  slices.Clone(b.poses),
	}

	for id, pose := range b.poses {
		inv := pose.Inverse()
		local := inv.ApplyAll(b.members[id])
		b.rng.Shuffle(len(local), func(i, j int) { local[i], local[j] = local[j], local[i] })
		sys.Clouds[id] = scan.Cloud{ID: id, Label: strconv.Itoa(id), Beacons: local}
	}

	for p := range b.used {
		sys.Global = append(sys.Global, p)
	}
	slices.SortFunc(sys.Global, geom.Compare)
	return sys
}

func (b *Builder) fresh() geom.Point3 {
	for {
		p := geom.Point3{
			X: b.rng.Intn(2*b.spread+1) - b.spread,
			Y: b.rng.Intn(2*b.spread+1) - b.spread,
			Z: b.rng.Intn(2*b.spread+1) - b.spread,
		}
		if _, dup := b.used[p]; !dup {
			b.used[p] = struct{}{}
			return p
		}
	}
}

// Canonical reproduces the five-scanner reference arrangement: scanners at
// the reference positions, linked 0–1, 1–3, 1–4 and 4–2 by exactly twelve
// shared beacons each, for 79 distinct beacons and a largest scanner
// separation of 3621 (between scanners 2 and 3).
func Canonical() System {
	b := NewBuilder(19)

	s0 := b.AddScanner(geom.IdentityPose())
	s1 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{-1, 0, 0}, {0, 1, 0}, {0, 0, -1}},
		T: geom.Point3{X: 68, Y: -1246, Z: -43},
	})
	s2 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
		T: geom.Point3{X: 1105, Y: -1205, Z: 1229},
	})
	s3 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
		T: geom.Point3{X: -92, Y: -2380, Z: -20},
	})
	s4 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{0, 0, -1}, {0, 1, 0}, {1, 0, 0}},
		T: geom.Point3{X: -20, Y: -1133, Z: 1061},
	})

	b.Shared(12, s0, s1).
		Shared(12, s1, s3).
		Shared(12, s1, s4).
		Shared(12, s4, s2).
		Shared(8, s0).
		Shared(3, s1).
		Shared(8, s2).
		Shared(6, s3).
		Shared(6, s4)

	return b.Build()
}

// Disconnected builds three scanners where scanner 2 shares only 11
// beacons with scanner 0 and 5 with scanner 1, below the default
// threshold, while scanners 0 and 1 overlap properly.
func Disconnected() System {
	b := NewBuilder(7)

	s0 := b.AddScanner(geom.IdentityPose())
	s1 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{0, 0, 1}, {0, 1, 0}, {-1, 0, 0}},
		T: geom.Point3{X: 400, Y: -30, Z: 250},
	})
	s2 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
		T: geom.Point3{X: -700, Y: 90, Z: 15},
	})

	b.Shared(12, s0, s1).
		Shared(11, s0, s2).
		Shared(5, s1, s2).
		Shared(10, s0).
		Shared(10, s1).
		Shared(10, s2)

	return b.Build()
}

// Mirrored builds two scanners that observe exactly the same n beacons
// from different poses.
func Mirrored(n int) System {
	b := NewBuilder(3)

	s0 := b.AddScanner(geom.IdentityPose())
	s1 := b.AddScanner(geom.Pose{
		R: geom.Rotation{{0, 1, 0}, {-1, 0, 0}, {0, 0, 1}},
		T: geom.Point3{X: -150, Y: 1200, Z: -40},
	})

	b.Shared(n, s0, s1)
	return b.Build()
}
