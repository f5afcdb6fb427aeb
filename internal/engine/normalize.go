package engine

import (
	"fmt"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/geom"
)

// Normalize assigns every scanner a pose mapping its local frame into the
// reference scanner's frame.
//
// The walk is breadth-first from reference, which gets the identity pose.
// When scanner u is popped, each neighbor v that has no pose yet gets
// Compose(pose[u], P) where P maps v's frame into u's, and is queued. A
// scanner's pose is therefore fixed by the first resolved neighbor to reach
// it, and every scanner is expanded exactly once.
//
// If scanners remain unresolved when the queue drains, Normalize returns a
// *DisconnectedError listing them in ascending order.
func Normalize(g *align.Graph, reference int) ([]geom.Pose, error) {
	n := g.Len()
	if reference < 0 || reference >= n {
		return nil, fmt.Errorf("reference scanner %d out of range [0, %d)", reference, n)
	}

	poses := make([]geom.Pose, n)
	resolved := make([]bool, n)

	poses[reference] = geom.IdentityPose()
	resolved[reference] = true
	queue := []int{reference}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, adj := range g.Neighbors(u) {
			if resolved[adj.Neighbor] {
				continue
			}
			poses[adj.Neighbor] = geom.Compose(poses[u], adj.Pose)
			resolved[adj.Neighbor] = true
			queue = append(queue, adj.Neighbor)
		}
	}

	var unresolved []int
	for id, ok := range resolved {
		if !ok {
			unresolved = append(unresolved, id)
		}
	}
	if len(unresolved) > 0 {
		return nil, &DisconnectedError{Reference: reference, Unresolved: unresolved}
	}

	return poses, nil
}
