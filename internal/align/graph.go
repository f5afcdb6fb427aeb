package align

import (
	"fmt"
	"slices"

	"github.com/roach88/beaconreg/internal/geom"
)

// Adjacent is one entry of a node's adjacency list.
// Pose maps Neighbor's local frame into the owning node's frame.
type Adjacent struct {
	Neighbor int
	Pose     geom.Pose
}

// Graph is the link graph: scanner id → adjacent scanners with edge poses.
// It is built once and read-only afterwards.
type Graph struct {
	adj [][]Adjacent
}

// NewGraph builds an adjacency list over n scanners. Every edge is stored
// in both directions, the B side carrying the inverse pose.
func NewGraph(n int, edges []Edge) (*Graph, error) {
	g := &Graph{adj: make([][]Adjacent, n)}

	for _, e := range edges {
		if e.A < 0 || e.A >= n || e.B < 0 || e.B >= n {
			return nil, fmt.Errorf("edge %d-%d out of range for %d scanners", e.A, e.B, n)
		}
		if e.A == e.B {
			return nil, fmt.Errorf("self edge on scanner %d", e.A)
		}
		g.adj[e.A] = append(g.adj[e.A], Adjacent{Neighbor: e.B, Pose: e.Pose})
		g.adj[e.B] = append(g.adj[e.B], Adjacent{Neighbor: e.A, Pose: e.Pose.Inverse()})
	}

	return g, nil
}

// Len returns the number of scanners.
func (g *Graph) Len() int {
	return len(g.adj)
}

// Neighbors returns u's adjacency list in edge insertion order.
func (g *Graph) Neighbors(u int) []Adjacent {
	return g.adj[u]
}

// Components returns the connected components, each sorted ascending,
// ordered by their smallest member.
func (g *Graph) Components() [][]int {
	seen := make([]bool, len(g.adj))
	var out [][]int

	for start := range g.adj {
		if seen[start] {
			continue
		}
		seen[start] = true
		comp := []int{start}
		for k := 0; k < len(comp); k++ {
			for _, a := range g.adj[comp[k]] {
				if !seen[a.Neighbor] {
					seen[a.Neighbor] = true
					comp = append(comp, a.Neighbor)
				}
			}
		}
		slices.Sort(comp)
		out = append(out, comp)
	}

	return out
}
