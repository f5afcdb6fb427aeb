package align

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

// Strategy selects which rotation wins when searching a pair.
type Strategy string

const (
	// StrategyFirst accepts the first catalog rotation whose vote clears
	// the threshold.
	StrategyFirst Strategy = "first"

	// StrategyUnique tries every rotation and accepts the one with the
	// highest vote. A tie at the top rejects the pair.
	StrategyUnique Strategy = "unique"
)

// ValidStrategies lists the accepted strategy names.
var ValidStrategies = []Strategy{StrategyFirst, StrategyUnique}

// ParseStrategy converts a flag or config value into a Strategy.
// The empty string selects StrategyFirst.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyFirst:
		return StrategyFirst, nil
	case StrategyUnique:
		return StrategyUnique, nil
	default:
		return "", fmt.Errorf("unknown strategy %q: must be one of %v", s, ValidStrategies)
	}
}

// Edge is a discovered pose between scanners A and B.
// Pose maps B's local frame into A's local frame.
type Edge struct {
	A       int       `json:"a"`
	B       int       `json:"b"`
	Pose    geom.Pose `json:"pose"`
	Overlap int       `json:"overlap"`
}

// Reverse returns the same link seen from B: it maps A's frame into B's.
func (e Edge) Reverse() Edge {
	return Edge{A: e.B, B: e.A, Pose: e.Pose.Inverse(), Overlap: e.Overlap}
}

// Options configures BuildLinks.
type Options struct {
	// Threshold is the minimum vote count; values below 1 use DefaultThreshold.
	Threshold int

	// Strategy defaults to StrategyFirst.
	Strategy Strategy

	// Workers bounds the number of pairs searched concurrently.
	// Zero uses GOMAXPROCS.
	Workers int

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Threshold < 1 {
		o.Threshold = DefaultThreshold
	}
	if o.Strategy == "" {
		o.Strategy = StrategyFirst
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// BuildLinks searches every unordered scanner pair (i < j) for a pose
// relating them. For each pair the catalog is tried in order; pairs that
// never reach the threshold produce no edge.
//
// Pairs are searched concurrently but each pair's rotations are tried
// sequentially, so the result does not depend on scheduling. Edges are
// returned sorted by (A, B).
func BuildLinks(ctx context.Context, clouds []scan.Cloud, catalog []geom.Rotation, opts Options) ([]Edge, error) {
	opts = opts.withDefaults()

	type pair struct{ i, j int }
	pairs := make([]pair, 0, len(clouds)*(len(clouds)-1)/2)
	for i := range clouds {
		for j := i + 1; j < len(clouds); j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	// Each slot is written by exactly one goroutine.
	found := make([]*Edge, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for k, pr := range pairs {
		k, pr := k, pr
		g.Go(func() error {
			e, err := searchPair(gctx, clouds[pr.i], clouds[pr.j], catalog, opts)
			if err != nil {
				return err
			}
			found[k] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build links: %w", err)
	}

	edges := make([]Edge, 0, len(clouds))
	for _, e := range found {
		if e != nil {
			edges = append(edges, *e)
		}
	}

	opts.Logger.Debug("links built",
		"scanners", len(clouds),
		"pairs", len(pairs),
		"edges", len(edges),
		"strategy", string(opts.Strategy),
		"threshold", opts.Threshold,
	)
	return edges, nil
}

// searchPair finds the pose mapping b into a, or returns nil.
func searchPair(ctx context.Context, a, b scan.Cloud, catalog []geom.Rotation, opts Options) (*Edge, error) {
	var (
		best *Edge
		tied bool
		ties int
	)

	for _, r := range catalog {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		match, ok := Correlate(a.Beacons, r.ApplyAll(b.Beacons), opts.Threshold)
		if !ok {
			continue
		}

		e := &Edge{A: a.ID, B: b.ID, Pose: geom.Pose{R: r, T: match.Translation}, Overlap: match.Overlap}
		if opts.Strategy == StrategyFirst {
			opts.Logger.Debug("link found", "a", a.ID, "b", b.ID, "overlap", e.Overlap)
			return e, nil
		}

		switch {
		case best == nil || e.Overlap > best.Overlap:
			best, tied, ties = e, false, 0
		case e.Overlap == best.Overlap:
			tied = true
			ties++
		}
	}

	if best == nil {
		return nil, nil
	}
	if tied {
		opts.Logger.Warn("ambiguous link rejected",
			"a", a.ID,
			"b", b.ID,
			"overlap", best.Overlap,
			"competing_rotations", ties+1,
		)
		return nil, nil
	}

	opts.Logger.Debug("link found", "a", a.ID, "b", b.ID, "overlap", best.Overlap)
	return best, nil
}
