package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/canon"
	"github.com/roach88/beaconreg/internal/engine"
	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
	"github.com/roach88/beaconreg/internal/testutil"
)

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger  *slog.Logger
	workers int
}

// WithLogger sends engine logs to l. By default they are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// WithWorkers bounds the pair search; the outcome does not depend on it.
func WithWorkers(n int) Option {
	return func(c *runConfig) {
		c.workers = n
	}
}

// Config returns the engine configuration a scenario runs with.
func (s *Scenario) Config() engine.Config {
	cfg := engine.DefaultConfig()
	if s.Threshold != nil {
		cfg.Threshold = *s.Threshold
	}
	if s.Strategy != "" {
		cfg.Strategy = align.Strategy(s.Strategy)
	}
	if s.Reference != nil {
		cfg.Reference = *s.Reference
	}
	return cfg
}

// Run executes a scenario and checks its expectations.
//
// The returned error is reserved for problems running the scenario at all:
// an unreadable report, an invalid configuration or cancellation. A wrong
// outcome, including an unexpected disconnection, is reported through
// Result.Pass and Result.Errors.
func Run(ctx context.Context, scenario *Scenario, opts ...Option) (*Result, error) {
	rc := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&rc)
	}

	clouds, err := scan.ParseFile(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	cfg := scenario.Config()
	cfg.Workers = rc.workers

	eng := engine.New(cfg,
		engine.WithLogger(rc.logger),
		engine.WithRunIDGenerator(testutil.NewFixedRunIDGenerator(scenario.RunID)),
	)

	inputHash, err := canon.InputHash(clouds)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	reg, err := eng.Register(ctx, clouds)
	switch {
	case err == nil:
		result.Registration = reg
		checkRegistration(result, scenario.Expect, reg)
	case engine.IsDisconnected(err):
		result.Unresolved = engine.UnresolvedScanners(err)
		checkDisconnection(result, scenario.Expect, result.Unresolved)
	default:
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	snap := Snapshot{
		Scenario:   scenario.Name,
		InputHash:  inputHash,
		Config:     cfg,
		Result:     reg,
		Unresolved: result.Unresolved,
	}
	if result.Snapshot, err = snap.Marshal(); err != nil {
		return nil, fmt.Errorf("scenario %s: snapshot: %w", scenario.Name, err)
	}

	return result, nil
}

func checkRegistration(result *Result, expect Expectation, reg *engine.Result) {
	if expect.ExpectsDisconnection() {
		result.AddError(fmt.Sprintf("expected scanners %v to be unresolved, but registration succeeded", expect.Unresolved))
		return
	}

	if expect.Beacons != nil && *expect.Beacons != reg.BeaconCount() {
		result.AddError(fmt.Sprintf("beacons: expected %d, got %d", *expect.Beacons, reg.BeaconCount()))
	}

	if expect.MaxDistance != nil && *expect.MaxDistance != reg.MaxDistance {
		result.AddError(fmt.Sprintf("max_distance: expected %d, got %d", *expect.MaxDistance, reg.MaxDistance))
	}

	ids := make([]int, 0, len(expect.Positions))
	for id := range expect.Positions {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	positions := reg.Positions()
	for _, id := range ids {
		if id < 0 || id >= len(positions) {
			result.AddError(fmt.Sprintf("positions: scanner %d does not exist (%d scanners)", id, len(positions)))
			continue
		}
		c := expect.Positions[id]
		want := geom.Point3{X: c[0], Y: c[1], Z: c[2]}
		if got := positions[id]; got != want {
			result.AddError(fmt.Sprintf("positions: scanner %d expected %s, got %s", id, want, got))
		}
	}
}

func checkDisconnection(result *Result, expect Expectation, unresolved []int) {
	if !expect.ExpectsDisconnection() {
		result.AddError(fmt.Sprintf("registration failed: scanners %v not linked to the reference", unresolved))
		return
	}
	if !slices.Equal(expect.Unresolved, unresolved) {
		result.AddError(fmt.Sprintf("unresolved: expected %v, got %v", expect.Unresolved, unresolved))
	}
}
