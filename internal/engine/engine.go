package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/canon"
	"github.com/roach88/beaconreg/internal/geom"
	"github.com/roach88/beaconreg/internal/scan"
)

// Engine registers scanner reports with a fixed configuration.
//
// Thread-safety: Register may be called from several goroutines; the engine
// holds no per-run state.
type Engine struct {
	cfg     Config
	logger  *slog.Logger
	runIDs  RunIDGenerator
	catalog []geom.Rotation
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRunIDGenerator sets the run id source. Default: UUIDv7Generator.
func WithRunIDGenerator(g RunIDGenerator) Option {
	return func(e *Engine) {
		e.runIDs = g
	}
}

// WithCatalog replaces the rotation catalog. Tests use this to restrict the
// search; production code keeps geom.Catalog().
func WithCatalog(rotations []geom.Rotation) Option {
	return func(e *Engine) {
		e.catalog = slices.Clone(rotations)
	}
}

// New creates an Engine. The config is checked by Register, not here, so
// callers can build an engine before the input is known.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		logger:  slog.Default(),
		runIDs:  UUIDv7Generator{},
		catalog: geom.Catalog(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cfg.Strategy == "" {
		e.cfg.Strategy = align.StrategyFirst
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Result is a completed registration.
type Result struct {
	RunID     string `json:"run_id"`
	InputHash string `json:"input_hash"`
	Config    Config `json:"config"`

	// Poses maps each scanner's local frame into the reference frame,
	// indexed by scanner id. Poses[i].T is scanner i's position.
	Poses []geom.Pose `json:"poses"`

	// Links are every pairwise link found, sorted by (A, B). Not every link
	// is used by normalization.
	Links []align.Edge `json:"links"`

	// Beacons are the distinct global beacon positions, sorted.
	Beacons []geom.Point3 `json:"beacons"`

	MaxDistance int `json:"max_distance"`
}

// BeaconCount returns the number of distinct beacons.
func (r *Result) BeaconCount() int {
	return len(r.Beacons)
}

// Positions returns each scanner's position in the reference frame.
func (r *Result) Positions() []geom.Point3 {
	out := make([]geom.Point3, len(r.Poses))
	for i, p := range r.Poses {
		out[i] = p.T
	}
	return out
}

// Hash returns the content hash of the registration outcome. Two runs over
// the same input and config have the same hash.
func (r *Result) Hash() (string, error) {
	return canon.ResultHash(r.Poses, r.Beacons, r.MaxDistance)
}

// Register aligns every scanner into the reference frame, merges the
// beacons and measures the largest scanner separation.
//
// Clouds must be indexed by id (clouds[i].ID == i), as scan.Parse returns
// them. No partial result is returned: if any scanner cannot be linked to
// the reference, Register fails with a DISCONNECTED RegistrationError.
func (e *Engine) Register(ctx context.Context, clouds []scan.Cloud) (*Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := validateClouds(clouds, e.cfg.Reference); err != nil {
		return nil, err
	}

	inputHash, err := canon.InputHash(clouds)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	runID := e.runIDs.Generate()
	logger := e.logger.With("run_id", runID)

	logger.Info("registration started",
		"scanners", len(clouds),
		"beacons", scan.TotalBeacons(clouds),
		"threshold", e.cfg.Threshold,
		"strategy", string(e.cfg.Strategy),
	)

	links, err := align.BuildLinks(ctx, clouds, e.catalog, align.Options{
		Threshold: e.cfg.Threshold,
		Strategy:  e.cfg.Strategy,
		Workers:   e.cfg.Workers,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	graph, err := align.NewGraph(len(clouds), links)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	poses, err := Normalize(graph, e.cfg.Reference)
	if err != nil {
		var de *DisconnectedError
		if errors.As(err, &de) {
			logger.Warn("registration incomplete",
				"unresolved", de.Unresolved,
				"components", len(graph.Components()),
			)
			return nil, NewDisconnectedError(de)
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	beacons := MergeBeacons(clouds, poses)
	result := &Result{
		RunID:       runID,
		InputHash:   inputHash,
		Config:      e.cfg,
		Poses:       poses,
		Links:       links,
		Beacons:     beacons,
		MaxDistance: MaxManhattan(poses),
	}

	logger.Info("registration complete",
		"links", len(links),
		"beacons", result.BeaconCount(),
		"max_distance", result.MaxDistance,
	)
	return result, nil
}

func validateClouds(clouds []scan.Cloud, reference int) error {
	if len(clouds) == 0 {
		return &RegistrationError{
			Code:    ErrCodeEmptyInput,
			Message: "no scanners to register",
		}
	}
	for i, c := range clouds {
		if c.ID != i {
			return &RegistrationError{
				Code:    ErrCodeInvalidInput,
				Message: fmt.Sprintf("scanner at position %d has id %d", i, c.ID),
			}
		}
		if c.Len() == 0 {
			label := c.Label
			if label == "" {
				label = fmt.Sprintf("%d", c.ID)
			}
			return NewEmptyCloudError(c.ID, label)
		}
	}
	if reference >= len(clouds) {
		return invalidConfig("reference scanner %d out of range [0, %d)", reference, len(clouds))
	}
	return nil
}
