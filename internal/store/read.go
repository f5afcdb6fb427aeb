package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/beaconreg/internal/align"
	"github.com/roach88/beaconreg/internal/geom"
)

const runColumns = `id, seq, source, input_hash, result_hash, threshold, strategy, reference,
	scanner_count, beacon_count, max_distance`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(
		&r.ID,
		&r.Seq,
		&r.Source,
		&r.InputHash,
		&r.ResultHash,
		&r.Threshold,
		&r.Strategy,
		&r.Reference,
		&r.Scanners,
		&r.BeaconCount,
		&r.MaxDistance,
	)
	return r, err
}

// ReadRun returns the summary of one run, or ErrRunNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// ListRuns returns every run ordered by seq ASC, id COLLATE BINARY ASC.
// Returns an empty slice (not nil) if the store has no runs.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	return s.queryRuns(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC, id COLLATE BINARY ASC`)
}

// FindRunsByInput returns the runs registered from the given input hash,
// in seq order.
func (s *Store) FindRunsByInput(ctx context.Context, inputHash string) ([]Run, error) {
	return s.queryRuns(ctx, `
		SELECT `+runColumns+` FROM runs
		WHERE input_hash = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, inputHash)
}

func (s *Store) queryRuns(ctx context.Context, query string, args ...any) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// LastSeq returns the highest recorded seq, or 0 for an empty store.
// The engine resumes its clock from this value.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	return seq.Int64, nil
}

// ReadPoses returns a run's scanner poses indexed by scanner id.
func (s *Store) ReadPoses(ctx context.Context, runID string) ([]geom.Pose, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rotation, tx, ty, tz FROM scanner_poses
		WHERE run_id = ?
		ORDER BY scanner ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query poses: %w", err)
	}
	defer rows.Close()

	poses := []geom.Pose{}
	for rows.Next() {
		var (
			rot  string
			pose geom.Pose
		)
		if err := rows.Scan(&rot, &pose.T.X, &pose.T.Y, &pose.T.Z); err != nil {
			return nil, fmt.Errorf("scan pose: %w", err)
		}
		if pose.R, err = unmarshalRotation(rot); err != nil {
			return nil, fmt.Errorf("pose %d: %w", len(poses), err)
		}
		poses = append(poses, pose)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate poses: %w", err)
	}
	return poses, nil
}

// ReadLinks returns a run's links ordered by (A, B).
func (s *Store) ReadLinks(ctx context.Context, runID string) ([]align.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a, b, rotation, tx, ty, tz, overlap FROM links
		WHERE run_id = ?
		ORDER BY a ASC, b ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query links: %w", err)
	}
	defer rows.Close()

	links := []align.Edge{}
	for rows.Next() {
		var (
			rot string
			e   align.Edge
		)
		if err := rows.Scan(&e.A, &e.B, &rot, &e.Pose.T.X, &e.Pose.T.Y, &e.Pose.T.Z, &e.Overlap); err != nil {
			return nil, fmt.Errorf("scan link: %w", err)
		}
		if e.Pose.R, err = unmarshalRotation(rot); err != nil {
			return nil, fmt.Errorf("link %d-%d: %w", e.A, e.B, err)
		}
		links = append(links, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate links: %w", err)
	}
	return links, nil
}

// ReadBeacons returns a run's merged beacons in stored order.
func (s *Store) ReadBeacons(ctx context.Context, runID string) ([]geom.Point3, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT x, y, z FROM beacons
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query beacons: %w", err)
	}
	defer rows.Close()

	beacons := []geom.Point3{}
	for rows.Next() {
		var b geom.Point3
		if err := rows.Scan(&b.X, &b.Y, &b.Z); err != nil {
			return nil, fmt.Errorf("scan beacon: %w", err)
		}
		beacons = append(beacons, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate beacons: %w", err)
	}
	return beacons, nil
}

// ReadRunRecord loads a run with all of its child rows.
func (s *Store) ReadRunRecord(ctx context.Context, id string) (RunRecord, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return RunRecord{}, err
	}
	rec := RunRecord{Run: run}
	if rec.Poses, err = s.ReadPoses(ctx, id); err != nil {
		return RunRecord{}, err
	}
	if rec.Links, err = s.ReadLinks(ctx, id); err != nil {
		return RunRecord{}, err
	}
	if rec.Beacons, err = s.ReadBeacons(ctx, id); err != nil {
		return RunRecord{}, err
	}
	return rec, nil
}
