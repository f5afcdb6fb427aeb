package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a run with its poses, links and beacons in one
// transaction.
//
// Uses ON CONFLICT(id) DO NOTHING for idempotency: rewriting a run that is
// already stored returns inserted=false. If the stored run has a different
// result hash the write fails, since run ids must identify one outcome.
func (s *Store) WriteRun(ctx context.Context, rec RunRecord) (inserted bool, err error) {
	if rec.Scanners != len(rec.Poses) {
		return false, fmt.Errorf("write run: scanners = %d but %d poses", rec.Scanners, len(rec.Poses))
	}
	if rec.BeaconCount != len(rec.Beacons) {
		return false, fmt.Errorf("write run: beacon_count = %d but %d beacons", rec.BeaconCount, len(rec.Beacons))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, input_hash, result_hash, threshold, strategy, reference,
		 scanner_count, beacon_count, max_distance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Seq,
		rec.Source,
		rec.InputHash,
		rec.ResultHash,
		rec.Threshold,
		rec.Strategy,
		rec.Reference,
		rec.Scanners,
		rec.BeaconCount,
		rec.MaxDistance,
	)
	if err != nil {
		return false, fmt.Errorf("write run: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write run: rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var existing string
		err = tx.QueryRowContext(ctx, `SELECT result_hash FROM runs WHERE id = ?`, rec.ID).Scan(&existing)
		if err != nil {
			return false, fmt.Errorf("write run: select existing: %w", err)
		}
		if existing != rec.ResultHash {
			return false, fmt.Errorf("write run: run %s already stored with result %s", rec.ID, existing)
		}
		return false, nil
	}

	for id, pose := range rec.Poses {
		rot, err := marshalRotation(pose.R)
		if err != nil {
			return false, fmt.Errorf("write run: pose %d: %w", id, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO scanner_poses (run_id, scanner, rotation, tx, ty, tz)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.ID, id, rot, pose.T.X, pose.T.Y, pose.T.Z)
		if err != nil {
			return false, fmt.Errorf("write run: pose %d: %w", id, err)
		}
	}

	for _, link := range rec.Links {
		rot, err := marshalRotation(link.Pose.R)
		if err != nil {
			return false, fmt.Errorf("write run: link %d-%d: %w", link.A, link.B, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO links (run_id, a, b, rotation, tx, ty, tz, overlap)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, rec.ID, link.A, link.B, rot, link.Pose.T.X, link.Pose.T.Y, link.Pose.T.Z, link.Overlap)
		if err != nil {
			return false, fmt.Errorf("write run: link %d-%d: %w", link.A, link.B, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO beacons (run_id, idx, x, y, z)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return false, fmt.Errorf("write run: prepare beacons: %w", err)
	}
	defer stmt.Close()

	for idx, b := range rec.Beacons {
		if _, err := stmt.ExecContext(ctx, rec.ID, idx, b.X, b.Y, b.Z); err != nil {
			return false, fmt.Errorf("write run: beacon %d: %w", idx, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write run: commit: %w", err)
	}

	return true, nil
}
