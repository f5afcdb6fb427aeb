// Package store provides SQLite-backed storage for registration runs.
//
// Each run records:
//   - Runs: configuration, input and result hashes, headline numbers
//   - Scanner poses: the absolute pose of every scanner
//   - Links: every pairwise link the search found
//   - Beacons: the merged global beacon positions
//
// # Ordering
//
// Runs are stamped with a seq from the engine's logical clock. Listings use
// ORDER BY seq ASC, id COLLATE BINARY ASC so results are identical across
// machines. Child rows are read in their natural index order.
//
// # Idempotency
//
// WriteRun is a single transaction. Writing the same run id twice is a
// no-op when the result hash matches and an error when it does not.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Rotations are stored as RFC 8785 canonical JSON produced by internal/canon.
package store
