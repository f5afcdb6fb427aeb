// Package engine registers a set of scanner reports into one global frame.
//
// Registration runs in four stages:
//
//  1. Link search: every scanner pair is aligned against the rotation
//     catalog (align.BuildLinks). Pairs are searched in parallel; each
//     pair's rotations are tried in catalog order.
//  2. Normalization: starting from the reference scanner with the identity
//     pose, a breadth-first walk over the link graph composes poses until
//     every reachable scanner is resolved. Unreachable scanners are a fatal
//     DISCONNECTED error naming their ids.
//  3. Merge: every beacon is mapped into the reference frame and exact
//     duplicates are removed.
//  4. Distance: the largest Manhattan distance between two scanner origins.
//
// Registration is deterministic. The same report, threshold, strategy and
// reference always produce the same poses, beacons and result hash, whatever
// the number of workers.
//
// Persisted runs are stamped with a logical sequence number from Clock,
// never a wall-clock time.
package engine
