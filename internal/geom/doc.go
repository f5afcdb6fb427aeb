// Package geom provides the integer geometry shared by every other package:
// points, the 24 axis-aligned rotations, and rigid poses.
//
// This package imports nothing internal. All coordinates are exact integers,
// so equality is exact and points can be used directly as map keys.
//
// Conventions:
//   - Rotation is row-major; Apply computes R·p.
//   - Pose{R, T} maps a local point p to R·p + T.
//   - Compose(p1, p2) applies p2 first, then p1.
package geom
