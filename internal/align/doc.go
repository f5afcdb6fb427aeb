// Package align discovers pairwise poses between scanner clouds.
//
// Alignment is correspondence free: for a candidate rotation, every
// difference p − R·q between a beacon p of one cloud and a rotated beacon q
// of the other is tallied, and the most frequent difference is the relative
// translation. When enough beacons genuinely overlap they all agree on the
// same difference, so the tally peaks sharply at the true offset.
//
// BuildLinks runs this vote for every scanner pair and every catalog
// rotation, producing the edges of the link graph. NewGraph turns those
// edges into an adjacency list used for pose propagation.
package align
