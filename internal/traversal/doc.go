// Package traversal orders a point collection by distance from a fixed anchor.
//
// An [Engine] is created with a start identity, which is visited up front.
// Each call to [Engine.Step] selects the next batch of unvisited points
// closest to the start. Distances are always measured from the original
// anchor, not from the previous pick, so the result is a radial ordering
// rather than a nearest-neighbor tour.
//
// # Determinism
//
// Candidates are scanned in ascending identity order and the first strictly
// closer candidate wins, so equal distances resolve to the smallest identity.
//
// # Thread Safety
//
// Engine instances are NOT thread-safe; one animation loop owns each engine.
package traversal
