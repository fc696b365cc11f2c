// Package mining grows regions of interest out of a space.MiningSpace.
//
// Responsibilities: the shared seed/expand template (Miner.Run), the six
// expansion policies selected by Algorithm, and the output helpers that turn
// RoIs back into per-trace visit sequences (Visits) or coordinate paths
// (PatternPath).
//
// Each policy is a value holding two hooks: pick chooses the next cell from
// the current cell's neighbours and handle decides whether the region grows
// into it. Threshold and Hybrid replace the template run entirely.
//
// Dependency rule: mining depends on space and ndgrid only. A run mutates the
// processed flags of the space it is given, so callers must not run two
// miners over the same space at once.
package mining
