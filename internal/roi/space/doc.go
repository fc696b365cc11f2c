// Package space owns the density layer that region mining runs over.
//
// Responsibilities: per-cell visit tallies (DensityCell, MiningCell), the
// arena-backed DensityGrid that maps flattened cell ids to cells, the builder
// that rasterises traces into visits, the RoI accumulator and the geometric
// views of an RoI (centroid, bounds, summary).
// Key types: Grid, MiningCell, RoI, Traces, MiningSpace.
//
// Dependency rule: space depends on ndgrid for all index math and never on
// mining. Cells are only ever addressed by ndgrid.CellID; no pointer into the
// arena escapes the package.
package space
