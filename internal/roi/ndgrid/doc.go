// Package ndgrid owns the indexing arithmetic of an n-dimensional,
// axis-aligned grid.
//
// Responsibilities: continuous coordinate -> per-dimension index, per-dimension
// index <-> flattened cell id (row-major, last dimension fastest), cell bounds
// and corners, Chebyshev neighbourhoods and rasterised paths between points.
// Key types: Grid, Range, CellID.
//
// Dependency rule: ndgrid is pure math. It holds no cell state and must not
// import any other roi package.
package ndgrid
