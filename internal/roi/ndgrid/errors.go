package ndgrid

import "errors"

var (
	// ErrNoDimensions indicates a grid was requested with zero dimensions.
	ErrNoDimensions = errors.New("ndgrid: grid must have at least one dimension")
	// ErrDimensionMismatch indicates a point, index tuple or bounds slice whose
	// length differs from the grid dimensionality.
	ErrDimensionMismatch = errors.New("ndgrid: dimensionality mismatch")
	// ErrCellCount indicates a non-positive number of cells in some dimension,
	// or a total cell count that does not fit in an int.
	ErrCellCount = errors.New("ndgrid: cells per dimension must be positive")
	// ErrInvalidRange indicates a range whose max is below its min.
	ErrInvalidRange = errors.New("ndgrid: range max must not be below min")
	// ErrNonFinite indicates a NaN or infinite coordinate or bound.
	ErrNonFinite = errors.New("ndgrid: coordinate is not finite")
	// ErrOutOfBounds indicates a point or index tuple outside the grid.
	ErrOutOfBounds = errors.New("ndgrid: outside grid bounds")
)
