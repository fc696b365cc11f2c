package space

import "errors"

var (
	// ErrNoTraces indicates a build was requested without any coordinates.
	ErrNoTraces = errors.New("space: no trace coordinates to build a grid from")
	// ErrRadius indicates a negative thickening radius.
	ErrRadius = errors.New("space: radius must be non-negative")
	// ErrCellID indicates a cell id outside the grid.
	ErrCellID = errors.New("space: cell id outside grid")
	// ErrEmptyRegion indicates an RoI with no cell inside the grid.
	ErrEmptyRegion = errors.New("space: region has no cells inside the grid")
)
