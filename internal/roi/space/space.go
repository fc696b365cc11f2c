package space

import "github.com/banshee-data/roimine/internal/roi/ndgrid"

// MiningSpace is the contract region-growing miners run against. A space is a
// partition of the study region whose cells carry a visitor density and a
// processed flag. Implementations are not safe for concurrent runs: the
// processed flags are mutated throughout a run.
type MiningSpace interface {
	// UnprocessAll clears every processed flag so the space can be mined again.
	UnprocessAll()

	// DenseCells returns the unprocessed cells, most dense first.
	DenseCells() []ndgrid.CellID

	// NeighbourCells returns the cells sharing a face with id (an edge in 2-D,
	// a face in 3-D), restricted to cells that have been materialised.
	NeighbourCells(id ndgrid.CellID) []ndgrid.CellID

	// RemoveSparsity returns a copy of roi whose cells fill the bounding
	// hyper-rectangle of roi, materialising zero-density cells where needed.
	// It returns nil when no such fill exists.
	RemoveSparsity(roi *RoI) *RoI

	// Density returns the number of distinct visitors of a cell (0 if absent).
	Density(id ndgrid.CellID) int

	// Processed reports whether a cell was consumed by the current run.
	Processed(id ndgrid.CellID) bool

	// MarkProcessed flags a cell as consumed, materialising it if needed.
	MarkProcessed(id ndgrid.CellID)

	// MarkUnprocessed clears a cell's processed flag.
	MarkUnprocessed(id ndgrid.CellID)
}

var _ MiningSpace = (*Grid)(nil)
