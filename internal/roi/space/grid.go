package space

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
)

// Grid is the density grid (RoI mining space). It pairs an immutable
// ndgrid.Grid with a sparse arena of MiningCells keyed by flattened cell id.
// A cell that has never been visited is absent from the arena and reads as
// density 0, unprocessed; it is materialised only when a mutation needs it.
//
// Grid is single-writer: callers must sequence mining runs themselves.
type Grid struct {
	geom  ndgrid.Grid
	cells []MiningCell // arena; slots never move or shrink
	slots map[ndgrid.CellID]int
}

// NewGrid returns an empty density grid over geom.
func NewGrid(geom ndgrid.Grid) *Grid {
	return &Grid{
		geom:  geom,
		slots: make(map[ndgrid.CellID]int),
	}
}

// Geometry returns the index math the grid is built on.
func (g *Grid) Geometry() ndgrid.Grid { return g.geom }

// Len returns the number of materialised cells.
func (g *Grid) Len() int { return len(g.cells) }

// Has reports whether the cell has been materialised.
func (g *Grid) Has(id ndgrid.CellID) bool {
	_, ok := g.slots[id]
	return ok
}

// cell returns the arena entry for id, or nil when it is absent. The pointer
// must not be retained across a materialise call.
func (g *Grid) cell(id ndgrid.CellID) *MiningCell {
	slot, ok := g.slots[id]
	if !ok {
		return nil
	}
	return &g.cells[slot]
}

// materialise returns the arena entry for id, creating an empty cell first if
// necessary. id must be valid for the geometry.
func (g *Grid) materialise(id ndgrid.CellID) *MiningCell {
	if c := g.cell(id); c != nil {
		return c
	}
	g.slots[id] = len(g.cells)
	g.cells = append(g.cells, newMiningCell(id, g.geom.Inflate(id)))
	return &g.cells[len(g.cells)-1]
}

// Increment records a visit to cell id by entityID, creating the cell on
// its first visit.
func (g *Grid) Increment(entityID string, id ndgrid.CellID) error {
	if !g.geom.Valid(id) {
		return fmt.Errorf("%w: %d (grid has %d cells)", ErrCellID, id, g.geom.NumCells())
	}
	g.materialise(id).Increment(entityID)
	return nil
}

// Density returns the number of distinct visitors of a cell.
func (g *Grid) Density(id ndgrid.CellID) int {
	if c := g.cell(id); c != nil {
		return c.Density()
	}
	return 0
}

// TotalDensity returns all visits to a cell, repeats included.
func (g *Grid) TotalDensity(id ndgrid.CellID) int {
	if c := g.cell(id); c != nil {
		return c.TotalDensity()
	}
	return 0
}

// DensityOf sums the visits of the given entities to a cell.
func (g *Grid) DensityOf(id ndgrid.CellID, entityIDs ...string) int {
	if c := g.cell(id); c != nil {
		return c.DensityOf(entityIDs...)
	}
	return 0
}

// Visitors returns the sorted ids of the entities that visited a cell.
func (g *Grid) Visitors(id ndgrid.CellID) []string {
	if c := g.cell(id); c != nil {
		return c.Keys()
	}
	return nil
}

// ContainsAll reports whether every entity visited the cell.
func (g *Grid) ContainsAll(id ndgrid.CellID, entityIDs ...string) bool {
	if c := g.cell(id); c != nil {
		return c.ContainsAll(entityIDs...)
	}
	return len(entityIDs) == 0
}

// Processed reports whether a cell was consumed by the current run.
func (g *Grid) Processed(id ndgrid.CellID) bool {
	if c := g.cell(id); c != nil {
		return c.Processed()
	}
	return false
}

// MarkProcessed flags a cell as consumed, materialising it if needed.
// Ids outside the grid are ignored.
func (g *Grid) MarkProcessed(id ndgrid.CellID) {
	if !g.geom.Valid(id) {
		return
	}
	g.materialise(id).MarkProcessed()
}

// MarkUnprocessed clears a cell's processed flag.
func (g *Grid) MarkUnprocessed(id ndgrid.CellID) {
	if c := g.cell(id); c != nil {
		c.MarkUnprocessed()
	}
}

// UnprocessAll clears every processed flag.
func (g *Grid) UnprocessAll() {
	for i := range g.cells {
		g.cells[i].MarkUnprocessed()
	}
}

// CellIDs returns every materialised cell id in ascending order.
func (g *Grid) CellIDs() []ndgrid.CellID {
	ids := make([]ndgrid.CellID, len(g.cells))
	for i := range g.cells {
		ids[i] = g.cells[i].ID
	}
	slices.Sort(ids)
	return ids
}

// DenseCells returns the unprocessed cells ordered by descending density,
// ties broken by ascending cell id.
func (g *Grid) DenseCells() []ndgrid.CellID {
	type ranked struct {
		id      ndgrid.CellID
		density int
	}
	candidates := make([]ranked, 0, len(g.cells))
	for i := range g.cells {
		c := &g.cells[i]
		if c.Processed() {
			continue
		}
		candidates = append(candidates, ranked{id: c.ID, density: c.Density()})
	}
	slices.SortFunc(candidates, func(a, b ranked) int {
		if a.density != b.density {
			return cmp.Compare(b.density, a.density)
		}
		return cmp.Compare(a.id, b.id)
	})

	ids := make([]ndgrid.CellID, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	return ids
}

// NeighbourCells returns the materialised cells one step away from id along
// exactly one dimension. Each dimension is checked in order, +1 before -1.
func (g *Grid) NeighbourCells(id ndgrid.CellID) []ndgrid.CellID {
	if !g.geom.Valid(id) {
		return nil
	}
	counts := g.geom.CellCounts()
	indices := g.geom.Inflate(id)
	out := make([]ndgrid.CellID, 0, 2*len(indices))
	for n := range indices {
		for _, step := range [2]int{1, -1} {
			moved := indices[n] + step
			if moved < 0 || moved >= counts[n] {
				continue
			}
			orig := indices[n]
			indices[n] = moved
			nb := g.geom.Flatten(indices)
			indices[n] = orig
			if g.Has(nb) {
				out = append(out, nb)
			}
		}
	}
	return out
}

// RemoveSparsity fills the bounding hyper-rectangle of roi. Cells missing
// from the arena are materialised with zero density, so this mutates the grid
// even when the caller goes on to reject the result. The returned RoI keeps
// roi's id. It returns nil for an empty roi or one referencing ids outside
// the grid.
func (g *Grid) RemoveSparsity(roi *RoI) *RoI {
	if roi == nil || roi.Len() == 0 {
		return nil
	}
	var lo, hi []int
	for _, id := range roi.Cells() {
		if !g.geom.Valid(id) {
			return nil
		}
		idx := g.geom.Inflate(id)
		if lo == nil {
			lo = slices.Clone(idx)
			hi = slices.Clone(idx)
			continue
		}
		for n, v := range idx {
			lo[n] = min(lo[n], v)
			hi[n] = max(hi[n], v)
		}
	}

	window := g.geom.Window(lo, hi)
	if len(window) == 0 {
		return nil
	}
	dense := NewRoI(roi.ID)
	for _, id := range window {
		dense.Add(id, g.materialise(id).Density())
	}
	return dense
}

// MaxPossibleDensity returns the number of distinct entities seen anywhere in
// the grid, the upper bound of any cell's density.
func (g *Grid) MaxPossibleDensity() int {
	seen := make(map[string]struct{})
	for i := range g.cells {
		for k := range g.cells[i].visits {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// String renders the grid shape and arena size.
func (g *Grid) String() string {
	return fmt.Sprintf("DensityGrid(%s, %d cells)", g.geom, len(g.cells))
}
