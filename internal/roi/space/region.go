package space

import (
	"fmt"
	"slices"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
)

// RoI is a region of interest: a duplicate-free set of cell ids with an
// aggregate density. Cells are iterated in the order they were added.
type RoI struct {
	ID      int
	density int
	members map[ndgrid.CellID]struct{}
	order   []ndgrid.CellID
}

// NewRoI returns an empty region with the given id.
func NewRoI(id int) *RoI {
	return &RoI{ID: id, members: make(map[ndgrid.CellID]struct{})}
}

// Add inserts a cell and adds its density to the region total. Adding a cell
// that is already a member changes nothing and returns false.
func (r *RoI) Add(id ndgrid.CellID, density int) bool {
	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = struct{}{}
	r.order = append(r.order, id)
	r.density += density
	return true
}

// Merge inserts every cell of other. The region density is replaced by
// other's density rather than summed.
// TODO: decide whether Merge should sum densities. The Uniform policy only
// merges into a cleared region, so it is unaffected either way.
func (r *RoI) Merge(other *RoI) {
	if other == nil {
		return
	}
	for _, id := range other.order {
		if _, ok := r.members[id]; ok {
			continue
		}
		r.members[id] = struct{}{}
		r.order = append(r.order, id)
	}
	r.density = other.density
}

// Clear removes every cell and zeroes the density. The id is kept.
func (r *RoI) Clear() {
	clear(r.members)
	r.order = r.order[:0]
	r.density = 0
}

// Contains reports whether the cell is a member.
func (r *RoI) Contains(id ndgrid.CellID) bool {
	_, ok := r.members[id]
	return ok
}

// Len returns the number of member cells.
func (r *RoI) Len() int { return len(r.order) }

// Density returns the aggregate density of the region.
func (r *RoI) Density() int { return r.density }

// MeanDensity returns Density divided by the number of cells, or 0 when empty.
func (r *RoI) MeanDensity() float64 {
	if len(r.order) == 0 {
		return 0
	}
	return float64(r.density) / float64(len(r.order))
}

// Cells returns the member ids in insertion order.
func (r *RoI) Cells() []ndgrid.CellID { return slices.Clone(r.order) }

// CellSet returns the member ids in ascending order.
func (r *RoI) CellSet() []ndgrid.CellID {
	ids := slices.Clone(r.order)
	slices.Sort(ids)
	return ids
}

func (r *RoI) String() string {
	return fmt.Sprintf("RoI{id=%d cells=%d density=%d}", r.ID, len(r.order), r.density)
}
