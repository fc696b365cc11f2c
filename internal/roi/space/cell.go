package space

import (
	"slices"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
)

// DensityCell tallies how often each entity visited a cell. The same entity
// may pass through a cell several times, so both the number of distinct
// visitors (Density) and the raw visit count (TotalDensity) are kept.
type DensityCell struct {
	visits map[string]int
	total  int
}

// Increment records one visit by entityID.
func (c *DensityCell) Increment(entityID string) {
	if c.visits == nil {
		c.visits = make(map[string]int)
	}
	c.visits[entityID]++
	c.total++
}

// Density returns the number of distinct entities that visited the cell.
func (c *DensityCell) Density() int { return len(c.visits) }

// TotalDensity returns every visit, repeats included.
func (c *DensityCell) TotalDensity() int { return c.total }

// DensityOf sums the visit counts of the given entities. With no ids it
// returns Density.
func (c *DensityCell) DensityOf(ids ...string) int {
	if len(ids) == 0 {
		return c.Density()
	}
	sum := 0
	for _, id := range ids {
		sum += c.visits[id]
	}
	return sum
}

// ContainsOne returns the first of ids that visited the cell.
func (c *DensityCell) ContainsOne(ids ...string) (string, bool) {
	for _, id := range ids {
		if _, ok := c.visits[id]; ok {
			return id, true
		}
	}
	return "", false
}

// ContainsAll reports whether every one of ids visited the cell.
func (c *DensityCell) ContainsAll(ids ...string) bool {
	for _, id := range ids {
		if _, ok := c.visits[id]; !ok {
			return false
		}
	}
	return true
}

// MatchingIDs returns the subset of ids that visited the cell, in argument order.
func (c *DensityCell) MatchingIDs(ids ...string) []string {
	var out []string
	for _, id := range ids {
		if _, ok := c.visits[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Keys returns the sorted visitor ids.
func (c *DensityCell) Keys() []string {
	keys := make([]string, 0, len(c.visits))
	for k := range c.visits {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Clear forgets every visit.
func (c *DensityCell) Clear() {
	clear(c.visits)
	c.total = 0
}

// MiningCell is a DensityCell that also remembers whether a mining run has
// consumed it. The processed flag is not part of the cell's identity; two
// MiningCells are the same cell when their IDs match.
type MiningCell struct {
	DensityCell
	ID        ndgrid.CellID
	Indices   []int
	processed bool
}

func newMiningCell(id ndgrid.CellID, indices []int) MiningCell {
	return MiningCell{
		DensityCell: DensityCell{visits: make(map[string]int)},
		ID:          id,
		Indices:     indices,
	}
}

// MarkProcessed flags the cell as consumed by the current run.
func (c *MiningCell) MarkProcessed() { c.processed = true }

// MarkUnprocessed clears the processed flag.
func (c *MiningCell) MarkUnprocessed() { c.processed = false }

// Processed reports whether the cell was consumed by the current run.
func (c *MiningCell) Processed() bool { return c.processed }
