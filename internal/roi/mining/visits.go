package mining

import (
	"errors"
	"fmt"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// Visits encodes a coordinate sequence as the ids of the regions it passes
// through. When regions overlap the first one in rois wins. Consecutive
// repeats collapse to one id; points outside every region, or outside the
// grid, are skipped without breaking a run.
func Visits(geom ndgrid.Grid, points [][]float64, rois []*space.RoI) ([]int, error) {
	var out []int
	for i, p := range points {
		cell, err := geom.CellOf(p)
		if errors.Is(err, ndgrid.ErrOutOfBounds) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		for _, roi := range rois {
			if roi == nil || !roi.Contains(cell) {
				continue
			}
			if len(out) == 0 || out[len(out)-1] != roi.ID {
				out = append(out, roi.ID)
			}
			break
		}
	}
	return out, nil
}

// VisitSequences runs Visits for every trace, keyed by entity id.
func VisitSequences(geom ndgrid.Grid, traces space.Traces, rois []*space.RoI) (map[string][]int, error) {
	out := make(map[string][]int, len(traces))
	for _, id := range traces.EntityIDs() {
		seq, err := Visits(geom, traces[id], rois)
		if err != nil {
			return nil, fmt.Errorf("trace %q: %w", id, err)
		}
		out[id] = seq
	}
	return out, nil
}

// PatternPath converts a sequence of region ids, as produced by a pattern
// miner over Visits output, back into the path through each region's
// centroid.
func PatternPath(geom ndgrid.Grid, rois []*space.RoI, pattern []int) ([][]float64, error) {
	byID := make(map[int]*space.RoI, len(rois))
	for _, r := range rois {
		if r != nil {
			byID[r.ID] = r
		}
	}
	path := make([][]float64, 0, len(pattern))
	for _, id := range pattern {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownRegion, id)
		}
		c, err := space.Centroid(geom, r)
		if err != nil {
			return nil, err
		}
		path = append(path, c)
	}
	return path, nil
}
