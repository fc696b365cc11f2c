package space

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/banshee-data/roimine/internal/monitoring"
	"github.com/banshee-data/roimine/internal/roi/ndgrid"
)

// Traces maps an entity id to its ordered coordinate sequence. Every point
// across all traces must have the same number of dimensions.
type Traces map[string][][]float64

// Dims returns the dimensionality of the first point found, or 0.
func (t Traces) Dims() int {
	for _, id := range t.EntityIDs() {
		if pts := t[id]; len(pts) > 0 {
			return len(pts[0])
		}
	}
	return 0
}

// EntityIDs returns the trace keys in ascending order.
func (t Traces) EntityIDs() []string {
	return slices.Sorted(maps.Keys(t))
}

// Points returns the total number of points over all traces.
func (t Traces) Points() int {
	n := 0
	for _, pts := range t {
		n += len(pts)
	}
	return n
}

// TraceBounds returns the per-dimension extent of every point in traces.
func TraceBounds(traces Traces) ([]ndgrid.Range, error) {
	dims := traces.Dims()
	if dims == 0 {
		return nil, ErrNoTraces
	}
	bounds := make([]ndgrid.Range, dims)
	for n := range bounds {
		bounds[n] = ndgrid.Range{Min: math.Inf(1), Max: math.Inf(-1)}
	}
	for _, id := range traces.EntityIDs() {
		for i, p := range traces[id] {
			if len(p) != dims {
				return nil, fmt.Errorf("%w: trace %q point %d has %d coordinates, want %d",
					ndgrid.ErrDimensionMismatch, id, i, len(p), dims)
			}
			for n, v := range p {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return nil, fmt.Errorf("%w: trace %q point %d coordinate %d is %g",
						ndgrid.ErrNonFinite, id, i, n, v)
				}
				bounds[n].Min = math.Min(bounds[n].Min, v)
				bounds[n].Max = math.Max(bounds[n].Max, v)
			}
		}
	}
	return bounds, nil
}

// BuildConfig holds the grid construction parameters. CellsPerDimension is
// used when its length matches the trace dimensionality; otherwise the counts
// are derived from CellSize.
type BuildConfig struct {
	CellsPerDimension []int
	CellSize          float64
	Radius            int
}

// Cells returns the per-dimension cell counts for a grid over bounds.
func (c BuildConfig) Cells(bounds []ndgrid.Range) []int {
	if len(c.CellsPerDimension) == len(bounds) {
		return slices.Clone(c.CellsPerDimension)
	}
	if len(c.CellsPerDimension) > 0 {
		monitoring.Logf("[DensityGrid] Ignoring %d cell counts for %d-dimensional traces, using cell size %g",
			len(c.CellsPerDimension), len(bounds), c.CellSize)
	}
	return ndgrid.CellsForSize(bounds, c.CellSize)
}

// Build derives the grid bounds from traces and tallies every trace into a
// fresh density grid.
func Build(traces Traces, cfg BuildConfig) (*Grid, error) {
	if cfg.Radius < 0 {
		return nil, fmt.Errorf("%w: %d", ErrRadius, cfg.Radius)
	}
	bounds, err := TraceBounds(traces)
	if err != nil {
		return nil, err
	}
	geom, err := ndgrid.New(cfg.Cells(bounds), bounds)
	if err != nil {
		return nil, fmt.Errorf("build density grid: %w", err)
	}

	start := time.Now()
	g := NewGrid(geom)
	for _, id := range traces.EntityIDs() {
		if err := g.AddTrace(id, traces[id], cfg.Radius); err != nil {
			return nil, fmt.Errorf("add trace %q: %w", id, err)
		}
	}
	monitoring.Logf("[DensityGrid] Tallied %d traces (%d points) into %s: %d cells occupied in %v",
		len(traces), traces.Points(), geom, g.Len(), time.Since(start))
	return g, nil
}

// AddTrace rasterises each consecutive pair of points and credits entityID
// once for every cell entered. Cells around the previous point were already
// credited by the previous segment and are skipped, so a dwelling entity
// is not counted again for every sample. Segments leaving the grid only
// credit the cells inside it.
func (g *Grid) AddTrace(entityID string, points [][]float64, radius int) error {
	if len(points) < 2 {
		return nil
	}
	discount := make(map[ndgrid.CellID]struct{})
	prev := points[0]
	for _, cur := range points[1:] {
		ids, err := g.geom.CellsBetween(prev, cur, radius)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if _, ok := discount[id]; ok {
				continue
			}
			if err := g.Increment(entityID, id); err != nil {
				return err
			}
		}

		clear(discount)
		idx, err := g.geom.IndicesOf(cur)
		if err != nil {
			return err
		}
		for _, id := range g.geom.NeighbourhoodAround(idx, radius) {
			discount[id] = struct{}{}
		}
		prev = cur
	}
	return nil
}
