package space

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
)

// Centroid returns the mean of the centres of roi's cells. Ids outside the
// grid are skipped; if none remain ErrEmptyRegion is returned.
func Centroid(geom ndgrid.Grid, roi *RoI) ([]float64, error) {
	dims := geom.Dims()
	coords := make([][]float64, dims)
	for _, id := range roi.Cells() {
		if !geom.Valid(id) {
			continue
		}
		for n, v := range geom.Centre(geom.Inflate(id)) {
			coords[n] = append(coords[n], v)
		}
	}
	if dims == 0 || len(coords[0]) == 0 {
		return nil, fmt.Errorf("%w: roi %d", ErrEmptyRegion, roi.ID)
	}
	centroid := make([]float64, dims)
	for n := range centroid {
		centroid[n] = stat.Mean(coords[n], nil)
	}
	return centroid, nil
}

// RegionBounds returns the coordinate box enclosing every valid cell of roi.
func RegionBounds(geom ndgrid.Grid, roi *RoI) ([]ndgrid.Range, error) {
	var out []ndgrid.Range
	for _, id := range roi.Cells() {
		if !geom.Valid(id) {
			continue
		}
		cb := geom.CellBounds(geom.Inflate(id))
		if out == nil {
			out = cb
			continue
		}
		for n, r := range cb {
			out[n].Min = math.Min(out[n].Min, r.Min)
			out[n].Max = math.Max(out[n].Max, r.Max)
		}
	}
	if out == nil {
		return nil, fmt.Errorf("%w: roi %d", ErrEmptyRegion, roi.ID)
	}
	return out, nil
}

// Summary is the rectangular view of an RoI used by reports and CLIs.
type Summary struct {
	ID          int             `json:"id"`
	Cells       int             `json:"cells"`
	Density     int             `json:"density"`
	MeanDensity float64         `json:"mean_density"`
	MinDensity  float64         `json:"min_cell_density"`
	MaxDensity  float64         `json:"max_cell_density"`
	Centroid    []float64       `json:"centroid"`
	Bounds      []ndgrid.Range  `json:"bounds"`
	CellIDs     []ndgrid.CellID `json:"cell_ids"`
}

// Summarize describes roi against the grid it was mined from. Per-cell
// density statistics are read from the grid, not from the RoI total.
func Summarize(g *Grid, roi *RoI) (Summary, error) {
	geom := g.Geometry()
	centroid, err := Centroid(geom, roi)
	if err != nil {
		return Summary{}, err
	}
	bounds, err := RegionBounds(geom, roi)
	if err != nil {
		return Summary{}, err
	}
	ids := roi.CellSet()
	densities := make([]float64, len(ids))
	for i, id := range ids {
		densities[i] = float64(g.Density(id))
	}
	return Summary{
		ID:          roi.ID,
		Cells:       roi.Len(),
		Density:     roi.Density(),
		MeanDensity: roi.MeanDensity(),
		MinDensity:  floats.Min(densities),
		MaxDensity:  floats.Max(densities),
		Centroid:    centroid,
		Bounds:      bounds,
		CellIDs:     ids,
	}, nil
}
