// Package report renders a density grid and its mined regions as 2-D
// heatmaps: a static PNG through gonum/plot and an interactive HTML page
// through go-echarts. Grids with more than two dimensions are projected onto
// their first two by taking the densest cell along the remaining axes.
package report

import (
	"errors"

	"github.com/banshee-data/roimine/internal/roi/ndgrid"
	"github.com/banshee-data/roimine/internal/roi/space"
)

// ErrNoCells indicates a grid with nothing to draw.
var ErrNoCells = errors.New("report: grid has no occupied cells")

// Matrix is the 2-D projection of a density grid. It satisfies
// plotter.GridXYZ.
type Matrix struct {
	cols, rows int
	x0, y0     float64 // centre of cell (0, 0)
	dx, dy     float64
	z          []float64 // column-major: z[c*rows+r]
}

// Project collapses g onto its first two dimensions. One-dimensional grids
// become a single row.
func Project(g *space.Grid) (*Matrix, error) {
	if g.Len() == 0 {
		return nil, ErrNoCells
	}
	geom := g.Geometry()
	counts := geom.CellCounts()
	bounds := geom.Bounds()

	m := &Matrix{
		cols: counts[0],
		rows: 1,
		dx:   geom.PartitionSize(0),
		dy:   1,
	}
	m.x0 = bounds[0].Min + m.dx/2
	if geom.Dims() > 1 {
		m.rows = counts[1]
		m.dy = geom.PartitionSize(1)
		m.y0 = bounds[1].Min + m.dy/2
	}
	m.z = make([]float64, m.cols*m.rows)

	for _, id := range g.CellIDs() {
		c, r := m.cellOf(geom, id)
		if d := float64(g.Density(id)); d > m.z[c*m.rows+r] {
			m.z[c*m.rows+r] = d
		}
	}
	return m, nil
}

func (m *Matrix) cellOf(geom ndgrid.Grid, id ndgrid.CellID) (c, r int) {
	idx := geom.Inflate(id)
	c = idx[0]
	if len(idx) > 1 {
		r = idx[1]
	}
	return c, r
}

// Dims returns the number of columns and rows.
func (m *Matrix) Dims() (c, r int) { return m.cols, m.rows }

// Z returns the projected density of column c, row r.
func (m *Matrix) Z(c, r int) float64 { return m.z[c*m.rows+r] }

// X returns the coordinate of column c's centre.
func (m *Matrix) X(c int) float64 { return m.x0 + float64(c)*m.dx }

// Y returns the coordinate of row r's centre.
func (m *Matrix) Y(r int) float64 { return m.y0 + float64(r)*m.dy }

// Max returns the largest projected density.
func (m *Matrix) Max() float64 {
	top := 0.0
	for _, v := range m.z {
		top = max(top, v)
	}
	return top
}
