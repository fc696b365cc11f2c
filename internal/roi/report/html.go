package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/roimine/internal/roi/space"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// WriteHTML renders an interactive scatter heatmap of g with one series for
// the occupied cells and one per region, so regions can be toggled from the
// legend.
func WriteHTML(w io.Writer, title string, g *space.Grid, rois []*space.RoI) error {
	m, err := Project(g)
	if err != nil {
		return err
	}

	cols, rows := m.Dims()
	cells := make([]opts.ScatterData, 0, cols*rows)
	for c := 0; c < cols; c++ {
		for r := 0; r < rows; r++ {
			if z := m.Z(c, r); z > 0 {
				cells = append(cells, opts.ScatterData{Value: []interface{}{m.X(c), m.Y(r), z}})
			}
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("grid=%s cells=%d regions=%d", g.Geometry(), g.Len(), len(rois))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "X", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Y", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(m.Max(), 1)),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	scatter.AddSeries("density", cells, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 10}))

	geom := g.Geometry()
	for _, roi := range rois {
		pts := make([]opts.ScatterData, 0, roi.Len())
		for _, id := range roi.CellSet() {
			if !geom.Valid(id) {
				continue
			}
			c, r := m.cellOf(geom, id)
			pts = append(pts, opts.ScatterData{
				Value:  []interface{}{m.X(c), m.Y(r), g.Density(id)},
				Symbol: "rect",
			})
		}
		scatter.AddSeries(fmt.Sprintf("roi %d", roi.ID), pts,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
