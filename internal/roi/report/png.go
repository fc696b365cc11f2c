package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/roimine/internal/roi/space"
)

const (
	imageWidth  = 10 * vg.Inch
	imageHeight = 8 * vg.Inch
)

// WritePNG saves a density heatmap of g to path with each region's centroid
// marked and labelled by id. The image format follows the file extension.
func WritePNG(path, title string, g *space.Grid, rois []*space.RoI) error {
	p, err := heatmapPlot(title, g, rois)
	if err != nil {
		return err
	}
	if err := p.Save(imageWidth, imageHeight, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}

// RenderPNG encodes the same heatmap as WritePNG as a PNG image on w.
func RenderPNG(w io.Writer, title string, g *space.Grid, rois []*space.RoI) error {
	p, err := heatmapPlot(title, g, rois)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(imageWidth, imageHeight, "png")
	if err != nil {
		return fmt.Errorf("encode heatmap: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write heatmap: %w", err)
	}
	return nil
}

func heatmapPlot(title string, g *space.Grid, rois []*space.RoI) (*plot.Plot, error) {
	m, err := Project(g)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X"
	p.Y.Label.Text = "Y"

	hm := plotter.NewHeatMap(m, palette.Heat(12, 1))
	hm.Min = 0
	hm.Max = max(m.Max(), 1)
	p.Add(hm)

	if len(rois) > 0 {
		centres := make(plotter.XYs, 0, len(rois))
		labels := make([]string, 0, len(rois))
		geom := g.Geometry()
		for _, r := range rois {
			c, err := space.Centroid(geom, r)
			if err != nil {
				continue
			}
			y := 0.0
			if len(c) > 1 {
				y = c[1]
			}
			centres = append(centres, plotter.XY{X: c[0], Y: y})
			labels = append(labels, fmt.Sprintf("%d", r.ID))
		}
		if len(centres) > 0 {
			sc, err := plotter.NewScatter(centres)
			if err != nil {
				return nil, fmt.Errorf("region markers: %w", err)
			}
			sc.Color = color.RGBA{R: 30, G: 144, B: 255, A: 255}
			sc.Radius = vg.Points(4)
			p.Add(sc)

			lb, err := plotter.NewLabels(plotter.XYLabels{XYs: centres, Labels: labels})
			if err != nil {
				return nil, fmt.Errorf("region labels: %w", err)
			}
			p.Add(lb)
		}
	}

	return p, nil
}
