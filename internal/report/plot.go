// Package report renders persistence diagrams and point clouds for human
// inspection: PNG via gonum/plot for files, go-echarts HTML for browsers.
package report

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cadence-data/recurrence.report/internal/persistence"
)

// ScatterPNG writes a birth/death scatter of one diagram with the diagonal
// as a guide. Essential classes (infinite death) are drawn at 1.1x the
// largest finite death so they stay on the canvas.
func ScatterPNG(d persistence.Diagram, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Birth"
	p.Y.Label.Text = "Death"

	maxDeath := 0.0
	for _, pair := range d {
		if !math.IsInf(pair.Death, 1) && pair.Death > maxDeath {
			maxDeath = pair.Death
		}
	}
	if maxDeath == 0 {
		maxDeath = 1
	}

	pts := make(plotter.XYs, 0, len(d))
	for _, pair := range d {
		death := pair.Death
		if math.IsInf(death, 1) {
			death = maxDeath * 1.1
		}
		pts = append(pts, plotter.XY{X: pair.Birth, Y: death})
	}

	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("report: build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(3)
	p.Add(scatter)

	diag := plotter.XYs{{X: 0, Y: 0}, {X: maxDeath * 1.1, Y: maxDeath * 1.1}}
	line, err := plotter.NewLine(diag)
	if err != nil {
		return fmt.Errorf("report: build diagonal: %w", err)
	}
	line.Width = vg.Points(1)
	p.Add(line)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

// CloudPNG writes the point cloud projected onto its first two embedding
// coordinates. Periodic dynamics show up as a loop even in this crude
// projection.
func CloudPNG(cloud *mat.Dense, title, path string) error {
	if cloud == nil {
		return fmt.Errorf("report: nil point cloud")
	}
	n, cols := cloud.Dims()
	if cols < 2 {
		return fmt.Errorf("report: need at least 2 columns to project, got %d", cols)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Coordinate 1"
	p.Y.Label.Text = "Coordinate 2"

	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i] = plotter.XY{X: cloud.At(i, 0), Y: cloud.At(i, 1)}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return fmt.Errorf("report: build scatter: %w", err)
	}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}
