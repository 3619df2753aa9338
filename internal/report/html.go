package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/cadence-data/recurrence.report/internal/persistence"
)

// DiagramHTML renders all diagrams of a run as one interactive scatter
// page, one series per homological dimension. This replaces the notebook
// habit of inlining plots next to the video under analysis.
func DiagramHTML(diagrams []persistence.Diagram, title string, w io.Writer) error {
	maxDeath := 0.0
	for _, d := range diagrams {
		for _, pair := range d {
			if !math.IsInf(pair.Death, 1) && pair.Death > maxDeath {
				maxDeath = pair.Death
			}
		}
	}
	if maxDeath == 0 {
		maxDeath = 1
	}
	pad := maxDeath * 1.15

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "700px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "birth vs death per homological dimension"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: 0, Max: pad, Name: "Birth", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: pad, Name: "Death", NameLocation: "middle", NameGap: 30}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	for dim, d := range diagrams {
		data := make([]opts.ScatterData, 0, len(d))
		for _, pair := range d {
			death := pair.Death
			if math.IsInf(death, 1) {
				death = maxDeath * 1.1
			}
			data = append(data, opts.ScatterData{Value: []interface{}{pair.Birth, death}})
		}
		scatter.AddSeries(fmt.Sprintf("H%d", dim), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 8}))
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("report: render diagram page: %w", err)
	}
	return nil
}
