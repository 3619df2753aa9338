package sweep

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/mat"

	"github.com/cadence-data/recurrence.report/internal/persistence"
	"github.com/cadence-data/recurrence.report/internal/pipeline"
)

// Grid enumerates the parameter combinations of a sweep. Empty slices fall
// back to the corresponding value in the base config. DerivWins may
// include 0 to sweep with the temporal filter disabled.
type Grid struct {
	Dims      []int
	Taus      []float64
	DTs       []float64
	DerivWins []int
}

// Combos expands the grid against a base config, varying dims slowest.
func (g Grid) Combos(base pipeline.Config) []pipeline.Config {
	dims := g.Dims
	if len(dims) == 0 {
		dims = []int{base.Dim}
	}
	taus := g.Taus
	if len(taus) == 0 {
		taus = []float64{base.Tau}
	}
	dts := g.DTs
	if len(dts) == 0 {
		dts = []float64{base.DT}
	}
	wins := g.DerivWins
	if len(wins) == 0 {
		wins = []int{base.DerivWin}
	}

	out := make([]pipeline.Config, 0, len(dims)*len(taus)*len(dts)*len(wins))
	for _, dim := range dims {
		for _, tau := range taus {
			for _, dt := range dts {
				for _, win := range wins {
					cfg := base
					cfg.Dim = dim
					cfg.Tau = tau
					cfg.DT = dt
					cfg.DerivWin = win
					out = append(out, cfg)
				}
			}
		}
	}
	return out
}

// ComboResult is the scored outcome of one parameter combination.
type ComboResult struct {
	Config            pipeline.Config `json:"config"`
	Windows           int             `json:"windows"`
	DegenerateWindows int             `json:"degenerate_windows"`
	Scores            pipeline.Scores `json:"scores"`
}

// Summary is the outcome of a whole sweep.
type Summary struct {
	RunID   string        `json:"run_id,omitempty"`
	Results []ComboResult `json:"results"`
	Best    *ComboResult  `json:"best,omitempty"`
}

// Runner executes sweeps. Engine may be nil for the reference Rips engine;
// Store may be nil to skip persistence; Progress draws a progress bar on
// stderr for interactive use.
type Runner struct {
	Engine   persistence.Engine
	Store    *Store
	Progress bool
}

// Run sweeps the grid over an already-compressed frame matrix. PCA runs
// once outside the sweep since the compression does not depend on the
// swept parameters. source labels the run in the store.
func (r *Runner) Run(x *mat.Dense, base pipeline.Config, grid Grid, source string) (*Summary, error) {
	combos := grid.Combos(base)
	if len(combos) == 0 {
		return nil, fmt.Errorf("sweep: empty parameter grid")
	}
	for i, cfg := range combos {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("sweep: combination %d: %w", i, err)
		}
	}

	summary := &Summary{Results: make([]ComboResult, 0, len(combos))}
	if r.Store != nil {
		runID, err := r.Store.CreateRun(source)
		if err != nil {
			return nil, err
		}
		summary.RunID = runID
	}

	var bar *progressbar.ProgressBar
	if r.Progress {
		bar = progressbar.NewOptions(len(combos),
			progressbar.OptionSetDescription("sweeping"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
	}

	for _, cfg := range combos {
		res, err := pipeline.RunMatrix(x, cfg, r.Engine)
		if err != nil {
			return nil, fmt.Errorf("sweep: dim=%d tau=%v dt=%v: %w", cfg.Dim, cfg.Tau, cfg.DT, err)
		}
		combo := ComboResult{
			Config:            cfg,
			Windows:           res.Windows(),
			DegenerateWindows: len(res.DegenerateWindows),
			Scores:            res.Scores,
		}
		summary.Results = append(summary.Results, combo)
		if r.Store != nil {
			if err := r.Store.RecordResult(summary.RunID, combo); err != nil {
				return nil, err
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	for i := range summary.Results {
		if summary.Best == nil || summary.Results[i].Scores.Periodicity > summary.Best.Scores.Periodicity {
			summary.Best = &summary.Results[i]
		}
	}
	return summary, nil
}
