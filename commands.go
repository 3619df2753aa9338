package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/cadence-data/recurrence.report/internal/config"
	"github.com/cadence-data/recurrence.report/internal/frames"
	"github.com/cadence-data/recurrence.report/internal/pca"
	"github.com/cadence-data/recurrence.report/internal/pipeline"
	"github.com/cadence-data/recurrence.report/internal/report"
	"github.com/cadence-data/recurrence.report/internal/sweep"
	"github.com/cadence-data/recurrence.report/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "recurrence",
	Short:        "Periodicity detection in video via delay embeddings and persistent homology",
	Version:      version.Version,
	SilenceUsage: true,
}

// applyFileConfig overlays a defaults file onto cfg for every parameter the
// user did not set explicitly on the command line. Precedence is flags,
// then file, then built-in defaults.
func applyFileConfig(cmd *cobra.Command, path string, cfg *pipeline.Config) error {
	fc, err := config.Load(path)
	if err != nil {
		return err
	}
	base := fc.Apply(pipeline.DefaultConfig())
	flags := cmd.Flags()
	if !flags.Changed("dim") {
		cfg.Dim = base.Dim
	}
	if !flags.Changed("tau") {
		cfg.Tau = base.Tau
	}
	if !flags.Changed("dt") {
		cfg.DT = base.DT
	}
	if !flags.Changed("deriv-win") {
		cfg.DerivWin = base.DerivWin
	}
	if !flags.Changed("pca-rank") {
		cfg.PCARank = base.PCARank
	}
	if !flags.Changed("max-dim") {
		cfg.MaxHomologyDim = base.MaxHomologyDim
	}
	if !flags.Changed("prime") {
		cfg.FieldPrime = base.FieldPrime
	}
	return nil
}

var analyseOpts struct {
	input      string
	width      int
	height     int
	configPath string
	pngOut     string
	htmlOut    string
	cloudOut   string
	cfg        pipeline.Config
}

var analyseCmd = &cobra.Command{
	Use:   "analyse",
	Short: "Run one analysis over a decoded frame sequence (.npy)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyseOpts.configPath != "" {
			if err := applyFileConfig(cmd, analyseOpts.configPath, &analyseOpts.cfg); err != nil {
				return err
			}
		}
		video, err := frames.Load(analyseOpts.input, analyseOpts.width, analyseOpts.height)
		if err != nil {
			return err
		}
		log.Printf("loaded %d frames of %d pixels from %s", video.Count(), video.Pixels(), analyseOpts.input)

		res, err := pipeline.Run(video, analyseOpts.cfg, nil)
		if err != nil {
			return err
		}
		log.Printf("embedded %d windows (%d degenerate dropped)", res.Windows(), len(res.DegenerateWindows))

		if analyseOpts.pngOut != "" && len(res.Diagrams) > 1 {
			if err := report.ScatterPNG(res.Diagrams[1], "H1 persistence", analyseOpts.pngOut); err != nil {
				return err
			}
		}
		if analyseOpts.cloudOut != "" && res.Cloud != nil {
			if err := report.CloudPNG(res.Cloud, "embedded point cloud", analyseOpts.cloudOut); err != nil {
				return err
			}
		}
		if analyseOpts.htmlOut != "" {
			f, err := os.Create(analyseOpts.htmlOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", analyseOpts.htmlOut, err)
			}
			defer f.Close()
			if err := report.DiagramHTML(res.Diagrams, "recurrence analysis", f); err != nil {
				return err
			}
		}

		out := struct {
			Windows           int             `json:"windows"`
			DegenerateWindows int             `json:"degenerate_windows"`
			Scores            pipeline.Scores `json:"scores"`
		}{res.Windows(), len(res.DegenerateWindows), res.Scores}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var sweepOpts struct {
	input      string
	width      int
	height     int
	configPath string
	dims       string
	taus       string
	dts        string
	derivWins  string
	dbPath     string
	top        int
	base       pipeline.Config
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep embedding parameters over a frame sequence and rank the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sweepOpts.configPath != "" {
			if err := applyFileConfig(cmd, sweepOpts.configPath, &sweepOpts.base); err != nil {
				return err
			}
		}
		video, err := frames.Load(sweepOpts.input, sweepOpts.width, sweepOpts.height)
		if err != nil {
			return err
		}

		var grid sweep.Grid
		if sweepOpts.dims != "" {
			if grid.Dims, err = sweep.ParseIntValues(sweepOpts.dims); err != nil {
				return err
			}
		}
		if sweepOpts.taus != "" {
			if grid.Taus, err = sweep.ParseFloatValues(sweepOpts.taus); err != nil {
				return err
			}
		}
		if sweepOpts.dts != "" {
			if grid.DTs, err = sweep.ParseFloatValues(sweepOpts.dts); err != nil {
				return err
			}
		}
		if sweepOpts.derivWins != "" {
			if grid.DerivWins, err = sweep.ParseIntValues(sweepOpts.derivWins); err != nil {
				return err
			}
		}

		// PCA runs once; the sweep only varies embedding parameters.
		coords, _, err := pca.Compress(video.Data, sweepOpts.base.PCARank)
		if err != nil {
			return err
		}

		runner := &sweep.Runner{Progress: true}
		if sweepOpts.dbPath != "" {
			store, err := sweep.OpenStore(sweepOpts.dbPath)
			if err != nil {
				return err
			}
			defer store.Close()
			runner.Store = store
		}

		summary, err := runner.Run(coords, sweepOpts.base, grid, sweepOpts.input)
		if err != nil {
			return err
		}
		if summary.RunID != "" {
			log.Printf("sweep recorded as run %s", summary.RunID)
		}

		top := summary.Results
		if sweepOpts.top > 0 && runner.Store != nil {
			if top, err = runner.Store.TopResults(summary.RunID, sweepOpts.top); err != nil {
				return err
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(top)
	},
}

var genOpts struct {
	kind    string
	n       int
	period  float64
	period2 float64
	drift   float64
	width   int
	height  int
	out     string
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a synthetic frame sequence (.npy) for testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		var video *frames.Matrix
		switch genOpts.kind {
		case "sine":
			video = frames.Sine(genOpts.n, genOpts.period)
		case "twotone":
			video = frames.TwoTone(genOpts.n, genOpts.period, genOpts.period2)
		case "drift":
			video = frames.Drifting(genOpts.n, genOpts.period, genOpts.drift)
		case "image":
			video = frames.SineImage(genOpts.n, genOpts.width, genOpts.height, genOpts.period)
		default:
			return fmt.Errorf("unknown kind %q: want sine, twotone, drift or image", genOpts.kind)
		}
		if err := frames.Save(genOpts.out, video); err != nil {
			return err
		}
		log.Printf("wrote %d frames of %d pixels to %s", video.Count(), video.Pixels(), genOpts.out)
		return nil
	},
}

func init() {
	analyseOpts.cfg = pipeline.DefaultConfig()
	f := analyseCmd.Flags()
	f.StringVar(&analyseOpts.input, "input", "", "frame sequence .npy file (required)")
	f.IntVar(&analyseOpts.width, "width", 0, "original frame width (0 if unknown)")
	f.IntVar(&analyseOpts.height, "height", 0, "original frame height (0 if unknown)")
	f.IntVar(&analyseOpts.cfg.Dim, "dim", analyseOpts.cfg.Dim, "embedding dimension (samples per window)")
	f.Float64Var(&analyseOpts.cfg.Tau, "tau", analyseOpts.cfg.Tau, "delay between samples, in frames")
	f.Float64Var(&analyseOpts.cfg.DT, "dt", analyseOpts.cfg.DT, "stride between windows, in frames")
	f.IntVar(&analyseOpts.cfg.DerivWin, "deriv-win", 0, "temporal derivative window (0 = off)")
	f.IntVar(&analyseOpts.cfg.PCARank, "pca-rank", 0, "PCA components to keep (0 = full rank)")
	f.IntVar(&analyseOpts.cfg.MaxHomologyDim, "max-dim", analyseOpts.cfg.MaxHomologyDim, "maximum homology dimension (0-2)")
	f.IntVar(&analyseOpts.cfg.FieldPrime, "prime", analyseOpts.cfg.FieldPrime, "coefficient field prime")
	f.StringVar(&analyseOpts.pngOut, "png", "", "write H1 diagram scatter PNG to this path")
	f.StringVar(&analyseOpts.htmlOut, "html", "", "write interactive diagram page to this path")
	f.StringVar(&analyseOpts.cloudOut, "cloud-png", "", "write point cloud projection PNG to this path")
	f.StringVar(&analyseOpts.configPath, "config", "", "JSON defaults file (flags take precedence)")
	analyseCmd.MarkFlagRequired("input")

	sweepOpts.base = pipeline.DefaultConfig()
	sf := sweepCmd.Flags()
	sf.StringVar(&sweepOpts.input, "input", "", "frame sequence .npy file (required)")
	sf.IntVar(&sweepOpts.width, "width", 0, "original frame width (0 if unknown)")
	sf.IntVar(&sweepOpts.height, "height", 0, "original frame height (0 if unknown)")
	sf.StringVar(&sweepOpts.dims, "dims", "", "dim values: min:max:step or comma list")
	sf.StringVar(&sweepOpts.taus, "taus", "", "tau values: min:max:step or comma list")
	sf.StringVar(&sweepOpts.dts, "dts", "", "dt values: min:max:step or comma list")
	sf.StringVar(&sweepOpts.derivWins, "deriv-wins", "", "derivative window values (0 = off)")
	sf.IntVar(&sweepOpts.base.PCARank, "pca-rank", 0, "PCA components to keep (0 = full rank)")
	sf.IntVar(&sweepOpts.base.MaxHomologyDim, "max-dim", sweepOpts.base.MaxHomologyDim, "maximum homology dimension (0-2)")
	sf.IntVar(&sweepOpts.base.FieldPrime, "prime", sweepOpts.base.FieldPrime, "coefficient field prime")
	sf.StringVar(&sweepOpts.dbPath, "db", "", "sqlite store for sweep results (optional)")
	sf.IntVar(&sweepOpts.top, "top", 0, "print only the top K results (needs --db)")
	sf.StringVar(&sweepOpts.configPath, "config", "", "JSON defaults file (flags take precedence)")
	sweepCmd.MarkFlagRequired("input")

	gf := genCmd.Flags()
	gf.StringVar(&genOpts.kind, "kind", "sine", "sequence kind: sine, twotone, drift, image")
	gf.IntVar(&genOpts.n, "frames", 120, "number of frames")
	gf.Float64Var(&genOpts.period, "period", 30, "primary oscillation period, in frames")
	gf.Float64Var(&genOpts.period2, "period2", 30*(1+1.61803398875), "secondary period (twotone)")
	gf.Float64Var(&genOpts.drift, "drift", 0.05, "per-frame drift (drift kind)")
	gf.IntVar(&genOpts.width, "width", 16, "frame width (image kind)")
	gf.IntVar(&genOpts.height, "height", 12, "frame height (image kind)")
	gf.StringVar(&genOpts.out, "out", "frames.npy", "output .npy path")

	rootCmd.AddCommand(analyseCmd, sweepCmd, genCmd)
}
