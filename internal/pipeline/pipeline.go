package pipeline

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cadence-data/recurrence.report/internal/embed"
	"github.com/cadence-data/recurrence.report/internal/frames"
	"github.com/cadence-data/recurrence.report/internal/pca"
	"github.com/cadence-data/recurrence.report/internal/persistence"
	"github.com/cadence-data/recurrence.report/internal/temporal"
)

// Result is the output of one analysis run.
type Result struct {
	// Compressed is the PCA-reduced frame matrix the embedding was built
	// from (post temporal filter, when enabled).
	Compressed *mat.Dense
	// ValidFrames lists original frame indices surviving the temporal
	// filter; nil when the filter is off.
	ValidFrames []int
	// Cloud is the normalised point cloud; nil when the window geometry
	// admits no windows or every window was degenerate.
	Cloud *mat.Dense
	// DegenerateWindows lists window indices dropped by normalisation.
	DegenerateWindows []int
	// Diagrams holds one persistence diagram per homological dimension
	// 0..MaxHomologyDim. Empty diagrams when Cloud is nil.
	Diagrams []persistence.Diagram
	// Scores summarises the diagrams.
	Scores Scores
}

// Windows returns the number of points in the embedded cloud.
func (r *Result) Windows() int {
	if r.Cloud == nil {
		return 0
	}
	n, _ := r.Cloud.Dims()
	return n
}

// Run executes the full pipeline on a raw frame sequence: PCA compression,
// optional temporal derivative, sliding-window embedding, normalisation and
// persistence. engine may be nil, in which case the reference Rips engine
// is used.
func Run(video *frames.Matrix, cfg Config, engine persistence.Engine) (*Result, error) {
	if video == nil || video.Data == nil {
		return nil, fmt.Errorf("pipeline: nil frame sequence")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	coords, _, err := pca.Compress(video.Data, cfg.PCARank)
	if err != nil {
		return nil, err
	}
	return run(coords, cfg, engine)
}

// RunMatrix executes the pipeline on an already-compressed frame matrix,
// skipping the PCA stage. Useful when frames are scalar signals or were
// reduced elsewhere.
func RunMatrix(x *mat.Dense, cfg Config, engine persistence.Engine) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := frames.CheckShape("pipeline: compressed input", x, -1, -1); err != nil {
		return nil, err
	}
	return run(x, cfg, engine)
}

func run(x *mat.Dense, cfg Config, engine persistence.Engine) (*Result, error) {
	res := &Result{}

	if cfg.DerivWin >= 2 {
		filtered, valid, err := temporal.Derivative(x, cfg.DerivWin)
		if err != nil {
			return nil, err
		}
		x = filtered
		res.ValidFrames = valid
	}
	res.Compressed = x

	cloud, err := embed.Window(x, cfg.Dim, cfg.Tau, cfg.DT)
	if err != nil {
		return nil, err
	}

	res.Cloud, res.DegenerateWindows = embed.Normalize(cloud)
	if res.Cloud == nil {
		// InvalidGeometry or all-degenerate input: empty diagrams, zero
		// scores, no engine call. Sweeps treat this as data.
		res.Diagrams = make([]persistence.Diagram, cfg.MaxHomologyDim+1)
		return res, nil
	}

	if engine == nil {
		engine = persistence.NewRips()
	}
	diagrams, err := engine.Diagrams(res.Cloud, cfg.MaxHomologyDim, cfg.FieldPrime)
	if err != nil {
		return nil, fmt.Errorf("pipeline: persistence engine: %w", err)
	}
	res.Diagrams = diagrams
	res.Scores = ScoreDiagrams(diagrams)
	return res, nil
}
