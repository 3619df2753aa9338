package sweep

import (
	"testing"

	"github.com/cadence-data/recurrence.report/internal/frames"
	"github.com/cadence-data/recurrence.report/internal/pipeline"
)

func TestGridCombos(t *testing.T) {
	base := pipeline.DefaultConfig()
	grid := Grid{
		Dims: []int{10, 20},
		Taus: []float64{1, 1.5, 2},
	}

	combos := grid.Combos(base)
	if len(combos) != 6 {
		t.Fatalf("len(combos) = %d, want 6", len(combos))
	}
	// Unswept fields come from the base config.
	for _, c := range combos {
		if c.DT != base.DT || c.FieldPrime != base.FieldPrime {
			t.Errorf("combo %+v did not inherit base fields", c)
		}
	}
	if combos[0].Dim != 10 || combos[0].Tau != 1 {
		t.Errorf("first combo = %+v, want dim=10 tau=1", combos[0])
	}
	if combos[5].Dim != 20 || combos[5].Tau != 2 {
		t.Errorf("last combo = %+v, want dim=20 tau=2", combos[5])
	}
}

func TestRunner_SweepFindsPeriod(t *testing.T) {
	// A period-20 sine swept across window sizes: the best combination
	// must produce windows and a positive periodicity score.
	video := frames.Sine(80, 20)
	grid := Grid{Dims: []int{5, 10, 20}}

	r := &Runner{}
	summary, err := r.Run(video.Data, pipeline.DefaultConfig(), grid, "test")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Results) != 3 {
		t.Fatalf("results = %d, want 3", len(summary.Results))
	}
	if summary.Best == nil {
		t.Fatal("no best combination")
	}
	if summary.Best.Scores.Periodicity <= 0 {
		t.Errorf("best periodicity = %v, want > 0", summary.Best.Scores.Periodicity)
	}
	if summary.Best.Config.Dim != 20 {
		t.Logf("best dim = %d (full-period window expected to win)", summary.Best.Config.Dim)
	}
}

func TestRunner_EmptyGeometryIsData(t *testing.T) {
	video := frames.Sine(30, 10)
	grid := Grid{Dims: []int{5, 40}} // 40 exceeds the frame count

	r := &Runner{}
	summary, err := r.Run(video.Data, pipeline.DefaultConfig(), grid, "test")
	if err != nil {
		t.Fatalf("sweep must survive empty-geometry combos: %v", err)
	}
	var empty *ComboResult
	for i := range summary.Results {
		if summary.Results[i].Config.Dim == 40 {
			empty = &summary.Results[i]
		}
	}
	if empty == nil {
		t.Fatal("missing dim=40 combo")
	}
	if empty.Windows != 0 || empty.Scores.Periodicity != 0 {
		t.Errorf("empty combo = %+v, want zero windows and scores", empty)
	}
}

func TestRunner_InvalidComboFailsFast(t *testing.T) {
	video := frames.Sine(30, 10)
	grid := Grid{Dims: []int{0}}

	r := &Runner{}
	if _, err := r.Run(video.Data, pipeline.DefaultConfig(), grid, "test"); err == nil {
		t.Error("dim=0 combo should fail validation before running")
	}
}
