package pipeline

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"github.com/cadence-data/recurrence.report/internal/frames"
	"github.com/cadence-data/recurrence.report/internal/persistence"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"zero dim", func(c *Config) { c.Dim = 0 }, true},
		{"negative tau", func(c *Config) { c.Tau = -1 }, true},
		{"zero dt", func(c *Config) { c.DT = 0 }, true},
		{"deriv win one", func(c *Config) { c.DerivWin = 1 }, true},
		{"deriv win off", func(c *Config) { c.DerivWin = 0 }, false},
		{"negative rank", func(c *Config) { c.PCARank = -2 }, true},
		{"homology dim three", func(c *Config) { c.MaxHomologyDim = 3 }, true},
		{"composite field", func(c *Config) { c.FieldPrime = 6 }, true},
		{"odd prime field", func(c *Config) { c.FieldPrime = 7 }, false},
		{"fractional tau dt", func(c *Config) { c.Tau = 1.5; c.DT = 0.25 }, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

// End-to-end scenario: 60 frames of a single pixel following a period-30
// sine, embedded with dim=30, tau=dt=1, must produce 30 windows and one H1
// pair towering over the rest of the diagram.
func TestRun_PeriodicSignal(t *testing.T) {
	video := frames.Sine(60, 30)
	cfg := DefaultConfig()
	cfg.Dim = 30

	res, err := RunMatrix(video.Data, cfg, nil)
	if err != nil {
		t.Fatalf("RunMatrix: %v", err)
	}
	if res.Windows() != 30 {
		t.Fatalf("windows = %d, want 30", res.Windows())
	}
	if len(res.DegenerateWindows) != 0 {
		t.Errorf("degenerate windows: %v", res.DegenerateWindows)
	}

	top := res.Diagrams[1].TopPersistences(2)
	if top[0] <= 0 {
		t.Fatal("no H1 feature found for a periodic signal")
	}
	if top[1] > 0.3*top[0] {
		t.Errorf("H1 runner-up %v not well separated from dominant %v", top[1], top[0])
	}
	if res.Scores.Periodicity < 0.5 {
		t.Errorf("periodicity score = %v, want > 0.5 for a clean sine", res.Scores.Periodicity)
	}
}

func TestRun_EmptyGeometry(t *testing.T) {
	video := frames.Sine(20, 10)
	cfg := DefaultConfig()
	cfg.Dim = 25 // dim*tau >= n

	res, err := RunMatrix(video.Data, cfg, nil)
	if err != nil {
		t.Fatalf("empty geometry must not error: %v", err)
	}
	if res.Windows() != 0 {
		t.Errorf("windows = %d, want 0", res.Windows())
	}
	if len(res.Diagrams) != 2 {
		t.Errorf("len(diagrams) = %d, want 2 empty diagrams", len(res.Diagrams))
	}
	if res.Scores.Periodicity != 0 {
		t.Errorf("periodicity = %v, want 0", res.Scores.Periodicity)
	}
}

func TestRun_Idempotent(t *testing.T) {
	video := frames.SineImage(40, 6, 5, 8)
	cfg := DefaultConfig()
	cfg.Dim = 8
	cfg.PCARank = 4

	a, err := Run(video, cfg, nil)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	b, err := Run(video, cfg, nil)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if !mat.Equal(a.Cloud, b.Cloud) {
		t.Error("clouds differ between identical runs")
	}
	if diff := cmp.Diff(a.Diagrams, b.Diagrams); diff != "" {
		t.Errorf("diagrams differ between identical runs:\n%s", diff)
	}
	if diff := cmp.Diff(a.Scores, b.Scores); diff != "" {
		t.Errorf("scores differ between identical runs:\n%s", diff)
	}
}

func TestRun_FullPipelineWithPCA(t *testing.T) {
	video := frames.SineImage(50, 8, 6, 10)
	cfg := DefaultConfig()
	cfg.Dim = 10
	cfg.PCARank = 3

	res, err := Run(video, cfg, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	_, cols := res.Compressed.Dims()
	if cols != 3 {
		t.Errorf("compressed cols = %d, want 3", cols)
	}
	if res.Windows() != 40 {
		t.Errorf("windows = %d, want 40", res.Windows())
	}
	// A full-frame oscillation should still read as periodic after
	// compression.
	if res.Scores.MaxPersistence[1] <= 0 {
		t.Error("expected a loop in the compressed embedding")
	}
}

func TestRun_TemporalFilterShrinksCloud(t *testing.T) {
	video := frames.Drifting(60, 12, 0.05)
	cfg := DefaultConfig()
	cfg.Dim = 12
	cfg.DerivWin = 5

	res, err := RunMatrix(video.Data, cfg, nil)
	if err != nil {
		t.Fatalf("RunMatrix: %v", err)
	}
	// 60 frames -> 56 filtered rows -> 44 windows.
	if len(res.ValidFrames) != 56 {
		t.Errorf("len(ValidFrames) = %d, want 56", len(res.ValidFrames))
	}
	if res.Windows() != 44 {
		t.Errorf("windows = %d, want 44", res.Windows())
	}
	if res.Scores.MaxPersistence[1] <= 0 {
		t.Error("drifting sine should still show a loop after filtering")
	}
}

func TestRun_DegenerateWindowsReported(t *testing.T) {
	// A constant signal embeds into identical, zero-variance windows;
	// every window must be reported degenerate and none may reach the
	// engine as NaN.
	d := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		d.Set(i, 0, 5)
	}
	cfg := DefaultConfig()
	cfg.Dim = 4

	res, err := RunMatrix(d, cfg, nil)
	if err != nil {
		t.Fatalf("RunMatrix: %v", err)
	}
	if res.Windows() != 0 {
		t.Errorf("windows = %d, want 0 after dropping degenerates", res.Windows())
	}
	if len(res.DegenerateWindows) != 16 {
		t.Errorf("degenerate count = %d, want 16", len(res.DegenerateWindows))
	}
}

func TestScoreDiagrams(t *testing.T) {
	diagrams := []persistence.Diagram{
		{{Birth: 0, Death: 0.2}, {Birth: 0, Death: math.Inf(1)}},
		{{Birth: 0.3, Death: 1.5}, {Birth: 0.4, Death: 1.0}, {Birth: 0.5, Death: 0.6}},
	}

	s := ScoreDiagrams(diagrams)
	if math.Abs(s.MaxPersistence[0]-0.2) > 1e-12 {
		t.Errorf("H0 max persistence = %v, want 0.2", s.MaxPersistence[0])
	}
	if math.Abs(s.MaxPersistence[1]-1.2) > 1e-12 {
		t.Errorf("H1 max persistence = %v, want 1.2", s.MaxPersistence[1])
	}
	if want := 1.2 / math.Sqrt(3); math.Abs(s.Periodicity-want) > 1e-12 {
		t.Errorf("periodicity = %v, want %v", s.Periodicity, want)
	}
	// Geometric mean of the two largest H1 persistences (1.2 and 0.6).
	if want := math.Sqrt(1.2*0.6) / math.Sqrt(3); math.Abs(s.Quasiperiodicity-want) > 1e-12 {
		t.Errorf("quasiperiodicity = %v, want %v", s.Quasiperiodicity, want)
	}

	// H0-only diagrams leave the loop scores at zero.
	s = ScoreDiagrams(diagrams[:1])
	if s.Periodicity != 0 || s.Quasiperiodicity != 0 {
		t.Errorf("H0-only scores = %+v, want zero loop scores", s)
	}
}

func TestRun_InvalidInputs(t *testing.T) {
	if _, err := Run(nil, DefaultConfig(), nil); err == nil {
		t.Error("nil video should fail")
	}
	cfg := DefaultConfig()
	cfg.Dim = 0
	if _, err := RunMatrix(mat.NewDense(10, 1, nil), cfg, nil); err == nil {
		t.Error("invalid config should fail")
	}
}
