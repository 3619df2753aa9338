package embed

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func sequential(n, p int) *mat.Dense {
	d := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			d.Set(i, j, float64(i*p+j))
		}
	}
	return d
}

// With integer tau=dt=1 the embedding needs no interpolation and each output
// row must be the exact concatenation of dim consecutive input rows.
func TestWindow_IntegerParamsDegenerateToStacking(t *testing.T) {
	x := sequential(10, 3)
	dim := 4

	cloud, err := Window(x, dim, 1, 1)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	rows, cols := cloud.Dims()
	if rows != 6 || cols != 12 {
		t.Fatalf("cloud shape = %dx%d, want 6x12", rows, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < dim; j++ {
			for c := 0; c < 3; c++ {
				want := x.At(i+j, c)
				got := cloud.At(i, j*3+c)
				if got != want {
					t.Fatalf("cloud[%d][%d] = %v, want x[%d][%d] = %v", i, j*3+c, got, i+j, c, want)
				}
			}
		}
	}
}

func TestWindow_CountFormula(t *testing.T) {
	cases := []struct {
		n, dim  int
		tau, dt float64
		want    int
	}{
		{100, 10, 1, 1, 90},
		{60, 30, 1, 1, 30},
		{50, 5, 2.5, 1, 37},
		{50, 5, 1, 0.5, 90},
		{30, 30, 1, 1, 0},  // dim*tau == n
		{20, 30, 1, 1, 0},  // dim*tau > n
		{10, 2, 10, 1, 0},  // negative numerator clamps to empty
	}
	for _, tc := range cases {
		if got := WindowCount(tc.n, tc.dim, tc.tau, tc.dt); got != tc.want {
			t.Errorf("WindowCount(%d, %d, %v, %v) = %d, want %d", tc.n, tc.dim, tc.tau, tc.dt, got, tc.want)
		}
		cloud, err := Window(sequential(tc.n, 2), tc.dim, tc.tau, tc.dt)
		if err != nil {
			t.Errorf("Window(n=%d dim=%d tau=%v dt=%v): unexpected error %v", tc.n, tc.dim, tc.tau, tc.dt, err)
			continue
		}
		got := 0
		if cloud != nil {
			got, _ = cloud.Dims()
		}
		// Boundary truncation may only ever shrink the cloud.
		if got > tc.want {
			t.Errorf("Window(n=%d dim=%d tau=%v dt=%v) rows = %d, exceeds nominal %d", tc.n, tc.dim, tc.tau, tc.dt, got, tc.want)
		}
		if tc.want == 0 && cloud != nil {
			t.Errorf("Window(n=%d dim=%d tau=%v dt=%v) should be empty", tc.n, tc.dim, tc.tau, tc.dt)
		}
	}
}

func TestWindow_FractionalTauInterpolates(t *testing.T) {
	// x[t] = 2t is linear, so interpolation at any fractional location is
	// exact: sample at loc must equal 2*loc.
	n := 20
	x := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 2*float64(i))
	}

	dim, tau, dt := 3, 1.5, 0.5
	cloud, err := Window(x, dim, tau, dt)
	if err != nil {
		t.Fatalf("Window: %v", err)
	}
	rows, cols := cloud.Dims()
	if cols != dim {
		t.Fatalf("cols = %d, want %d", cols, dim)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < dim; j++ {
			loc := float64(i)*dt + float64(j)*tau
			want := 2 * loc
			if math.Abs(cloud.At(i, j)-want) > 1e-9 {
				t.Errorf("cloud[%d][%d] = %v, want %v (loc %v)", i, j, cloud.At(i, j), want, loc)
			}
		}
	}
}

func TestWindow_EmptyGeometryIsNotAnError(t *testing.T) {
	x := sequential(10, 2)
	cloud, err := Window(x, 20, 1, 1)
	if err != nil {
		t.Fatalf("dim*tau >= n must not error, got %v", err)
	}
	if cloud != nil {
		t.Error("cloud should be nil for empty geometry")
	}
}

func TestWindow_InvalidParams(t *testing.T) {
	x := sequential(10, 2)
	if _, err := Window(x, 0, 1, 1); err == nil {
		t.Error("dim=0 should fail")
	}
	if _, err := Window(x, 3, 0, 1); err == nil {
		t.Error("tau=0 should fail")
	}
	if _, err := Window(x, 3, 1, -1); err == nil {
		t.Error("negative dt should fail")
	}
}

func TestNormalize_RowsZeroMeanUnitNorm(t *testing.T) {
	x := mat.NewDense(5, 8, nil)
	for i := 0; i < 5; i++ {
		for j := 0; j < 8; j++ {
			x.Set(i, j, float64(i+1)*math.Sin(float64(j))+float64(i))
		}
	}

	out, degenerate := Normalize(x)
	if len(degenerate) != 0 {
		t.Fatalf("unexpected degenerate rows: %v", degenerate)
	}
	rows, cols := out.Dims()
	if rows != 5 || cols != 8 {
		t.Fatalf("shape = %dx%d, want 5x8", rows, cols)
	}
	for i := 0; i < rows; i++ {
		var sum, sq float64
		for j := 0; j < cols; j++ {
			v := out.At(i, j)
			sum += v
			sq += v * v
		}
		if math.Abs(sum/float64(cols)) > 1e-9 {
			t.Errorf("row %d mean = %v, want 0", i, sum/float64(cols))
		}
		if math.Abs(math.Sqrt(sq)-1) > 1e-9 {
			t.Errorf("row %d norm = %v, want 1", i, math.Sqrt(sq))
		}
	}
}

func TestNormalize_ReportsDegenerateRows(t *testing.T) {
	x := mat.NewDense(4, 5, nil)
	for j := 0; j < 5; j++ {
		x.Set(0, j, math.Sin(float64(j)))
		x.Set(1, j, 7.25) // constant row
		x.Set(2, j, math.Cos(float64(j)))
		x.Set(3, j, -3) // constant row
	}

	out, degenerate := Normalize(x)
	rows, _ := out.Dims()
	if rows != 2 {
		t.Errorf("kept rows = %d, want 2", rows)
	}
	if len(degenerate) != 2 || degenerate[0] != 1 || degenerate[1] != 3 {
		t.Errorf("degenerate = %v, want [1 3]", degenerate)
	}
	// No NaN may survive.
	for i := 0; i < rows; i++ {
		for j := 0; j < 5; j++ {
			if math.IsNaN(out.At(i, j)) || math.IsInf(out.At(i, j), 0) {
				t.Fatalf("non-finite value at (%d,%d)", i, j)
			}
		}
	}
}

func TestNormalize_AllDegenerate(t *testing.T) {
	x := mat.NewDense(2, 4, []float64{1, 1, 1, 1, 2, 2, 2, 2})
	out, degenerate := Normalize(x)
	if out != nil {
		t.Error("all-degenerate input should yield nil cloud")
	}
	if len(degenerate) != 2 {
		t.Errorf("degenerate = %v, want both rows", degenerate)
	}
}

func TestNormalize_NilInput(t *testing.T) {
	out, degenerate := Normalize(nil)
	if out != nil || degenerate != nil {
		t.Error("nil input should yield nil outputs")
	}
}
