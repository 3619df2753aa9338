package embed

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// degenerateNorm is the post-centring norm below which a window is treated
// as constant. Normalising such a row would divide by zero and poison every
// downstream distance computation with NaN.
const degenerateNorm = 1e-12

// Normalize mean-centres each row of the point cloud and scales it to unit
// Euclidean norm, removing amplitude and offset so that only the shape of
// the trajectory matters. Degenerate rows (constant within a window, zero
// variance) are dropped from the returned cloud; their original row indices
// are reported in the second return value so callers can surface the
// condition instead of silently losing windows.
//
// A nil or empty input yields a nil cloud, as does an input whose rows are
// all degenerate.
func Normalize(x *mat.Dense) (*mat.Dense, []int) {
	if x == nil {
		return nil, nil
	}
	n, p := x.Dims()

	kept := make([]float64, 0, n*p)
	var degenerate []int
	rows := 0
	for i := 0; i < n; i++ {
		src := x.RawRowView(i)
		row := make([]float64, p)
		copy(row, src)

		mean := floats.Sum(row) / float64(p)
		for c := range row {
			row[c] -= mean
		}
		norm := floats.Norm(row, 2)
		if norm < degenerateNorm {
			degenerate = append(degenerate, i)
			continue
		}
		floats.Scale(1/norm, row)
		kept = append(kept, row...)
		rows++
	}
	if rows == 0 {
		return nil, degenerate
	}
	return mat.NewDense(rows, p, kept), degenerate
}
