// Package temporal filters a compressed frame sequence along the time axis.
// The derivative filter suppresses slow drift (illumination changes, camera
// settling) while preserving oscillatory content, which keeps the sliding
// window embedding focused on the dynamics rather than the baseline.
package temporal

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Derivative estimates the local temporal slope of each column of x with a
// least-squares line fit over win consecutive rows. The output has
// N - win + 1 rows; the second return value lists the original row indices
// the surviving rows correspond to (the window centre, rounded down), since
// edge frames are lost to the window.
func Derivative(x *mat.Dense, win int) (*mat.Dense, []int, error) {
	n, p := x.Dims()
	if win < 2 {
		return nil, nil, fmt.Errorf("temporal: window %d too small, need at least 2", win)
	}
	if win > n {
		return nil, nil, fmt.Errorf("temporal: window %d exceeds %d available frames", win, n)
	}

	// Centred integer weights c_j = j - (win-1)/2 give the closed-form
	// least-squares slope: sum(c_j * x[t+j]) / sum(c_j^2).
	weights := make([]float64, win)
	var norm float64
	for j := 0; j < win; j++ {
		c := float64(j) - float64(win-1)/2
		weights[j] = c
		norm += c * c
	}

	m := n - win + 1
	out := mat.NewDense(m, p, nil)
	valid := make([]int, m)
	for i := 0; i < m; i++ {
		valid[i] = i + (win-1)/2
		for col := 0; col < p; col++ {
			var acc float64
			for j := 0; j < win; j++ {
				acc += weights[j] * x.At(i+j, col)
			}
			out.Set(i, col, acc/norm)
		}
	}
	return out, valid, nil
}
