// Package embed builds sliding-window time-delay point clouds from a
// compressed frame sequence. Periodic dynamics trace out loops in the
// embedded space; the persistence engine downstream turns that geometry
// into a score.
package embed

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Window builds the delay embedding of x (N rows, P columns). Each output
// row concatenates dim samples of the row trajectory taken tau apart, with
// consecutive windows advancing by dt. tau and dt may be fractional: sample
// locations between integer frame indices are linearly interpolated from
// the bracketing rows.
//
// The window count is M = floor((N - dim*tau) / dt). When the combination
// of parameters admits no window (M <= 0) the result is a nil matrix and a
// nil error, so parameter sweeps can skip the combination without special
// casing a failure. When floating-point rounding pushes a late window's
// sample range past the last frame, the cloud is truncated to the windows
// that were fully covered; this relaxed boundary policy is deliberate.
func Window(x *mat.Dense, dim int, tau, dt float64) (*mat.Dense, error) {
	n, p := x.Dims()
	if dim < 1 {
		return nil, fmt.Errorf("embed: dim %d must be at least 1", dim)
	}
	if tau <= 0 || dt <= 0 {
		return nil, fmt.Errorf("embed: tau %v and dt %v must be positive", tau, dt)
	}

	m := int(math.Floor((float64(n) - float64(dim)*tau) / dt))
	if m <= 0 {
		return nil, nil
	}

	rows := make([]float64, 0, m*dim*p)
	computed := 0
	for i := 0; i < m; i++ {
		row, ok := sampleWindow(x, n, p, dim, float64(i)*dt, tau)
		if !ok {
			break // boundary overrun: keep what we have
		}
		rows = append(rows, row...)
		computed++
	}
	if computed == 0 {
		return nil, nil
	}
	return mat.NewDense(computed, dim*p, rows), nil
}

// sampleWindow interpolates the dim samples starting at location start,
// spaced tau apart, into one concatenated row. Returns ok=false if any
// sample would need a frame past the end of the sequence.
func sampleWindow(x *mat.Dense, n, p, dim int, start, tau float64) ([]float64, bool) {
	row := make([]float64, 0, dim*p)
	for j := 0; j < dim; j++ {
		loc := start + float64(j)*tau
		i0 := int(math.Floor(loc))
		frac := loc - float64(i0)
		switch {
		case i0 >= 0 && i0 < n-1:
			r0 := x.RawRowView(i0)
			r1 := x.RawRowView(i0 + 1)
			for c := 0; c < p; c++ {
				row = append(row, r0[c]+frac*(r1[c]-r0[c]))
			}
		case i0 == n-1 && frac < 1e-9:
			row = append(row, x.RawRowView(i0)...)
		default:
			return nil, false
		}
	}
	return row, true
}

// WindowCount returns floor((n - dim*tau) / dt), clamped at zero. It is the
// nominal cloud size before any boundary truncation.
func WindowCount(n, dim int, tau, dt float64) int {
	m := int(math.Floor((float64(n) - float64(dim)*tau) / dt))
	if m < 0 {
		return 0
	}
	return m
}
