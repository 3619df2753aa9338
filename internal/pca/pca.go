// Package pca compresses a frame sequence onto the eigenbasis of its Gram
// matrix. N frames span at most an N-dimensional subspace of pixel space, so
// working with the N x N frame-to-frame inner product matrix instead of the
// (W*H) x (W*H) pixel covariance keeps the eigendecomposition cheap:
// O(N^2 * W*H + N^3) instead of O((W*H)^2 * N).
package pca

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Compress projects each row of x onto the top eigenvectors of G = x * x^T.
// The returned matrix has one row per input frame and one column per kept
// component, scaled by sqrt(eigenvalue) so that inner products between rows
// are preserved: coords * coords^T reconstructs G within numerical
// tolerance. Columns are ordered by descending eigenvalue.
//
// rank limits the number of kept components; rank 0 keeps all N. Small
// negative eigenvalues from floating-point noise are clamped to zero before
// the square root.
func Compress(x *mat.Dense, rank int) (*mat.Dense, []float64, error) {
	n, p := x.Dims()
	if n == 0 || p == 0 {
		return nil, nil, fmt.Errorf("pca: empty input matrix %dx%d", n, p)
	}
	if rank < 0 || rank > n {
		return nil, nil, fmt.Errorf("pca: rank %d out of range [0, %d]", rank, n)
	}
	if rank == 0 {
		rank = n
	}

	var gram mat.Dense
	gram.Mul(x, x.T())

	// EigenSym wants an exactly symmetric input; x*x^T can be off by a few
	// ulps, so fold the two triangles together.
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, (gram.At(i, j)+gram.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if !es.Factorize(sym, true) {
		return nil, nil, fmt.Errorf("pca: eigendecomposition of %dx%d Gram matrix failed", n, n)
	}
	vals := es.Values(nil) // ascending
	var vecs mat.Dense
	es.VectorsTo(&vecs)

	coords := mat.NewDense(n, rank, nil)
	eigs := make([]float64, rank)
	for c := 0; c < rank; c++ {
		src := n - 1 - c
		ev := vals[src]
		if ev < 0 {
			ev = 0
		}
		eigs[c] = ev
		s := math.Sqrt(ev)
		for r := 0; r < n; r++ {
			coords.Set(r, c, vecs.At(r, src)*s)
		}
	}
	return coords, eigs, nil
}
