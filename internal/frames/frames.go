// Package frames holds decoded video data as dense frame-by-pixel matrices.
// Decoding video containers is an external concern; this package only deals
// with the numeric frame sequence a decoder hands over, plus NumPy .npy
// exchange and synthetic sequences used in tests and tooling.
package frames

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix is an ordered frame sequence: one row per frame, one column per
// pixel. Width and Height record the original frame geometry so a consumer
// can reshape rows back into images; both are zero for abstract signals
// that never had a 2-D layout.
type Matrix struct {
	Data   *mat.Dense
	Width  int
	Height int
}

// New wraps a frame-by-pixel matrix. When width and height are non-zero the
// column count must equal width*height.
func New(data *mat.Dense, width, height int) (*Matrix, error) {
	if data == nil {
		return nil, fmt.Errorf("frames: nil data matrix")
	}
	rows, cols := data.Dims()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("frames: empty matrix %dx%d", rows, cols)
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("frames: negative geometry %dx%d", width, height)
	}
	if (width == 0) != (height == 0) {
		return nil, fmt.Errorf("frames: width and height must both be set or both be zero, got %dx%d", width, height)
	}
	if width > 0 && cols != width*height {
		return nil, fmt.Errorf("frames: expected %d pixel columns for %dx%d frames, got %d", width*height, width, height, cols)
	}
	return &Matrix{Data: data, Width: width, Height: height}, nil
}

// Count returns the number of frames in the sequence.
func (m *Matrix) Count() int {
	n, _ := m.Data.Dims()
	return n
}

// Pixels returns the number of pixels per frame.
func (m *Matrix) Pixels() int {
	_, p := m.Data.Dims()
	return p
}

// CheckShape validates a stage boundary. A want value of -1 accepts any
// extent in that dimension. The op name ends up in the error message so a
// misconfigured pipeline is diagnosable from the failure alone.
func CheckShape(op string, m *mat.Dense, wantRows, wantCols int) error {
	if m == nil {
		return fmt.Errorf("%s: nil matrix", op)
	}
	rows, cols := m.Dims()
	if (wantRows >= 0 && rows != wantRows) || (wantCols >= 0 && cols != wantCols) {
		return fmt.Errorf("%s: expected %sx%s matrix, got %dx%d",
			op, extent(wantRows), extent(wantCols), rows, cols)
	}
	return nil
}

func extent(v int) string {
	if v < 0 {
		return "*"
	}
	return fmt.Sprintf("%d", v)
}
