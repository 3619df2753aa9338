package frames

import (
	"fmt"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// Load reads a 2-D float64 NumPy .npy file as a frame matrix. The decoding
// collaborator is expected to write frames as an N x (W*H) array; width and
// height are supplied by the caller because .npy carries no image geometry.
func Load(path string, width, height int) (*Matrix, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("frames: open %s: %w", path, err)
	}
	if len(r.Shape) != 2 {
		return nil, fmt.Errorf("frames: %s: expected 2-D array, got %d-D", path, len(r.Shape))
	}
	data, err := r.GetFloat64()
	if err != nil {
		return nil, fmt.Errorf("frames: read %s: %w", path, err)
	}
	d := mat.NewDense(r.Shape[0], r.Shape[1], data)
	return New(d, width, height)
}

// Save writes a frame matrix to a NumPy .npy file.
func Save(path string, m *Matrix) error {
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("frames: create %s: %w", path, err)
	}
	rows, cols := m.Data.Dims()
	w.Shape = []int{rows, cols}
	w.Version = 2
	if err := w.WriteFloat64(m.Data.RawMatrix().Data); err != nil {
		return fmt.Errorf("frames: write %s: %w", path, err)
	}
	return nil
}
