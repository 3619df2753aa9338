// Package pipeline wires the analysis stages together: PCA compression,
// optional temporal filtering, sliding-window embedding, normalisation and
// persistence. Every run is a stateless computation over one frame
// sequence; nothing is shared or cached between runs.
package pipeline

import (
	"fmt"
)

// Config holds the parameters of one analysis run.
type Config struct {
	// Dim is the number of delayed samples stacked into each embedding
	// vector.
	Dim int `json:"dim"`
	// Tau is the delay between samples within a window, in frames. It may
	// be fractional; samples between frames are interpolated.
	Tau float64 `json:"tau"`
	// DT is the stride between consecutive windows, in frames. May be
	// fractional.
	DT float64 `json:"dt"`
	// DerivWin enables the temporal derivative filter when >= 2; zero
	// disables it.
	DerivWin int `json:"deriv_win,omitempty"`
	// PCARank limits the compressed dimension; zero keeps the full rank.
	PCARank int `json:"pca_rank,omitempty"`
	// MaxHomologyDim is the highest homological dimension requested from
	// the persistence engine (0-2).
	MaxHomologyDim int `json:"max_homology_dim"`
	// FieldPrime is the coefficient field order for the persistence
	// computation. Must be prime.
	FieldPrime int `json:"field_prime"`
}

// DefaultConfig returns a config with the conventional defaults: loops
// (H1) over Z/2, no temporal filter, full PCA rank.
func DefaultConfig() Config {
	return Config{
		Dim:            20,
		Tau:            1,
		DT:             1,
		MaxHomologyDim: 1,
		FieldPrime:     2,
	}
}

// Validate reports the first invalid field. Window-count geometry is not
// checked here: a (dim, tau, dt) combination that produces no windows is a
// legitimate sweep point, signalled by an empty cloud at run time.
func (c Config) Validate() error {
	if c.Dim < 1 {
		return fmt.Errorf("pipeline: dim %d must be at least 1", c.Dim)
	}
	if c.Tau <= 0 {
		return fmt.Errorf("pipeline: tau %v must be positive", c.Tau)
	}
	if c.DT <= 0 {
		return fmt.Errorf("pipeline: dt %v must be positive", c.DT)
	}
	if c.DerivWin != 0 && c.DerivWin < 2 {
		return fmt.Errorf("pipeline: deriv_win %d must be 0 (off) or at least 2", c.DerivWin)
	}
	if c.PCARank < 0 {
		return fmt.Errorf("pipeline: pca_rank %d must not be negative", c.PCARank)
	}
	if c.MaxHomologyDim < 0 || c.MaxHomologyDim > 2 {
		return fmt.Errorf("pipeline: max_homology_dim %d out of range [0, 2]", c.MaxHomologyDim)
	}
	if !primeField(c.FieldPrime) {
		return fmt.Errorf("pipeline: field_prime %d is not prime", c.FieldPrime)
	}
	return nil
}

func primeField(p int) bool {
	if p < 2 {
		return false
	}
	for d := 2; d*d <= p; d++ {
		if p%d == 0 {
			return false
		}
	}
	return true
}
