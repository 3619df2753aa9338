// Package config loads analysis defaults from a JSON file. Fields are
// pointers so a file can override just the parameters it names; everything
// else keeps the built-in default. The schema matches the flag surface of
// the analyse and sweep commands so one file serves both.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cadence-data/recurrence.report/internal/pipeline"
)

// FileConfig is the root of an analysis defaults file.
type FileConfig struct {
	Dim            *int     `json:"dim,omitempty"`
	Tau            *float64 `json:"tau,omitempty"`
	DT             *float64 `json:"dt,omitempty"`
	DerivWin       *int     `json:"deriv_win,omitempty"`
	PCARank        *int     `json:"pca_rank,omitempty"`
	MaxHomologyDim *int     `json:"max_homology_dim,omitempty"`
	FieldPrime     *int     `json:"field_prime,omitempty"`
}

// Load reads and parses a defaults file.
func Load(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fc FileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &fc, nil
}

// Apply overlays the file's values onto a pipeline config, returning the
// result. Unset fields keep the value already in cfg.
func (fc *FileConfig) Apply(cfg pipeline.Config) pipeline.Config {
	if fc.Dim != nil {
		cfg.Dim = *fc.Dim
	}
	if fc.Tau != nil {
		cfg.Tau = *fc.Tau
	}
	if fc.DT != nil {
		cfg.DT = *fc.DT
	}
	if fc.DerivWin != nil {
		cfg.DerivWin = *fc.DerivWin
	}
	if fc.PCARank != nil {
		cfg.PCARank = *fc.PCARank
	}
	if fc.MaxHomologyDim != nil {
		cfg.MaxHomologyDim = *fc.MaxHomologyDim
	}
	if fc.FieldPrime != nil {
		cfg.FieldPrime = *fc.FieldPrime
	}
	return cfg
}
