package pipeline

import (
	"math"

	"github.com/cadence-data/recurrence.report/internal/persistence"
)

// Scores condenses persistence diagrams into periodicity measures. For a
// mean-centred, unit-norm point cloud the largest achievable H1 persistence
// is sqrt(3) (a perfect circle), which normalises both scores into [0, 1].
type Scores struct {
	// MaxPersistence holds the largest finite persistence per homological
	// dimension, index-aligned with Result.Diagrams.
	MaxPersistence []float64 `json:"max_persistence"`
	// Periodicity scores the single most prominent loop.
	Periodicity float64 `json:"periodicity"`
	// Quasiperiodicity scores the presence of two prominent loops, the
	// torus signature of two incommensurate frequencies. It is the
	// geometric mean of the two largest H1 persistences, normalised like
	// Periodicity.
	Quasiperiodicity float64 `json:"quasiperiodicity"`
}

// ScoreDiagrams computes scores from the diagrams of one run.
func ScoreDiagrams(diagrams []persistence.Diagram) Scores {
	s := Scores{MaxPersistence: make([]float64, len(diagrams))}
	for i, d := range diagrams {
		s.MaxPersistence[i] = d.MaxPersistence()
	}
	if len(diagrams) < 2 {
		return s
	}
	top := diagrams[1].TopPersistences(2)
	s.Periodicity = top[0] / math.Sqrt(3)
	s.Quasiperiodicity = math.Sqrt(top[0]*top[1]) / math.Sqrt(3)
	return s
}
