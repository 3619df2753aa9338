// Package persistence computes and represents persistence diagrams of point
// clouds. The Engine interface is the seam for plugging in an external
// solver; the Rips engine in this package is a compact reference
// implementation good for the cloud sizes this pipeline produces.
package persistence

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Pair is one topological feature: the filtration scale at which it appears
// and the scale at which it disappears. Death is +Inf for essential classes
// that never die (e.g. the one connected component every cloud retains).
type Pair struct {
	Birth float64 `json:"birth"`
	Death float64 `json:"death"`
}

// Persistence returns Death - Birth, +Inf for essential classes.
func (p Pair) Persistence() float64 {
	if math.IsInf(p.Death, 1) {
		return math.Inf(1)
	}
	return p.Death - p.Birth
}

// Diagram is the multiset of pairs for one homological dimension.
type Diagram []Pair

// MaxPersistence returns the largest finite persistence in the diagram, or
// zero for an empty (or all-essential) diagram. Essential classes are
// excluded: they say nothing about loop prominence.
func (d Diagram) MaxPersistence() float64 {
	var max float64
	for _, p := range d {
		if pers := p.Persistence(); !math.IsInf(pers, 1) && pers > max {
			max = pers
		}
	}
	return max
}

// TopPersistences returns the k largest finite persistences, descending,
// padded with zeros when the diagram has fewer finite pairs.
func (d Diagram) TopPersistences(k int) []float64 {
	vals := make([]float64, 0, len(d))
	for _, p := range d {
		if pers := p.Persistence(); !math.IsInf(pers, 1) {
			vals = append(vals, pers)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(vals)))
	out := make([]float64, k)
	copy(out, vals)
	return out
}

// Engine computes persistence diagrams for homological dimensions
// 0..maxDim from a point cloud under the Euclidean metric, with simplicial
// homology coefficients in the field Z/prime.
type Engine interface {
	Diagrams(cloud *mat.Dense, maxDim, prime int) ([]Diagram, error)
}
