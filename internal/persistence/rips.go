package persistence

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Rips computes Vietoris-Rips persistence by the standard boundary-matrix
// column reduction over Z/prime. Simplex enumeration is combinatorial
// (every subset of up to maxDim+2 points becomes a simplex), so the engine
// is meant for the modest cloud sizes the sliding-window pipeline produces,
// not for bulk point-cloud work. MaxSimplices bounds the enumeration and
// turns an oversized request into an error instead of an allocation storm.
type Rips struct {
	MaxSimplices int
}

// NewRips returns a Rips engine with the default simplex budget.
func NewRips() *Rips {
	return &Rips{MaxSimplices: 2_000_000}
}

type simplex struct {
	verts []int // ascending vertex ids
	value float64
}

// Diagrams implements Engine. maxDim must be 0, 1 or 2; prime must be a
// prime >= 2 (2 gives the usual Z/2 persistence).
func (rp *Rips) Diagrams(cloud *mat.Dense, maxDim, prime int) ([]Diagram, error) {
	if maxDim < 0 || maxDim > 2 {
		return nil, fmt.Errorf("persistence: max homology dimension %d out of range [0, 2]", maxDim)
	}
	if !isPrime(prime) {
		return nil, fmt.Errorf("persistence: coefficient field order %d is not prime", prime)
	}
	diagrams := make([]Diagram, maxDim+1)
	if cloud == nil {
		return diagrams, nil
	}
	n, _ := cloud.Dims()
	if n == 0 {
		return diagrams, nil
	}
	if n >= 1<<16 {
		return nil, fmt.Errorf("persistence: %d points exceeds engine limit %d", n, 1<<16)
	}
	total := simplexCount(n, maxDim+2)
	if rp.MaxSimplices > 0 && total > rp.MaxSimplices {
		return nil, fmt.Errorf("persistence: %d points need %d simplices at dimension %d, budget is %d",
			n, total, maxDim, rp.MaxSimplices)
	}

	dist := pairwiseDistances(cloud)

	// Enumerate every simplex up to dimension maxDim+1 with its diameter
	// as filtration value, then sort into filtration order. Ties break by
	// dimension (faces before cofaces) and vertex order (determinism).
	simplices := make([]simplex, 0, total)
	for size := 1; size <= maxDim+2; size++ {
		forEachCombination(n, size, func(verts []int) {
			v := make([]int, size)
			copy(v, verts)
			simplices = append(simplices, simplex{verts: v, value: diameter(v, dist)})
		})
	}
	sort.Slice(simplices, func(a, b int) bool {
		sa, sb := simplices[a], simplices[b]
		if sa.value != sb.value {
			return sa.value < sb.value
		}
		if len(sa.verts) != len(sb.verts) {
			return len(sa.verts) < len(sb.verts)
		}
		for i := range sa.verts {
			if sa.verts[i] != sb.verts[i] {
				return sa.verts[i] < sb.verts[i]
			}
		}
		return false
	})

	index := make(map[uint64]int, len(simplices))
	for i, s := range simplices {
		index[vertexKey(s.verts)] = i
	}

	reduce(simplices, index, prime, maxDim, diagrams)
	return diagrams, nil
}

// reduce runs the persistence pairing. Each column is the mod-p boundary of
// one simplex in filtration order; reducing a column against earlier
// columns with the same lowest row either empties it (the simplex creates a
// class) or settles on a fresh lowest row (the simplex kills the class that
// row created).
func reduce(simplices []simplex, index map[uint64]int, prime, maxDim int, diagrams []Diagram) {
	lowInv := make(map[int]int)
	reduced := make(map[int]sparseColumn)
	positive := make([]bool, len(simplices))
	paired := make([]bool, len(simplices))

	for j, s := range simplices {
		col := boundaryColumn(s, index, prime)
		for len(col) > 0 {
			low := col[len(col)-1]
			k, ok := lowInv[low.row]
			if !ok {
				break
			}
			other := reduced[k]
			factor := mulMod(low.coeff, invMod(other[len(other)-1].coeff, prime), prime)
			col = subtractScaled(col, other, factor, prime)
		}
		if len(col) == 0 {
			positive[j] = true
			continue
		}
		low := col[len(col)-1].row
		lowInv[low] = j
		reduced[j] = col
		paired[low] = true

		if d := len(simplices[low].verts) - 1; d <= maxDim {
			birth, death := simplices[low].value, s.value
			if death > birth {
				diagrams[d] = append(diagrams[d], Pair{Birth: birth, Death: death})
			}
		}
	}

	for j, pos := range positive {
		if !pos || paired[j] {
			continue
		}
		if d := len(simplices[j].verts) - 1; d <= maxDim {
			diagrams[d] = append(diagrams[d], Pair{Birth: simplices[j].value, Death: math.Inf(1)})
		}
	}
}

type colEntry struct {
	row   int
	coeff int // in [1, prime)
}

// sparseColumn is sorted ascending by row; the last entry is the pivot.
type sparseColumn []colEntry

// boundaryColumn builds the mod-p boundary of s as a sparse column. Facet
// k carries coefficient (-1)^k. Vertices return an empty column.
func boundaryColumn(s simplex, index map[uint64]int, prime int) sparseColumn {
	if len(s.verts) < 2 {
		return nil
	}
	col := make(sparseColumn, 0, len(s.verts))
	facet := make([]int, len(s.verts)-1)
	for k := range s.verts {
		copy(facet, s.verts[:k])
		copy(facet[k:], s.verts[k+1:])
		coeff := 1
		if k%2 == 1 {
			coeff = prime - 1 // -1 mod p
		}
		col = append(col, colEntry{row: index[vertexKey(facet)], coeff: coeff})
	}
	sort.Slice(col, func(a, b int) bool { return col[a].row < col[b].row })
	return col
}

// subtractScaled returns a - factor*b mod prime, keeping rows sorted and
// dropping cancelled entries.
func subtractScaled(a, b sparseColumn, factor, prime int) sparseColumn {
	out := make(sparseColumn, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].row < b[j].row:
			out = append(out, a[i])
			i++
		case a[i].row > b[j].row:
			if c := mulMod(prime-factor%prime, b[j].coeff, prime); c != 0 {
				out = append(out, colEntry{row: b[j].row, coeff: c})
			}
			j++
		default:
			c := (a[i].coeff - mulMod(factor, b[j].coeff, prime)) % prime
			if c < 0 {
				c += prime
			}
			if c != 0 {
				out = append(out, colEntry{row: a[i].row, coeff: c})
			}
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	for ; j < len(b); j++ {
		if c := mulMod(prime-factor%prime, b[j].coeff, prime); c != 0 {
			out = append(out, colEntry{row: b[j].row, coeff: c})
		}
	}
	return out
}

func pairwiseDistances(cloud *mat.Dense) [][]float64 {
	n, p := cloud.Dims()
	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		ri := cloud.RawRowView(i)
		for j := i + 1; j < n; j++ {
			rj := cloud.RawRowView(j)
			var acc float64
			for c := 0; c < p; c++ {
				d := ri[c] - rj[c]
				acc += d * d
			}
			d := math.Sqrt(acc)
			dist[i][j] = d
			dist[j][i] = d
		}
	}
	return dist
}

func diameter(verts []int, dist [][]float64) float64 {
	var max float64
	for i := 0; i < len(verts); i++ {
		for j := i + 1; j < len(verts); j++ {
			if d := dist[verts[i]][verts[j]]; d > max {
				max = d
			}
		}
	}
	return max
}

// forEachCombination calls fn with every ascending size-k subset of [0, n).
// The slice passed to fn is reused between calls.
func forEachCombination(n, k int, fn func([]int)) {
	if k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func simplexCount(n, maxSize int) int {
	total := 0
	for size := 1; size <= maxSize && size <= n; size++ {
		c := 1
		for i := 0; i < size; i++ {
			c = c * (n - i) / (i + 1)
		}
		total += c
	}
	return total
}

// vertexKey packs up to four vertex ids (each < 2^16) into one map key.
func vertexKey(verts []int) uint64 {
	var key uint64
	for i, v := range verts {
		key |= uint64(v+1) << (16 * i)
	}
	return key
}

func mulMod(a, b, p int) int {
	return a * b % p
}

// invMod returns the multiplicative inverse of a mod p (p prime) via
// Fermat's little theorem.
func invMod(a, p int) int {
	result, base, exp := 1, a%p, p-2
	for exp > 0 {
		if exp&1 == 1 {
			result = result * base % p
		}
		base = base * base % p
		exp >>= 1
	}
	return result
}

func isPrime(p int) bool {
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
