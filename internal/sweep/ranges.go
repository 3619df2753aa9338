// Package sweep runs grids of analysis configurations over one frame
// sequence, records the per-combination scores, and keeps results in a
// sqlite store so runs can be compared after the fact. Each combination is
// an independent stateless pipeline run; a combination whose geometry
// yields no windows is recorded with zero scores rather than failing the
// sweep.
package sweep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RangeSpec defines a floating-point parameter range in "min:max:step"
// form.
type RangeSpec struct {
	Min  float64
	Max  float64
	Step float64
}

// ParseRangeSpec parses "min:max:step" into a RangeSpec.
func ParseRangeSpec(s string) (RangeSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return RangeSpec{}, fmt.Errorf("sweep: invalid range %q: expected min:max:step", s)
	}
	vals := make([]float64, 3)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return RangeSpec{}, fmt.Errorf("sweep: invalid range %q: %w", s, err)
		}
		vals[i] = v
	}
	if vals[2] <= 0 {
		return RangeSpec{}, fmt.Errorf("sweep: step must be positive, got %v", vals[2])
	}
	return RangeSpec{Min: vals[0], Max: vals[1], Step: vals[2]}, nil
}

// Values expands the range into its grid points, inclusive of both ends.
// Values are rounded to three decimals to stop floating-point accumulation
// from drifting grid points. An inverted range yields nil.
func (r RangeSpec) Values() []float64 {
	if r.Step <= 0 || r.Min > r.Max {
		return nil
	}
	const maxValues = 10000
	var out []float64
	for v := r.Min; v <= r.Max+r.Step/1000; v += r.Step {
		if len(out) >= maxValues {
			break
		}
		rounded := math.Round(v*1000) / 1000
		if rounded <= r.Max {
			out = append(out, rounded)
		}
	}
	return out
}

// ParseIntValues parses either a "min:max:step" range or a comma-separated
// list of ints ("2,5,10") into explicit values.
func ParseIntValues(s string) ([]int, error) {
	if strings.Contains(s, ":") {
		r, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		floats := r.Values()
		out := make([]int, 0, len(floats))
		for _, v := range floats {
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("sweep: non-integer value %v in integer range %q", v, s)
			}
			out = append(out, int(v))
		}
		return out, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("sweep: invalid int %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseFloatValues parses either a "min:max:step" range or a
// comma-separated list of floats into explicit values.
func ParseFloatValues(s string) ([]float64, error) {
	if strings.Contains(s, ":") {
		r, err := ParseRangeSpec(s)
		if err != nil {
			return nil, err
		}
		return r.Values(), nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("sweep: invalid float %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}
