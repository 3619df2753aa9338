package frames

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Sine returns an n-frame single-pixel sequence following sin(2*pi*t/period).
func Sine(n int, period float64) *Matrix {
	d := mat.NewDense(n, 1, nil)
	for t := 0; t < n; t++ {
		d.Set(t, 0, math.Sin(2*math.Pi*float64(t)/period))
	}
	return &Matrix{Data: d}
}

// TwoTone returns an n-frame single-pixel sequence mixing two periods. With
// incommensurate periods the delay-embedded trajectory fills a torus, which
// is the quasiperiodicity signature the analyser looks for.
func TwoTone(n int, period1, period2 float64) *Matrix {
	d := mat.NewDense(n, 1, nil)
	for t := 0; t < n; t++ {
		ft := float64(t)
		d.Set(t, 0, math.Sin(2*math.Pi*ft/period1)+math.Sin(2*math.Pi*ft/period2))
	}
	return &Matrix{Data: d}
}

// SineImage returns an n-frame width x height sequence where every pixel
// oscillates with the given period. Pixel amplitude and offset vary across
// the frame so the sequence has non-trivial spatial structure for the PCA
// stage to compress.
func SineImage(n, width, height int, period float64) *Matrix {
	d := mat.NewDense(n, width*height, nil)
	for t := 0; t < n; t++ {
		phase := math.Sin(2 * math.Pi * float64(t) / period)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				amp := 0.5 + 0.5*float64(x)/float64(width)
				offset := float64(y) / float64(height)
				d.Set(t, y*width+x, offset+amp*phase)
			}
		}
	}
	return &Matrix{Data: d, Width: width, Height: height}
}

// Drifting returns a sine sequence with a linear drift added, used to
// exercise the temporal bandpass filter.
func Drifting(n int, period, driftPerFrame float64) *Matrix {
	d := mat.NewDense(n, 1, nil)
	for t := 0; t < n; t++ {
		ft := float64(t)
		d.Set(t, 0, math.Sin(2*math.Pi*ft/period)+driftPerFrame*ft)
	}
	return &Matrix{Data: d}
}
