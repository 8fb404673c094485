package diskmodel

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// GridAxis returns n evenly spaced values from lo to hi inclusive.
func GridAxis(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Meshgrid lays out xs down the rows and ys across the columns, so that
// x.At(i, j) = xs[i] and y.At(i, j) = ys[j]. Both axes must be non-empty.
func Meshgrid(xs, ys []float64) (x, y *mat.Dense) {
	x = mat.NewDense(len(xs), len(ys), nil)
	y = mat.NewDense(len(xs), len(ys), nil)
	for i := range xs {
		for j := range ys {
			x.Set(i, j, xs[i])
			y.Set(i, j, ys[j])
		}
	}
	return x, y
}
