package numeric

import "gonum.org/v1/gonum/floats"

// Integrate returns the cumulative trapezoidal integral of y over x,
// starting from the given initial value, matching Utility::integrate
// in raytracer/utility.h.
func Integrate(xs, ys []float64, initial float64) []float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	out[0] = initial
	for i := 1; i < n; i++ {
		out[i] = out[i-1] + 0.5*(ys[i]+ys[i-1])*(xs[i]-xs[i-1])
	}
	return out
}

// Derive returns dy/dx at every point of the series, evaluated with
// the centered Fornberg formula (or Forward/Backward within the
// stencil's reach, 4*neighbourhood points, of the first and last
// point), matching Utility::derive.
func Derive(xs, ys []float64, neighbourhood int) []float64 {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	if neighbourhood < 1 {
		neighbourhood = 1
	}
	reach := 4 * neighbourhood
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		dir := Centered
		if i < reach {
			dir = Forward
		} else if i >= n-reach {
			dir = Backward
		}
		out[i] = Differentiate(dir, xs[i], xs, ys, neighbourhood)
	}
	return out
}

// Sum returns the plain sum of a series, a thin wrapper around
// gonum/floats.Sum.
func Sum(xs []float64) float64 { return floats.Sum(xs) }
