package numeric

import (
	"math"

	"gonum.org/v1/gonum/diff/fd"
)

// centeredStencil is the 8th-order centered Fornberg first-derivative
// stencil, transcribed from the `centered` coefficient table in
// raytracer/utility.h: offset (i-4)*h carries coefficient centered[i].
var centeredStencil = []fd.Point{
	{Loc: -4, Coeff: 1.0 / 280},
	{Loc: -3, Coeff: -4.0 / 105},
	{Loc: -2, Coeff: 1.0 / 5},
	{Loc: -1, Coeff: -4.0 / 5},
	{Loc: 0, Coeff: 0},
	{Loc: 1, Coeff: 4.0 / 5},
	{Loc: 2, Coeff: -1.0 / 5},
	{Loc: 3, Coeff: 4.0 / 105},
	{Loc: 4, Coeff: -1.0 / 280},
}

var forwardStencil = []fd.Point{
	{Loc: 0, Coeff: -761.0 / 280},
	{Loc: 1, Coeff: 8},
	{Loc: 2, Coeff: -14},
	{Loc: 3, Coeff: 56.0 / 3},
	{Loc: 4, Coeff: -35.0 / 2},
	{Loc: 5, Coeff: 56.0 / 5},
	{Loc: 6, Coeff: -14.0 / 3},
	{Loc: 7, Coeff: 8.0 / 7},
	{Loc: 8, Coeff: -1.0 / 8},
}

var backwardStencil = []fd.Point{
	{Loc: 0, Coeff: 761.0 / 280},
	{Loc: -1, Coeff: -8},
	{Loc: -2, Coeff: 14},
	{Loc: -3, Coeff: -56.0 / 3},
	{Loc: -4, Coeff: 35.0 / 2},
	{Loc: -5, Coeff: -56.0 / 5},
	{Loc: -6, Coeff: 14.0 / 3},
	{Loc: -7, Coeff: -8.0 / 7},
	{Loc: -8, Coeff: 1.0 / 8},
}

// Direction selects the Fornberg differencing scheme used by
// Differentiate.
type Direction int

const (
	Centered Direction = 0
	Forward  Direction = 1
	Backward Direction = -1
)

// Differentiate estimates dy/dx at x0 using the 8th-order Fornberg
// formula named by dir, sampling the table (xs, ys) by linear
// interpolation the way Utility::differentiate does. neighbourhood
// scales the stencil spacing away from the nearest table step; it is
// clamped to at least 1.
func Differentiate(dir Direction, x0 float64, xs, ys []float64, neighbourhood int) float64 {
	if len(xs) < 2 {
		return 0
	}
	if neighbourhood < 1 {
		neighbourhood = 1
	}
	h := tableStep(x0, xs) * float64(neighbourhood)
	if h == 0 {
		return 0
	}
	f := func(x float64) float64 { return Linear(x, xs, ys) }
	formula := fd.Formula{Derivative: 1, Step: h}
	switch dir {
	case Forward:
		formula.Stencil = forwardStencil
	case Backward:
		formula.Stencil = backwardStencil
	default:
		formula.Stencil = centeredStencil
	}
	return fd.Derivative(f, x0, &fd.Settings{Formula: formula})
}

// tableStep returns the local spacing of xs around x0, matching the
// x[j]-x[j-1] term Utility::differentiate derives from the same
// upper_bound search Linear performs.
func tableStep(x0 float64, xs []float64) float64 {
	n := len(xs)
	i := upperBound(xs, x0)
	j := i
	if n > 1 {
		if i <= 0 {
			j = 1
		} else if i >= n {
			j = n - 1
		}
	}
	if j <= 0 || j >= n {
		return 0
	}
	return math.Abs(xs[j] - xs[j-1])
}

func upperBound(xs []float64, x0 float64) int {
	lo, hi := 0, len(xs)
	for lo < hi {
		mid := (lo + hi) / 2
		if xs[mid] <= x0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
