package numeric

import "gonum.org/v1/gonum/interp"

// Linear returns the piecewise-linear interpolated value of y at x0,
// given strictly-increasing abscissae xs and matching ordinates ys.
// Outside the covered range it clamps to the nearest endpoint value,
// matching Utility::interpolate's upper_bound-then-clamp behaviour in
// raytracer/utility.h.
func Linear(x0 float64, xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if len(xs) == 1 {
		return ys[0]
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		panic(err)
	}
	return pl.Predict(clamp(x0, xs))
}

// Hermite returns the Hermite-cubic interpolated value of y (and, via
// HermiteDerivative, dy/dx) at x0, given abscissae, ordinates, and
// their known derivatives — the three-array form of
// Utility::interpolate in raytracer/utility.h.
func Hermite(x0 float64, xs, ys, dydxs []float64) float64 {
	if len(xs) < 2 {
		if len(xs) == 1 {
			return ys[0]
		}
		return 0
	}
	var pc interp.PiecewiseCubic
	pc.FitWithDerivatives(xs, ys, dydxs)
	return pc.Predict(clamp(x0, xs))
}

// HermiteDerivative returns dy/dx at x0 from the same Hermite-cubic fit
// as Hermite.
func HermiteDerivative(x0 float64, xs, ys, dydxs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	var pc interp.PiecewiseCubic
	pc.FitWithDerivatives(xs, ys, dydxs)
	return pc.PredictDerivative(clamp(x0, xs))
}

// Reinterpolate linearly resamples (xs, ys) onto the abscissae in x0,
// mirroring Utility::reinterpolate.
func Reinterpolate(x0, xs, ys []float64) []float64 {
	out := make([]float64, len(x0))
	for i, x := range x0 {
		out[i] = Linear(x, xs, ys)
	}
	return out
}

func clamp(x0 float64, xs []float64) float64 {
	if x0 < xs[0] {
		return xs[0]
	}
	if last := xs[len(xs)-1]; x0 > last {
		return last
	}
	return x0
}
