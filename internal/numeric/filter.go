package numeric

import "math"

// Savitzky-Golay coefficient tables, transcribed from the `zeroth`,
// `first`, `second` and `third` arrays in raytracer/utility.h. Index i
// (0..8) carries the weight for offset (i-4)*h, the same layout as the
// Fornberg stencils in differentiate.go.
var savGolCoeff = [4][9]float64{
	{-21, 14, 39, 54, 59, 54, 39, 14, -21},
	{86, -142, -193, -126, 0, 126, 193, 142, -86},
	{28, 7, -8, -17, -20, -17, -8, 7, 28},
	{-14, 7, 13, 9, 0, -9, -13, -7, 14},
}

var savGolNormalization = [4]float64{231, 1188, 462, 198}

// Smooth returns the Savitzky-Golay smoothed value of y at x0 (the
// zeroth-order filter): a 9-point weighted average that cancels
// quartic bias, sampling the table by linear interpolation.
func Smooth(x0 float64, xs, ys []float64, neighbourhood int) float64 {
	return savGol(0, x0, xs, ys, neighbourhood)
}

// SavitzkyGolayDerivative returns the Savitzky-Golay smoothed
// derivative of the given order (1, 2 or 3) of y at x0.
func SavitzkyGolayDerivative(order int, x0 float64, xs, ys []float64, neighbourhood int) float64 {
	if order < 1 || order > 3 {
		panic("numeric: SavitzkyGolayDerivative order must be 1, 2 or 3")
	}
	return savGol(order, x0, xs, ys, neighbourhood)
}

func savGol(order int, x0 float64, xs, ys []float64, neighbourhood int) float64 {
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
	coeff := savGolCoeff[order]
	var result float64
	for i, c := range coeff {
		result += c * Linear(x0+float64(i-4)*h, xs, ys)
	}
	return result / (savGolNormalization[order] * math.Pow(h, float64(order)))
}
