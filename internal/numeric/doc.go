// Package numeric implements the general-purpose one-dimensional
// interpolation, differentiation and integration kernels of spec.md
// §4.8 (the bundle resampling and the driver's statistics reduction
// call its Linear interpolation): piecewise-linear and Hermite-cubic
// interpolation, 8-point Fornberg differentiation, Savitzky-Golay
// smoothing and differentiation, and trapezoidal cumulative
// integration/differentiation over a whole series.
package numeric
