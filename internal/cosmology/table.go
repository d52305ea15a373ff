package cosmology

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Table holds the three equal-length arrays of the tabulated background
// expansion history: conformal time t, scale factor a(t), its
// derivative da/dt, each ordered by increasing t. TOfA inverts a(t) by
// resorting the same samples by a.
type Table struct {
	T    []float64
	A    []float64
	DaDt []float64

	aOfT    interp.PiecewiseLinear
	daDtOfT interp.PiecewiseLinear
	tOfA    interp.PiecewiseLinear
}

// New builds a Table from the three parallel arrays, which must be
// equal length and strictly increasing in t. It fits the three
// piecewise-linear predictors eagerly so later lookups never error.
func New(t, a, dadt []float64) (*Table, error) {
	if len(t) != len(a) || len(t) != len(dadt) {
		return nil, fmt.Errorf("cosmology: table arrays have mismatched lengths (t=%d a=%d dadt=%d)", len(t), len(a), len(dadt))
	}
	if len(t) < 2 {
		return nil, fmt.Errorf("cosmology: table needs at least 2 rows, got %d", len(t))
	}
	tbl := &Table{T: t, A: a, DaDt: dadt}
	if err := tbl.aOfT.Fit(t, a); err != nil {
		return nil, fmt.Errorf("cosmology: fitting a(t): %w", err)
	}
	if err := tbl.daDtOfT.Fit(t, dadt); err != nil {
		return nil, fmt.Errorf("cosmology: fitting da/dt(t): %w", err)
	}

	aSorted := append([]float64(nil), a...)
	tByA := append([]float64(nil), t...)
	sortParallel(aSorted, tByA)
	if err := tbl.tOfA.Fit(aSorted, tByA); err != nil {
		return nil, fmt.Errorf("cosmology: fitting t(a): %w", err)
	}
	return tbl, nil
}

// AOfT returns the interpolated scale factor at conformal time t,
// clamped to the table's covered range.
func (tbl *Table) AOfT(t float64) float64 { return tbl.aOfT.Predict(clamp(t, tbl.T)) }

// DaDtOfT returns the interpolated da/dt at conformal time t, clamped
// to the table's covered range. This is the value Integrator::dphotondl
// looks up as `dadt` at every step.
func (tbl *Table) DaDtOfT(t float64) float64 { return tbl.daDtOfT.Predict(clamp(t, tbl.T)) }

// TOfA returns the interpolated conformal time at scale factor a,
// clamped to the table's covered range.
func (tbl *Table) TOfA(a float64) float64 {
	aSorted := append([]float64(nil), tbl.A...)
	lo, hi := aSorted[0], aSorted[0]
	for _, v := range aSorted {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if a < lo {
		a = lo
	}
	if a > hi {
		a = hi
	}
	return tbl.tOfA.Predict(a)
}

func clamp(x float64, xs []float64) float64 {
	if x < xs[0] {
		return xs[0]
	}
	if last := xs[len(xs)-1]; x > last {
		return last
	}
	return x
}

// sortParallel sorts keys ascending, permuting values the same way.
func sortParallel(keys, values []float64) {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })
	sortedKeys := make([]float64, len(keys))
	sortedValues := make([]float64, len(values))
	for i, k := range idx {
		sortedKeys[i] = keys[k]
		sortedValues[i] = values[k]
	}
	copy(keys, sortedKeys)
	copy(values, sortedValues)
}
