package cosmology

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsMismatchedLengths(t *testing.T) {
	_, err := New([]float64{0, 1}, []float64{1}, []float64{1, 1})
	assert.Error(t, err)
}

func TestAOfTAndDaDtOfTInterpolateLinearly(t *testing.T) {
	// a(t) = 1 + t, so da/dt = 1 everywhere on this table.
	tbl, err := New(
		[]float64{0, 1, 2, 3},
		[]float64{1, 2, 3, 4},
		[]float64{1, 1, 1, 1},
	)
	require.NoError(t, err)

	assert.InDelta(t, 2.5, tbl.AOfT(1.5), 1e-9)
	assert.InDelta(t, 1.0, tbl.DaDtOfT(1.5), 1e-9)
}

func TestTOfAInvertsAOfT(t *testing.T) {
	tbl, err := New(
		[]float64{0, 1, 2, 3},
		[]float64{1, 2, 3, 4},
		[]float64{1, 1, 1, 1},
	)
	require.NoError(t, err)

	for _, a := range []float64{1.2, 2.7, 3.9} {
		t2 := tbl.TOfA(a)
		assert.InDelta(t, a, tbl.AOfT(t2), 1e-9)
	}
}

func TestLookupsClampOutsideTableRange(t *testing.T) {
	tbl, err := New([]float64{0, 1}, []float64{1, 2}, []float64{1, 1})
	require.NoError(t, err)

	assert.Equal(t, tbl.AOfT(-5), tbl.AOfT(0))
	assert.Equal(t, tbl.AOfT(50), tbl.AOfT(1))
}

func TestLoadRoundTripsFromJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmology.json")
	body := `{"t": [0, 1, 2], "a": [1, 1.5, 2], "dadt": [0.5, 0.5, 0.5]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tbl, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 1.25, tbl.AOfT(0.5), 1e-9)
}
