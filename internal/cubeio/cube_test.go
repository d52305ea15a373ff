package cubeio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/raygeo/internal/octidx"
)

func writeCube(t *testing.T, records []Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cube.bin")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	for _, r := range records {
		var buf [recordSize]byte
		binary.NativeEndian.PutUint64(buf[0:8], uint64(r.Index))
		binary.NativeEndian.PutUint64(buf[8:16], math.Float64bits(r.Potential))
		for i := 0; i < octidx.Dimension; i++ {
			binary.NativeEndian.PutUint64(buf[16+8*i:24+8*i], math.Float64bits(r.Gradient[i]))
		}
		_, err := f.Write(buf[:])
		require.NoError(t, err)
	}
	return path
}

func TestReadCubeRoundTrips(t *testing.T) {
	want := []Record{
		{Index: octidx.Root, Potential: 1.5, Gradient: [3]float64{0.1, -0.2, 0.3}},
		{Index: octidx.Root.Child(3), Potential: -2.25, Gradient: [3]float64{1, 2, 3}},
	}
	path := writeCube(t, want)

	got, err := ReadCube(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadCubeRejectsTruncatedFile(t *testing.T) {
	path := writeCube(t, []Record{{Index: octidx.Root, Potential: 1}})
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Truncate(path, info.Size()-3))

	_, err = ReadCube(path)
	assert.Error(t, err)
}

func TestToGravityElementsAssignsSnapshotScale(t *testing.T) {
	records := []Record{
		{Index: octidx.Root, Potential: 4, Gradient: [3]float64{1, 1, 1}},
	}
	elements := ToGravityElements(records, 0.5)
	require.Len(t, elements, 1)
	assert.Equal(t, octidx.Root, elements[0].Index)
	assert.Equal(t, 4.0, elements[0].Data.Potential)
	assert.Equal(t, [3]float64{1, 1, 1}, elements[0].Data.Gradient)
	assert.Equal(t, 0.5, elements[0].Data.Scale)
	assert.Zero(t, elements[0].Data.Density)
}

func TestConePathExpandsPrintfPattern(t *testing.T) {
	assert.Equal(t, "/data/cones/cone_007.bin", ConePath("/data/cones/cone_%03d.bin", 7))
}
