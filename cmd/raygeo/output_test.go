package main

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/raygeo/internal/driver"
	"github.com/banshee-data/raygeo/internal/payload"
)

func TestWriteTrajectoryProducesOneSpaceSeparatedRowPerStep(t *testing.T) {
	trajectory := []payload.Photon{
		{Step: 0, Redshift: 0, Distance: 0},
		{Step: 1, Redshift: 0.1, Distance: 42.5},
	}

	var buf bytes.Buffer
	require.NoError(t, writeTrajectory(&buf, trajectory))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		fields := strings.Fields(line)
		assert.Len(t, fields, 26)
	}
	assert.True(t, strings.HasPrefix(lines[0], "0 "))
	assert.True(t, strings.HasPrefix(lines[1], "1 "))
}

func TestWriteStatisticsProducesFourColumns(t *testing.T) {
	rows := []driver.StatRow{
		{Redshift: 0, ReferenceHomogeneous: 0, InhomogeneousMean: 0, InhomogeneousStd: 0},
		{Redshift: 1, ReferenceHomogeneous: 1800, InhomogeneousMean: 1770, InhomogeneousStd: 55},
	}

	var buf bytes.Buffer
	require.NoError(t, writeStatistics(&buf, rows))

	scanner := bufio.NewScanner(&buf)
	count := 0
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		assert.Len(t, fields, 4)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestFormatFloatRoundTrips(t *testing.T) {
	for _, x := range []float64{0, -1.5, 1.0 / 3.0, 1e-300, 1e300} {
		s := formatFloat(x)
		assert.NotEmpty(t, s)
		v, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		assert.Equal(t, x, v)
	}
}
