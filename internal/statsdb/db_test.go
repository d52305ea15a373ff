package statsdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stats.db")
	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.MigrateUp())
	return db
}

func TestMigrateUpIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.MigrateUp())

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestInsertAndQueryRunWithStatRows(t *testing.T) {
	db := openTestDB(t)

	run := RunMeta{
		RunID:         "11111111-1111-1111-1111-111111111111",
		ParamFile:     "run.params",
		Mode:          "propagation",
		Seed:          42,
		NTrajectories: 1000,
		StartedAt:     time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.InsertRun(run))

	rows := []StatRow{
		{Redshift: 0, ReferenceHomogeneous: 0, InhomogeneousMean: 0, InhomogeneousStd: 0},
		{Redshift: 0.5, ReferenceHomogeneous: 1500, InhomogeneousMean: 1490, InhomogeneousStd: 30},
		{Redshift: 1.0, ReferenceHomogeneous: 1800, InhomogeneousMean: 1770, InhomogeneousStd: 55},
	}
	require.NoError(t, db.InsertStatRows(run.RunID, rows))

	got, err := db.Run(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.ParamFile, got.ParamFile)
	assert.Equal(t, run.Seed, got.Seed)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))

	gotRows, err := db.StatRows(run.RunID)
	require.NoError(t, err)
	require.Len(t, gotRows, 3)
	if diff := cmp.Diff(rows, gotRows); diff != "" {
		t.Errorf("stat rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRunMissingReturnsError(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Run("does-not-exist")
	assert.Error(t, err)
}
