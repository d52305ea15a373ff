package statsdb

import (
	"fmt"
	"time"
)

// RunMeta is one row of the runs table: the identifying and
// configuration metadata of a single driver invocation.
type RunMeta struct {
	RunID         string
	ParamFile     string
	Mode          string
	Seed          int64
	NTrajectories int
	StartedAt     time.Time
}

// StatRow mirrors driver.StatRow without importing internal/driver,
// keeping statsdb usable independently of the driver package.
type StatRow struct {
	Redshift             float64
	ReferenceHomogeneous float64
	InhomogeneousMean    float64
	InhomogeneousStd     float64
}

// InsertRun records a run's metadata.
func (db *DB) InsertRun(run RunMeta) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_id, param_file, mode, seed, ntrajectories, started_unix_nanos)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.ParamFile, run.Mode, run.Seed, run.NTrajectories, run.StartedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("statsdb: inserting run %s: %w", run.RunID, err)
	}
	return nil
}

// InsertStatRows records a run's statistics output rows in a single
// transaction.
func (db *DB) InsertStatRows(runID string, rows []StatRow) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("statsdb: beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO stat_rows (run_id, redshift, reference_homogeneous, inhomogeneous_mean, inhomogeneous_std)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("statsdb: preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(runID, row.Redshift, row.ReferenceHomogeneous, row.InhomogeneousMean, row.InhomogeneousStd); err != nil {
			return fmt.Errorf("statsdb: inserting stat row: %w", err)
		}
	}
	return tx.Commit()
}

// StatRows returns a run's statistics rows in ascending redshift
// order.
func (db *DB) StatRows(runID string) ([]StatRow, error) {
	rows, err := db.Query(`
		SELECT redshift, reference_homogeneous, inhomogeneous_mean, inhomogeneous_std
		FROM stat_rows WHERE run_id = ? ORDER BY redshift ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("statsdb: querying stat rows for %s: %w", runID, err)
	}
	defer rows.Close()

	var out []StatRow
	for rows.Next() {
		var r StatRow
		if err := rows.Scan(&r.Redshift, &r.ReferenceHomogeneous, &r.InhomogeneousMean, &r.InhomogeneousStd); err != nil {
			return nil, fmt.Errorf("statsdb: scanning stat row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Run returns a run's metadata.
func (db *DB) Run(runID string) (RunMeta, error) {
	var run RunMeta
	var startedNanos int64
	err := db.QueryRow(`
		SELECT run_id, param_file, mode, seed, ntrajectories, started_unix_nanos
		FROM runs WHERE run_id = ?`, runID).
		Scan(&run.RunID, &run.ParamFile, &run.Mode, &run.Seed, &run.NTrajectories, &startedNanos)
	if err != nil {
		return RunMeta{}, fmt.Errorf("statsdb: querying run %s: %w", runID, err)
	}
	run.StartedAt = time.Unix(0, startedNanos).UTC()
	return run, nil
}
