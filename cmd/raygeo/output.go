package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/raygeo/internal/driver"
	"github.com/banshee-data/raygeo/internal/payload"
)

// writeTrajectory writes one line per photon step, in spec.md §6's
// fixed column order, whitespace-separated (csv.Writer with its comma
// rune set to a space, the same encoding/csv idiom the teacher's
// sweep/output.go uses for its summary/raw files, just with a
// different delimiter).
func writeTrajectory(w io.Writer, trajectory []payload.Photon) error {
	cw := csv.NewWriter(w)
	cw.Comma = ' '
	for _, p := range trajectory {
		record := []string{
			strconv.Itoa(p.Step),
			formatFloat(p.A()),
			formatFloat(p.T()),
			formatFloat(p.X()),
			formatFloat(p.Y()),
			formatFloat(p.Z()),
			formatFloat(p.DTDl()),
			formatFloat(p.DXDl()),
			formatFloat(p.DYDl()),
			formatFloat(p.DZDl()),
			strconv.Itoa(p.Level),
			formatFloat(p.LocalA),
			formatFloat(p.Rho),
			formatFloat(p.Phi),
			formatFloat(p.DPhiDx()),
			formatFloat(p.DPhiDy()),
			formatFloat(p.DPhiDz()),
			formatFloat(p.DPhiDl),
			formatFloat(p.Laplacian),
			formatFloat(p.Redshift),
			formatFloat(p.Ds2Dl2),
			formatFloat(p.Error),
			formatFloat(p.Distance),
			formatFloat(p.Major),
			formatFloat(p.Minor),
			formatFloat(p.Rotation),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing trajectory row %d: %w", p.Step, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeStatistics writes a run's statistics output: spec.md §6's four
// columns, abscissa (redshift), reference homogeneous y, inhomogeneous
// mean y, inhomogeneous std y.
func writeStatistics(w io.Writer, rows []driver.StatRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ' '
	for _, row := range rows {
		record := []string{
			formatFloat(row.Redshift),
			formatFloat(row.ReferenceHomogeneous),
			formatFloat(row.InhomogeneousMean),
			formatFloat(row.InhomogeneousStd),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing statistics row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatFloat renders x with the same round-trip guarantee as the
// host floating type's max_digits10 (spec.md §6): the shortest decimal
// that reads back to the exact same float64.
func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
