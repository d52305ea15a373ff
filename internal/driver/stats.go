package driver

import (
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/raygeo/internal/numeric"
	"github.com/banshee-data/raygeo/internal/payload"
)

// StatRow is one line of a run's statistics output: spec.md §6's four
// columns, abscissa (redshift), reference homogeneous y, inhomogeneous
// mean y, and inhomogeneous std y.
type StatRow struct {
	Redshift             float64
	ReferenceHomogeneous float64
	InhomogeneousMean    float64
	InhomogeneousStd     float64
}

// ReduceStatistics resamples every surviving bundle's angular-diameter
// distance onto the given redshift grid and reduces the ensemble at
// each redshift to a mean and standard deviation, alongside a
// reference value drawn from a separately propagated homogeneous
// trajectory (spec.md §4.6, §6).
func ReduceStatistics(outcomes []BundleOutcome, homogeneous []payload.Photon, redshifts []float64) ([]StatRow, []int) {
	homogeneousZ, homogeneousD := trajectoryRedshiftDistance(homogeneous)
	samples := sampleDistances(outcomes, redshifts)

	rows := make([]StatRow, len(redshifts))
	counts := make([]int, len(redshifts))
	for i, z := range redshifts {
		row := StatRow{Redshift: z}
		if len(homogeneousZ) >= 2 {
			row.ReferenceHomogeneous = numeric.Linear(z, homogeneousZ, homogeneousD)
		}
		counts[i] = len(samples[i])
		if len(samples[i]) > 0 {
			row.InhomogeneousMean, row.InhomogeneousStd = stat.MeanStdDev(samples[i], nil)
		}
		rows[i] = row
	}
	return rows, counts
}

// sampleDistances resamples every surviving bundle's angular-diameter
// distance onto redshifts, returning one slice of samples per
// redshift bin. Shared by ReduceStatistics (single-rank reporting)
// and LocalPartial (cross-rank reduction), so both use the same
// resampled values.
func sampleDistances(outcomes []BundleOutcome, redshifts []float64) [][]float64 {
	samples := make([][]float64, len(redshifts))
	for _, o := range outcomes {
		if o.Result.Rejected {
			continue
		}
		z, d := trajectoryRedshiftDistance(o.Result.Central)
		if len(z) < 2 {
			continue
		}
		for i, target := range redshifts {
			samples[i] = append(samples[i], numeric.Linear(target, z, d))
		}
	}
	return samples
}

// trajectoryRedshiftDistance extracts parallel redshift/distance
// slices from a trajectory, in monotone order as numeric.Linear
// (gonum's interp.PiecewiseLinear) requires.
func trajectoryRedshiftDistance(trajectory []payload.Photon) (z, d []float64) {
	z = make([]float64, len(trajectory))
	d = make([]float64, len(trajectory))
	for i, p := range trajectory {
		z[i] = p.Redshift
		d[i] = p.Distance
	}
	return z, d
}
