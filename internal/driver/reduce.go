package driver

import (
	"math"

	"github.com/banshee-data/raygeo/internal/driver/rankrpc"
)

// LocalPartial summarizes this rank's surviving bundle samples at
// each redshift into the sum/sum-of-squares/count triple rankrpc
// carries between ranks, computed directly from the resampled
// distances (not from a rounded mean/std) so Combine's fold-together
// is exact rather than an approximation of an approximation.
func LocalPartial(outcomes []BundleOutcome, redshifts []float64) rankrpc.Partial {
	samples := sampleDistances(outcomes, redshifts)

	p := rankrpc.Partial{
		Redshifts: append([]float64(nil), redshifts...),
		Sum:       make([]float64, len(redshifts)),
		SumSq:     make([]float64, len(redshifts)),
		Count:     make([]int64, len(redshifts)),
	}
	for i, xs := range samples {
		p.Count[i] = int64(len(xs))
		for _, x := range xs {
			p.Sum[i] += x
			p.SumSq[i] += x * x
		}
	}
	return p
}

// Combine folds a coordinating rank's own partial together with every
// peer's rankrpc.Partial into final per-redshift mean/std values
// using population variance (n, not n-1) so the fold is associative
// across however many partials are combined; ReduceStatistics's
// single-rank report uses gonum's sample variance instead, since
// there a Bessel correction is the conventional choice.
// spec.md §4.7's "cross-rank communication is limited to final
// statistics reductions (sum/mean/std)".
func Combine(parts ...rankrpc.Partial) []StatRow {
	if len(parts) == 0 {
		return nil
	}
	n := len(parts[0].Redshifts)
	rows := make([]StatRow, n)
	for i := 0; i < n; i++ {
		var sum, sumSq float64
		var count int64
		for _, p := range parts {
			if i >= len(p.Redshifts) {
				continue
			}
			sum += p.Sum[i]
			sumSq += p.SumSq[i]
			count += p.Count[i]
		}
		row := StatRow{Redshift: parts[0].Redshifts[i]}
		if count > 0 {
			mean := sum / float64(count)
			variance := sumSq/float64(count) - mean*mean
			if variance < 0 {
				variance = 0
			}
			row.InhomogeneousMean = mean
			row.InhomogeneousStd = math.Sqrt(variance)
		}
		rows[i] = row
	}
	return rows
}
