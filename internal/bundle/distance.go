package bundle

import (
	"math"

	"github.com/banshee-data/raygeo/internal/payload"
)

// Abscissa selects which monotone quantity along a trajectory a ring
// ray is resampled onto before its separation from the central ray is
// measured, mirroring the interpolate-by-redshift/a/t/r choice in
// raytracer/integrator.h's propagate<>().
type Abscissa int

const (
	ByRedshift Abscissa = iota
	ByScaleFactor
	ByTime
	ByRadius
)

func abscissaValues(trajectory []payload.Photon, by Abscissa) []float64 {
	vals := make([]float64, len(trajectory))
	switch by {
	case ByScaleFactor:
		for i, p := range trajectory {
			vals[i] = p.A()
		}
	case ByTime:
		for i, p := range trajectory {
			vals[i] = p.T()
		}
	case ByRadius:
		origin := trajectory[0].Position()
		for i, p := range trajectory {
			vals[i] = euclideanDistance(p.Position(), origin)
		}
	default:
		for i, p := range trajectory {
			vals[i] = p.Redshift
		}
	}
	return vals
}

func positionComponents(trajectory []payload.Photon) (xs, ys, zs []float64) {
	xs = make([]float64, len(trajectory))
	ys = make([]float64, len(trajectory))
	zs = make([]float64, len(trajectory))
	for i, p := range trajectory {
		pos := p.Position()
		xs[i], ys[i], zs[i] = pos[0], pos[1], pos[2]
	}
	return xs, ys, zs
}

func euclideanDistance(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
