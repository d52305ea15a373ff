package driver

import (
	"math"
	"math/rand"

	"github.com/banshee-data/raygeo/internal/payload"
)

// LaunchDirections returns n unit directions distributed uniformly
// over the sphere, seeded deterministically so a run's ray set is
// reproducible from its parameter file's seed key.
func LaunchDirections(n int, seed int64) [][3]float64 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][3]float64, n)
	for i := range out {
		// Archimedes' cylinder projection: uniform z plus uniform
		// azimuth gives a uniform distribution over the sphere, the
		// same construction synthetic.go uses for its point cloud.
		z := 2*rng.Float64() - 1
		phi := 2 * math.Pi * rng.Float64()
		r := math.Sqrt(1 - z*z)
		out[i] = [3]float64{r * math.Cos(phi), r * math.Sin(phi), z}
	}
	return out
}

// InitialPhoton builds the launch state of a central ray: unit speed
// in the given direction, starting at position, at conformal time t0,
// with dt/dl = -1 (ingoing). The stepper's null-constraint rescale
// then adjusts the spatial velocity to match dt/dl; dt/dl itself is
// kept.
func InitialPhoton(position [3]float64, direction [3]float64, t0 float64) payload.Photon {
	var core payload.Core
	core[payload.CoreT] = t0
	core[payload.CoreX] = position[0]
	core[payload.CoreY] = position[1]
	core[payload.CoreZ] = position[2]
	core[payload.CoreDTDl] = -1
	core[payload.CoreDXDl] = direction[0]
	core[payload.CoreDYDl] = direction[1]
	core[payload.CoreDZDl] = direction[2]
	return payload.Photon{Core: core}
}
