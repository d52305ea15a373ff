package bundle

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/raygeo/internal/config"
	"github.com/banshee-data/raygeo/internal/geodesic"
	"github.com/banshee-data/raygeo/internal/numeric"
	"github.com/banshee-data/raygeo/internal/payload"
)

// Bundler propagates a central ray together with a ring of neighbours
// and reduces their mutual separation to an angular-diameter distance
// at every step of the central ray, per spec.md §4.6.
type Bundler struct {
	Stepper *geodesic.Stepper
	By      Abscissa

	// Config supplies the caustic-ratio rejection threshold; nil
	// selects config.EmptyTuningConfig's default (1/8).
	Config *config.TuningConfig

	// AMin is the parameter file's `amin` floor (spec.md §6): a ray
	// must have reached this scale factor by the end of its
	// trajectory, or it is rejected as incomplete. Zero disables the
	// check.
	AMin float64

	// Homogeneous, if set, is a separately integrated reference
	// trajectory (Mode: geodesic.Homogeneous, same launch point and
	// direction as the bundle's centre) whose own radius-to-a(t) curve
	// replaces the bundle's local, inhomogeneous a(t) when scaling the
	// angular-diameter distance. Leave nil to use the central ray's own
	// (possibly perturbed) scale factor.
	Homogeneous []payload.Photon
}

// Result is a propagated bundle: the central trajectory with its
// Distance field filled in, or a rejection reason if the bundle did
// not survive the caustic/degeneracy checks.
type Result struct {
	Central  []payload.Photon
	Rejected bool
	Reason   string
}

func (b *Bundler) causticRatioThreshold() float64 {
	cfg := b.Config
	if cfg == nil {
		cfg = config.EmptyTuningConfig()
	}
	return cfg.GetCausticRatioThreshold()
}

// amissedFloor reports whether trajectory stopped before its local
// scale factor (the "ah" the octree lookup annotates each step with,
// payload.Photon.LocalA) reached b.AMin, per integrator.h's
// propagate<>() ntrajectories test. A trajectory whose final ah is not
// a normal, sub-unity value is left alone: the floor only applies to a
// ray still expanding normally when it ran out of steps.
func (b *Bundler) amissedFloor(trajectory []payload.Photon) bool {
	if b.AMin <= 0 {
		return false
	}
	ah := trajectory[len(trajectory)-1].LocalA
	if ah <= 0 || math.IsNaN(ah) || math.IsInf(ah, 0) || !(ah < 1) {
		return false
	}
	return ah > b.AMin
}

// Propagate launches ring around center, integrates every ray
// independently, and reduces the bundle to a central trajectory
// annotated with angular-diameter distances.
func (b *Bundler) Propagate(center payload.Photon, ring Ring) Result {
	photons := Launch(center, ring)
	trajectories := make([][]payload.Photon, len(photons))
	for i, p := range photons {
		trajectories[i] = b.Stepper.Integrate(p)
	}

	displacement := make([]float64, len(trajectories))
	for i, tr := range trajectories {
		if len(tr) < 2 {
			return Result{Rejected: true, Reason: "ray terminated immediately"}
		}
		displacement[i] = euclideanDistance(tr[0].Position(), tr[len(tr)-1].Position())
	}

	// A ray that never traveled a meaningful fraction of the domain
	// never sampled the field it was meant to probe, and one that
	// stopped before reaching amin never reached the source plane the
	// parameter file asked for.
	quarterExtent := b.Stepper.Tree.Extent()[0] / 4
	for i, d := range displacement {
		if !(d > quarterExtent) {
			return Result{Rejected: true, Reason: "ray displacement below domain quarter-extent"}
		}
		if b.amissedFloor(trajectories[i]) {
			return Result{Rejected: true, Reason: "ray ended before its scale factor reached amin"}
		}
	}

	if len(displacement) > 1 {
		maxD, minD := floats.Max(displacement), floats.Min(displacement)
		if !((maxD - minD) / maxD < b.causticRatioThreshold()) {
			return Result{Rejected: true, Reason: "caustic crossing: ring displacement spread exceeds threshold"}
		}
	}

	central := trajectories[0]
	centralAbscissa := abscissaValues(central, b.By)
	centralX, centralY, centralZ := positionComponents(central)
	centralOrigin := central[0].Position()

	var homogeneousRadius, homogeneousA []float64
	if b.Homogeneous != nil {
		homogeneousRadius = abscissaValues(b.Homogeneous, ByRadius)
		homogeneousA = make([]float64, len(b.Homogeneous))
		for i, p := range b.Homogeneous {
			homogeneousA[i] = p.A()
		}
	}

	scale := b.Stepper.LengthSI / b.Stepper.Tree.Extent()[0]

	ringAbscissas := make([][]float64, len(trajectories))
	ringX := make([][]float64, len(trajectories))
	ringY := make([][]float64, len(trajectories))
	ringZ := make([][]float64, len(trajectories))
	for i := 1; i < len(trajectories); i++ {
		ringAbscissas[i] = abscissaValues(trajectories[i], b.By)
		ringX[i], ringY[i], ringZ[i] = positionComponents(trajectories[i])
	}

	separations := make([]float64, len(trajectories)-1)
	out := make([]payload.Photon, len(central))
	for step := range central {
		for i := 1; i < len(trajectories); i++ {
			ringPos := [3]float64{
				numeric.Linear(centralAbscissa[step], ringAbscissas[i], ringX[i]),
				numeric.Linear(centralAbscissa[step], ringAbscissas[i], ringY[i]),
				numeric.Linear(centralAbscissa[step], ringAbscissas[i], ringZ[i]),
			}
			centralPos := [3]float64{centralX[step], centralY[step], centralZ[step]}
			separations[i-1] = euclideanDistance(ringPos, centralPos)
		}
		meanDisplacement := stat.Mean(separations, nil)

		aFactor := central[step].A()
		if homogeneousA != nil {
			radiusHere := euclideanDistance(central[step].Position(), centralOrigin)
			aFactor = numeric.Linear(radiusHere, homogeneousRadius, homogeneousA)
		}

		p := central[step]
		p.Distance = meanDisplacement * scale * aFactor / ring.Angle
		out[step] = p
	}

	return Result{Central: out}
}
