package geodesic

import (
	"math"

	"github.com/banshee-data/raygeo/internal/cosmology"
	"github.com/banshee-data/raygeo/internal/octree"
	"github.com/banshee-data/raygeo/internal/payload"
)

// Mode selects the octree sampling order used to evaluate the local
// gravitational field at a photon's position, mirroring the Order
// template parameter of Integrator::integrate (0 = NGP, 1 = CIC,
// -1 = homogeneous reference).
type Mode int

const (
	NGP Mode = iota
	CIC
	Homogeneous
)

// Stepper advances a single photon's null geodesic through a
// hyperoctree-sampled gravitational field. Step length is local-cell
// adaptive: spec.md §4.5.
type Stepper struct {
	Tree        *octree.Container[payload.Gravity]
	Cosmology   *cosmology.Table
	LengthSI    float64 // physical size of the domain, metres
	NSteps      int     // substeps per unit cell extent
	Mode        Mode
	RK4         bool // false selects forward Euler
	Schwarzschild *SchwarzschildSource
}

func (s *Stepper) center() [3]float64 {
	origin, extent := s.Tree.Origin(), s.Tree.Extent()
	return [3]float64{origin[0] + extent[0]/2, origin[1] + extent[1]/2, origin[2] + extent[2]/2}
}

func (s *Stepper) bounds() (min, max [3]float64) {
	origin, extent := s.Tree.Origin(), s.Tree.Extent()
	for i := 0; i < 3; i++ {
		min[i] = origin[i]
		max[i] = origin[i] + extent[i]
	}
	return min, max
}

func (s *Stepper) scale() float64 { return s.LengthSI / s.Tree.Extent()[0] }

// sample evaluates the local cell at pos using the configured Mode,
// then applies the Schwarzschild exact-solution override if enabled.
// found is true whenever the sample is usable as a derivative input;
// under Schwarzschild it is unconditionally true since the exact
// solution is defined everywhere except the singular centre (handled
// by SchwarzschildSource.apply's math.MaxFloat64 branch).
func (s *Stepper) sample(pos [3]float64) (cell payload.Gravity, found bool) {
	switch s.Mode {
	case Homogeneous:
		cell, found = payload.Gravity{Scale: 1}, true
	case NGP:
		cell, found = s.Tree.NGP(pos)
	default:
		cell, found = s.Tree.CIC(pos, payload.BlendGravity)
	}
	if s.Schwarzschild != nil {
		cell, found = s.Schwarzschild.apply(pos, s.center(), s.scale(), cell), true
	}
	return cell, found
}

func (s *Stepper) cellExtent(pos [3]float64) float64 {
	i := s.Tree.Locate(pos)
	if i == s.Tree.End() {
		return 0
	}
	return s.Tree.At(i).Index.CellExtent(0, s.Tree.Extent()[0])
}

func (s *Stepper) cellLevel(pos [3]float64) int {
	i := s.Tree.Locate(pos)
	if i == s.Tree.End() {
		return 0
	}
	return s.Tree.At(i).Index.Level()
}

func strictlyInside(pos, min, max [3]float64) bool {
	for i := 0; i < 3; i++ {
		if !(pos[i] > min[i] && pos[i] < max[i]) {
			return false
		}
	}
	return true
}

func sumScale(dl float64, k payload.Core) payload.Core {
	var out payload.Core
	for i := range out {
		out[i] = dl * k[i]
	}
	return out
}

func addCore(a, b payload.Core) payload.Core {
	var out payload.Core
	for i := range out {
		out[i] = a[i] + b[i]
	}
	return out
}

// nullConstraintFields fills in the ds^2/dlambda^2 and error
// diagnostics shared by the initial point and every subsequent step,
// taken directly from Integrator::integrate's closing expressions.
func nullConstraintFields(core payload.Core, phi, a float64) (ds2dl2, errVal float64) {
	dtdl, dxdl, dydl, dzdl := core.DTDl(), core.DXDl(), core.DYDl(), core.DZDl()
	spatial := dxdl*dxdl + dydl*dydl + dzdl*dzdl
	timeTerm := SpeedOfLightSquared * (1 + 2/SpeedOfLightSquared*phi) * dtdl * dtdl
	spaceTerm := (1 - 2/SpeedOfLightSquared*phi) * spatial
	ds2dl2 = a * a * (-timeTerm + spaceTerm)
	errVal = 1 - spaceTerm/timeTerm
	return ds2dl2, errVal
}

// Integrate advances initial until the photon leaves the domain, its
// scale factor goes negative, or a numeric degeneracy occurs,
// returning the full recorded trajectory; a final step whose redshift
// or scale factor is negative is dropped (spec.md §4.4-4.5,
// §7's "domain errors absorbed locally, ray terminates cleanly").
func (s *Stepper) Integrate(initial payload.Photon) []payload.Photon {
	if s.NSteps < 1 {
		s.NSteps = 1
	}
	center := s.center()
	min, max := s.bounds()
	scale := s.scale()

	data, _ := s.sample(initial.Position())
	norm := math.Sqrt(
		(SpeedOfLightSquared * (1 + 2/SpeedOfLightSquared*data.Phi()) * initial.Core.DTDl() * initial.Core.DTDl()) /
			((1 - 2/SpeedOfLightSquared*data.Phi()) * (initial.Core.DXDl()*initial.Core.DXDl() + initial.Core.DYDl()*initial.Core.DYDl() + initial.Core.DZDl()*initial.Core.DZDl())))
	initial.Core[payload.CoreDXDl] *= norm
	initial.Core[payload.CoreDYDl] *= norm
	initial.Core[payload.CoreDZDl] *= norm
	initial.Core[payload.CoreA] = s.Cosmology.AOfT(initial.T())

	initial.Level = s.cellLevel(initial.Position())
	initial.LocalA = data.A()
	initial.Rho = data.Rho()
	initial.Phi = data.Phi()
	initial.Grad = data.Gradient
	initial.DPhiDl = 0
	initial.Laplacian = 0
	initial.Redshift = 0
	initial.Ds2Dl2, initial.Error = nullConstraintFields(initial.Core, initial.Phi, initial.A())
	initial.Distance, initial.Major, initial.Minor, initial.Rotation = 0, 0, 0, 0

	trajectory := []payload.Photon{initial}

	aForStep := data.A()
	if s.Mode == Homogeneous {
		aForStep = initial.A()
	}
	ratio := aForStep * aForStep * (scale / SpeedOfLight) / float64(s.NSteps)
	dl := s.cellExtent(initial.Position()) * ratio
	gref := -initial.A() * SpeedOfLight * initial.DTDl() * (1 + initial.Phi/SpeedOfLightSquared)

	for {
		last := trajectory[len(trajectory)-1]
		newCore := s.advance(last, dl)

		pos := newCore.Position()
		cell, found := s.sample(pos)
		valid := found && newCore.A() >= 0 && strictlyInside(pos, min, max)
		if !valid {
			cell = payload.Gravity{}
		}

		next := payload.Photon{Step: last.Step + 1, Core: newCore}
		next.Level = s.cellLevel(pos)
		next.LocalA = cell.A()
		next.Rho = cell.Rho()
		next.Phi = cell.Phi()
		next.Grad = cell.Gradient
		next.DPhiDl = (cell.Phi() - last.Phi) / dl
		next.Laplacian = 0
		next.Redshift = -next.A()*SpeedOfLight*next.DTDl()*(1+next.Phi/SpeedOfLightSquared)/gref - 1
		next.Ds2Dl2, next.Error = nullConstraintFields(next.Core, next.Phi, next.A())
		next.Distance, next.Major, next.Minor, next.Rotation = 0, 0, 0, 0

		if !valid {
			break
		}
		trajectory = append(trajectory, next)

		aForStep = cell.A()
		if s.Mode == Homogeneous {
			aForStep = next.A()
		}
		ratio = aForStep * aForStep * (scale / SpeedOfLight) / float64(s.NSteps)
		dl = s.cellExtent(pos) * ratio
	}

	if n := len(trajectory); n > 0 {
		last := trajectory[n-1]
		if math.Signbit(last.Redshift) || math.Signbit(last.A()) {
			trajectory = trajectory[:n-1]
		}
	}
	return trajectory
}

// advance computes the next core state from last using either forward
// Euler or classical RK4, per spec.md §4.5.
func (s *Stepper) advance(last payload.Photon, dl float64) payload.Core {
	dadtAt := func(t float64) float64 { return s.Cosmology.DaDtOfT(t) }
	gravityAt := func(pos [3]float64) payload.Gravity {
		cell, _ := s.sample(pos)
		return cell
	}
	center := s.center()
	scale := s.scale()

	if !s.RK4 {
		k0 := Derivative(last.Core, gravityAt(last.Position()), dadtAt(last.T()), scale, 0, last.DPhiDl, s.Schwarzschild, center)
		return addCore(last.Core, sumScale(dl, k0))
	}

	k0 := Derivative(last.Core, gravityAt(last.Position()), dadtAt(last.T()), scale, 0, last.DPhiDl, s.Schwarzschild, center)
	mid1 := addCore(last.Core, sumScale(dl/2, k0))
	k1 := Derivative(mid1, gravityAt(mid1.Position()), dadtAt(mid1.T()), scale, dl/2, last.Phi, s.Schwarzschild, center)
	mid2 := addCore(last.Core, sumScale(dl/2, k1))
	k2 := Derivative(mid2, gravityAt(mid2.Position()), dadtAt(mid2.T()), scale, dl/2, last.Phi, s.Schwarzschild, center)
	mid3 := addCore(last.Core, sumScale(dl, k2))
	k3 := Derivative(mid3, gravityAt(mid3.Position()), dadtAt(mid3.T()), scale, dl, last.Phi, s.Schwarzschild, center)

	var combined payload.Core
	for i := range combined {
		combined[i] = k0[i] + 2*k1[i] + 2*k2[i] + k3[i]
	}
	return addCore(last.Core, sumScale(dl/6, combined))
}
