package geodesic

import (
	"math"

	"github.com/banshee-data/raygeo/internal/payload"
)

// SpeedOfLight and GravitationalConstant are the two physical
// constants the perturbed-FLRW derivative and the Schwarzschild
// diagnostic substitution need, in SI units.
const (
	SpeedOfLight          = 299792458.0
	SpeedOfLightSquared   = SpeedOfLight * SpeedOfLight
	GravitationalConstant = 6.67430e-11
)

// SchwarzschildSource switches the derivative to the exact vacuum
// solution of a point mass at the domain centre, overriding whatever
// the octree cell carries. Used for the Schwarzschild diagnostic mode
// of spec.md §1.
type SchwarzschildSource struct {
	Mass float64
}

// apply returns cell unchanged, or the Schwarzschild substitution
// centred on center (normalized coordinates) evaluated at pos and
// scaled to SI distance by scale, mirroring the `if
// (std::is_arithmetic<Schwarzschild>::value)` branch duplicated at
// every call site in integrator.h.
func (s *SchwarzschildSource) apply(pos, center [3]float64, scale float64, cell payload.Gravity) payload.Gravity {
	if s == nil {
		return cell
	}
	var delta [3]float64
	var r2 float64
	for i := range delta {
		delta[i] = pos[i] - center[i]
		r2 += delta[i] * delta[i]
	}
	distance := math.Sqrt(r2) * scale

	out := payload.Gravity{Scale: 1}
	if distance > 0 {
		out.Potential = -(GravitationalConstant * s.Mass) / distance
		coeff := (GravitationalConstant * s.Mass) / (distance * distance) * (scale / distance)
		for i := range out.Gradient {
			out.Gradient[i] = coeff * delta[i]
		}
	} else {
		out.Potential = math.MaxFloat64
	}
	return out
}

// Derivative computes the nine-component right-hand side of the null
// geodesic ODE (raytracer/integrator.h's dphotondl) at the given core
// state, using the local cell data, the background expansion rate
// da/dt at the photon's conformal time, and scale = lengthSI/extent
// converting between the normalized domain and SI distance.
//
// reference carries one of two meanings depending on dl, exactly as
// the original overloads its `phi` parameter: when dl is zero (the
// first RK substage, where there is no new step to difference against)
// reference is the previous step's dPhi/dλ and is returned unchanged
// as dphidl; otherwise reference is the previous step's Φ and dphidl
// is the one-step finite difference (cell.Phi()-reference)/dl.
func Derivative(input payload.Core, cell payload.Gravity, dadt, scale, dl, reference float64, sw *SchwarzschildSource, center [3]float64) payload.Core {
	cell = sw.apply(input.Position(), center, scale, cell)

	var dphidl float64
	if dl != 0 {
		dphidl = (cell.Phi() - reference) / dl
	} else {
		dphidl = reference
	}

	var out payload.Core
	out[payload.CoreA] = input.DTDl() * dadt
	out[payload.CoreT] = input.DTDl()
	out[payload.CoreX] = input.DXDl() / scale
	out[payload.CoreY] = input.DYDl() / scale
	out[payload.CoreZ] = input.DZDl() / scale

	dotGrad := cell.DPhiDx()*input.DXDl() + cell.DPhiDy()*input.DYDl() + cell.DPhiDz()*input.DZDl()
	out[payload.CoreDTDl] = -(2*dadt/input.A())*input.DTDl()*input.DTDl() - (2/SpeedOfLightSquared*input.DTDl())*dotGrad
	out[payload.CoreDXDl] = -(2*dadt/input.A())*input.DTDl()*input.DXDl() + (2/SpeedOfLightSquared*dphidl)*input.DXDl() - 2*cell.DPhiDx()*input.DTDl()*input.DTDl()
	out[payload.CoreDYDl] = -(2*dadt/input.A())*input.DTDl()*input.DYDl() + (2/SpeedOfLightSquared*dphidl)*input.DYDl() - 2*cell.DPhiDy()*input.DTDl()*input.DTDl()
	out[payload.CoreDZDl] = -(2*dadt/input.A())*input.DTDl()*input.DZDl() + (2/SpeedOfLightSquared*dphidl)*input.DZDl() - 2*cell.DPhiDz()*input.DTDl()*input.DTDl()
	return out
}
