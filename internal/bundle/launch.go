package bundle

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/raygeo/internal/payload"
)

// Ring describes a ring of rays launched around a central photon: count
// rays spaced evenly around the central direction at half-angle angle
// (radians), with the ring's own azimuthal origin twisted by rotation
// (radians). Grounded on raytracer/integrator.h's launch<Center=true>.
type Ring struct {
	Count    int
	Angle    float64
	Rotation float64
}

// Launch returns count+1 photons sharing center's position, time and
// scale factor: index 0 is center unchanged, and the remaining count
// photons have their direction vector rotated angle radians off
// center's own direction, spaced 2*pi/count apart around it.
//
// If center's direction vector has zero length there is no axis to
// rotate about, so every ring photon is launched parallel to center.
func Launch(center payload.Photon, ring Ring) []payload.Photon {
	out := make([]payload.Photon, ring.Count+1)
	out[0] = center
	for i := 1; i <= ring.Count; i++ {
		out[i] = center
	}

	dxdl, dydl, dzdl := center.DXDl(), center.DYDl(), center.DZDl()
	r := math.Sqrt(dxdl*dxdl + dydl*dydl + dzdl*dzdl)
	if r == 0 || ring.Count < 1 {
		return out
	}

	rcos := r * math.Cos(ring.Angle)
	rsin := r * math.Sin(ring.Angle)

	theta := math.Acos(dzdl / r)
	phi := math.Atan2(dydl, dxdl)
	costheta, sintheta := math.Cos(theta), math.Sin(theta)
	cosphi, sinphi := math.Cos(phi), math.Sin(phi)
	cospsi, sinpsi := math.Cos(ring.Rotation), math.Sin(ring.Rotation)

	// R maps a direction expressed in the ring's local frame (z along
	// center's direction) back into the domain frame, composed from the
	// azimuth phi, polar angle theta and ring rotation psi exactly as
	// integrator.h's launch<Center=true> inlines it.
	R := mat.NewDense(3, 3, []float64{
		-cosphi*sinpsi*costheta - sinphi*cospsi, -cosphi*cospsi*costheta + sinphi*sinpsi, cosphi * sintheta,
		-sinphi*sinpsi*costheta + cosphi*cospsi, -sinphi*cospsi*costheta - cosphi*sinpsi, sintheta * sinphi,
		sintheta * sinpsi, sintheta * cospsi, costheta,
	})

	step := 2 * math.Pi / float64(ring.Count)
	for i := 0; i < ring.Count; i++ {
		azimuth := float64(i) * step
		local := mat.NewVecDense(3, []float64{
			rsin * math.Cos(azimuth),
			rsin * math.Sin(azimuth),
			rcos,
		})
		var rotated mat.VecDense
		rotated.MulVec(R, local)

		out[i+1].Core[payload.CoreDXDl] = rotated.AtVec(0)
		out[i+1].Core[payload.CoreDYDl] = rotated.AtVec(1)
		out[i+1].Core[payload.CoreDZDl] = rotated.AtVec(2)
	}
	return out
}
