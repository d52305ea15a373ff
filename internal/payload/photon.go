package payload

import "github.com/banshee-data/raygeo/internal/octidx"

// Core is the nine-component state the geodesic stepper integrates:
// scale factor, conformal time, position, and their derivatives with
// respect to the affine parameter. The field order matches
// raytracer/integrator.h's dphotondl layout so the stepper can treat
// it as a plain [9]float64.
type Core [9]float64

// Indices into Core.
const (
	CoreA = iota
	CoreT
	CoreX
	CoreY
	CoreZ
	CoreDTDl
	CoreDXDl
	CoreDYDl
	CoreDZDl
	CoreSize
)

func (c Core) A() float64    { return c[CoreA] }
func (c Core) T() float64    { return c[CoreT] }
func (c Core) X() float64    { return c[CoreX] }
func (c Core) Y() float64    { return c[CoreY] }
func (c Core) Z() float64    { return c[CoreZ] }
func (c Core) DTDl() float64 { return c[CoreDTDl] }
func (c Core) DXDl() float64 { return c[CoreDXDl] }
func (c Core) DYDl() float64 { return c[CoreDYDl] }
func (c Core) DZDl() float64 { return c[CoreDZDl] }

// Position returns the (x, y, z) triple as an array suitable for
// octree lookups.
func (c Core) Position() [octidx.Dimension]float64 {
	return [octidx.Dimension]float64{c.X(), c.Y(), c.Z()}
}

// Photon is one recorded step along a ray: its core state plus the
// diagnostics the stepper derives from the local cell lookup. Spec.md
// §3 calls this the "extra state".
type Photon struct {
	Step  int
	Core  Core
	Level int     // local refinement level
	LocalA float64 // local scale factor from the cell lookup
	Rho   float64
	Phi   float64
	Grad  [3]float64 // dPhi/dx, dPhi/dy, dPhi/dz
	DPhiDl    float64
	Laplacian float64
	Redshift  float64
	Ds2Dl2    float64 // metric line element ds^2/dlambda^2
	Error     float64 // null-constraint residual
	Distance  float64 // angular-diameter distance
	Major     float64
	Minor     float64
	Rotation  float64
}

func (p Photon) A() float64    { return p.Core.A() }
func (p Photon) T() float64    { return p.Core.T() }
func (p Photon) X() float64    { return p.Core.X() }
func (p Photon) Y() float64    { return p.Core.Y() }
func (p Photon) Z() float64    { return p.Core.Z() }
func (p Photon) DTDl() float64 { return p.Core.DTDl() }
func (p Photon) DXDl() float64 { return p.Core.DXDl() }
func (p Photon) DYDl() float64 { return p.Core.DYDl() }
func (p Photon) DZDl() float64 { return p.Core.DZDl() }

func (p Photon) DPhiDx() float64 { return p.Grad[0] }
func (p Photon) DPhiDy() float64 { return p.Grad[1] }
func (p Photon) DPhiDz() float64 { return p.Grad[2] }

// Position returns the photon's current (x, y, z).
func (p Photon) Position() [octidx.Dimension]float64 { return p.Core.Position() }
