// Package payload defines the two flat cell/ray record types stored in
// the hyperoctree container: Gravity (one per cell, produced by the
// N-body simulation) and Photon (one per integration step, produced by
// the geodesic stepper). Both are trivially-copyable tuples accessed
// through named selectors, with no runtime polymorphism, per spec.md
// §4.3.
package payload

// Gravity is the per-cell metric-potential payload: local density,
// Newtonian potential, its gradient, and the local scale factor at
// which the cell's values were evaluated.
type Gravity struct {
	Density  float64
	Potential float64
	Gradient [3]float64
	Scale    float64 // local scale factor a
}

// Rho is the cell's local density.
func (g Gravity) Rho() float64 { return g.Density }

// Phi is the cell's Newtonian potential.
func (g Gravity) Phi() float64 { return g.Potential }

// DPhiDx, DPhiDy, DPhiDz are the components of the potential gradient.
func (g Gravity) DPhiDx() float64 { return g.Gradient[0] }
func (g Gravity) DPhiDy() float64 { return g.Gradient[1] }
func (g Gravity) DPhiDz() float64 { return g.Gradient[2] }

// A is the local scale factor the cell's values were evaluated at.
func (g Gravity) A() float64 { return g.Scale }

// BlendGravity combines the eight vertex-neighbour Gravity payloads of
// a cloud-in-cell evaluation using their trilinear weights. It is the
// octree.Blend passed to Container[Gravity].CIC.
func BlendGravity(weights [8]float64, values [8]Gravity) Gravity {
	var out Gravity
	for i, w := range weights {
		v := values[i]
		out.Density += w * v.Density
		out.Potential += w * v.Potential
		out.Gradient[0] += w * v.Gradient[0]
		out.Gradient[1] += w * v.Gradient[1]
		out.Gradient[2] += w * v.Gradient[2]
		out.Scale += w * v.Scale
	}
	return out
}
