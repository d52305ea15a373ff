// Package geodesic integrates null geodesics of the perturbed FLRW
// metric through a hyperoctree-sampled gravitational potential: the
// nine-component derivative of raytracer/integrator.h's dphotondl, and
// a Stepper that advances a photon with forward Euler or classical
// RK4 using a cell-extent-adaptive step length, per spec.md §4.4-4.5.
package geodesic
