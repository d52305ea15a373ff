// Package cosmology loads and queries the tabulated background
// expansion history the geodesic stepper and bundle reducer need:
// conformal time t, scale factor a(t), its derivative da/dt, and the
// inverse t(a), each monotone in its own independent variable.
// Spec.md §4 treats this table as a read-only external collaborator;
// this package is the thin loader and interpolation surface for it.
package cosmology
