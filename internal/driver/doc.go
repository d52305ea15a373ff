// Package driver fans a run's rays out across a worker pool, reduces
// their per-bundle angular-diameter distances into per-redshift
// statistics, and dispatches the inhomogeneous/homogeneous/
// Schwarzschild/test propagation modes a parameter file selects
// (spec.md §4.7, §5).
package driver
