// Package bundle launches a ring of rays around a central photon,
// integrates each independently, resamples their trajectories onto a
// common abscissa, and reduces the inter-ray separation to an
// angular-diameter distance — spec.md §4.6. A bundle whose rays
// diverge too unevenly (a caustic crossing) is rejected rather than
// reported.
package bundle
