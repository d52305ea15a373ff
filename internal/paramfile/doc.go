// Package paramfile reads the line-oriented key=value parameter file
// that configures a raygeo driver run, per spec.md §6. Unrecognised
// keys are ignored rather than rejected: there is no strict schema.
package paramfile
