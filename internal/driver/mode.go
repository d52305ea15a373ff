package driver

import (
	"fmt"

	"github.com/banshee-data/raygeo/internal/cosmology"
	"github.com/banshee-data/raygeo/internal/geodesic"
	"github.com/banshee-data/raygeo/internal/octree"
	"github.com/banshee-data/raygeo/internal/paramfile"
	"github.com/banshee-data/raygeo/internal/payload"
)

// SolarMass is the mass of the sun in kilograms, used to convert a
// parameter file's massmsun key into the SI mass SchwarzschildSource
// wants.
const SolarMass = 1.98892e30

// BuildStepper assembles a geodesic.Stepper from a loaded octree, a
// cosmology table, and a parameter file's mode switches, dispatching
// spec.md §4.7's propagation/homogeneous/schwarzschild/test modes. A
// parameter file with more than one mode switch set is a
// configuration error: the modes are mutually exclusive.
func BuildStepper(tree *octree.Container[payload.Gravity], cosmo *cosmology.Table, p *paramfile.Params) (*geodesic.Stepper, error) {
	set := 0
	for _, on := range []bool{p.Propagation, p.Homogeneous, p.Schwarzschild, p.Test} {
		if on {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("driver: parameter file sets more than one mode switch")
	}

	s := &geodesic.Stepper{
		Tree:      tree,
		Cosmology: cosmo,
		LengthSI:  p.LBoxMpcH0 * p.Mpc / p.H,
		NSteps:    p.NSteps,
		Mode:      geodesic.CIC,
		RK4:       true,
	}

	switch {
	case p.Homogeneous:
		s.Mode = geodesic.Homogeneous
	case p.Schwarzschild:
		s.Mode = geodesic.Homogeneous
		s.Schwarzschild = &geodesic.SchwarzschildSource{Mass: p.MassMSun * SolarMass}
	case p.Test:
		s.Mode = geodesic.NGP
	}

	return s, nil
}
