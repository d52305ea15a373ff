package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/raygeo/internal/cosmology"
	"github.com/banshee-data/raygeo/internal/geodesic"
	"github.com/banshee-data/raygeo/internal/octidx"
	"github.com/banshee-data/raygeo/internal/octree"
	"github.com/banshee-data/raygeo/internal/payload"
)

// linearExpansionStepper builds a flat, structureless universe whose
// scale factor grows linearly with time (a(t) = t, da/dt = 1), a
// cosmology simple enough that a(t) and its t(a) inverse are exact
// under piecewise-linear interpolation, so the only error in the test
// below comes from the bundle's own small-angle geometry.
func linearExpansionStepper(t *testing.T) *geodesic.Stepper {
	t.Helper()
	tree := octree.New[payload.Gravity]([octidx.Dimension]float64{-10, -10, -10}, [octidx.Dimension]float64{20, 20, 20})
	tree.Append(octree.Element[payload.Gravity]{Index: octidx.Root, Data: payload.Gravity{Scale: 1}})
	tree.Update()

	table, err := cosmology.New([]float64{0.1, 1.5}, []float64{0.1, 1.5}, []float64{1, 1})
	require.NoError(t, err)

	return &geodesic.Stepper{
		Tree:      tree,
		Cosmology: table,
		LengthSI:  20 * geodesic.SpeedOfLight,
		NSteps:    2000,
		Mode:      geodesic.Homogeneous,
		RK4:       true,
	}
}

// TestBundleInHomogeneousUniverseMatchesComovingDistanceTimesA exercises
// spec.md §8 scenario 6: in a homogeneous universe a ray bundle's
// angular-diameter distance must agree with the flat-FLRW identity
// D_A = a(t) * comoving distance traveled, since a structureless,
// isotropic background cannot bend the ring rays relative to the
// centre one — their separation grows purely from the launch angle.
func TestBundleInHomogeneousUniverseMatchesComovingDistanceTimesA(t *testing.T) {
	stepper := linearExpansionStepper(t)

	var core payload.Core
	core[payload.CoreT] = 1.0
	core[payload.CoreDTDl] = -1
	core[payload.CoreDXDl] = 1
	center := payload.Photon{Core: core}

	b := &Bundler{Stepper: stepper, By: ByRedshift}
	ring := Ring{Count: 8, Angle: 1e-4}

	result := b.Propagate(center, ring)
	require.False(t, result.Rejected, "reason: %s", result.Reason)
	require.Greater(t, len(result.Central), 5)

	scale := stepper.LengthSI / stepper.Tree.Extent()[0]
	origin := result.Central[0].Position()
	for i, p := range result.Central {
		if p.Redshift > 1.0 {
			break
		}
		comoving := euclideanDistance(p.Position(), origin) * scale
		expected := p.A() * comoving
		if expected == 0 {
			continue
		}
		assert.InDeltaf(t, expected, p.Distance, 0.01*expected,
			"step %d: angular-diameter distance should match a(t)*comoving distance to 1%%", i)
	}
}

// TestBundleRejectsWhenAMinFloorNotReached exercises spec.md §6's
// `amin`: a trajectory that stops with its local scale factor still
// above the floor is incomplete and must be rejected, but the same
// trajectory is accepted once the floor is relaxed to sit at or above
// where it actually ended.
func TestBundleRejectsWhenAMinFloorNotReached(t *testing.T) {
	tree := octree.New[payload.Gravity]([octidx.Dimension]float64{-10, -10, -10}, [octidx.Dimension]float64{20, 20, 20})
	tree.Append(octree.Element[payload.Gravity]{Index: octidx.Root, Data: payload.Gravity{Scale: 0.5}})
	tree.Update()

	table, err := cosmology.New([]float64{0.1, 1.5}, []float64{0.1, 1.5}, []float64{1, 1})
	require.NoError(t, err)

	stepper := &geodesic.Stepper{
		Tree:      tree,
		Cosmology: table,
		LengthSI:  20 * geodesic.SpeedOfLight,
		NSteps:    2000,
		Mode:      geodesic.Homogeneous,
		RK4:       true,
	}

	var core payload.Core
	core[payload.CoreT] = 1.0
	core[payload.CoreDTDl] = -1
	core[payload.CoreDXDl] = 1
	center := payload.Photon{Core: core}
	ring := Ring{Count: 8, Angle: 1e-4}

	b := &Bundler{Stepper: stepper, By: ByRedshift, AMin: 0.3}
	result := b.Propagate(center, ring)
	assert.True(t, result.Rejected)
	assert.Contains(t, result.Reason, "amin")

	b = &Bundler{Stepper: stepper, By: ByRedshift, AMin: 0.6}
	result = b.Propagate(center, ring)
	assert.False(t, result.Rejected, "reason: %s", result.Reason)

	b = &Bundler{Stepper: stepper, By: ByRedshift}
	result = b.Propagate(center, ring)
	assert.False(t, result.Rejected, "amin=0 disables the check, reason: %s", result.Reason)
}

func TestBundleRejectsWhenRayEndsImmediately(t *testing.T) {
	stepper := linearExpansionStepper(t)
	stepper.NSteps = 1 // one giant substep per cell, guaranteed to overshoot the domain

	var core payload.Core
	core[payload.CoreT] = 1.0
	core[payload.CoreDTDl] = -1
	core[payload.CoreDXDl] = 1
	center := payload.Photon{Core: core}

	b := &Bundler{Stepper: stepper}
	result := b.Propagate(center, Ring{Count: 4, Angle: 1e-4})
	assert.True(t, result.Rejected)
}
