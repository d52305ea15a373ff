package geodesic

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/raygeo/internal/cosmology"
	"github.com/banshee-data/raygeo/internal/octidx"
	"github.com/banshee-data/raygeo/internal/octree"
	"github.com/banshee-data/raygeo/internal/payload"
)

func flatUniverseStepper(t *testing.T) *Stepper {
	t.Helper()
	tree := octree.New[payload.Gravity]([octidx.Dimension]float64{-10, -10, -10}, [octidx.Dimension]float64{20, 20, 20})
	tree.Append(octree.Element[payload.Gravity]{Index: octidx.Root, Data: payload.Gravity{Scale: 1}})
	tree.Update()

	table, err := cosmology.New([]float64{-1e9, 1e9}, []float64{1, 1}, []float64{0, 0})
	require.NoError(t, err)

	return &Stepper{
		Tree:      tree,
		Cosmology: table,
		LengthSI:  20,
		NSteps:    50,
		Mode:      CIC,
		RK4:       true,
	}
}

func TestNullGeodesicInFlatFLRWTravelsStraightLine(t *testing.T) {
	s := flatUniverseStepper(t)

	var core payload.Core
	core[payload.CoreA] = 1
	core[payload.CoreT] = 0
	core[payload.CoreDTDl] = 1
	core[payload.CoreDXDl] = 1 // renormalized to a null ray by Integrate

	trajectory := s.Integrate(payload.Photon{Core: core})
	require.Greater(t, len(trajectory), 5)

	for _, p := range trajectory {
		assert.InDelta(t, 0, p.Y(), 1e-9, "ray must not drift off the x-axis")
		assert.InDelta(t, 0, p.Z(), 1e-9, "ray must not drift off the x-axis")
		assert.InDelta(t, 0, p.Error, 1e-6, "null constraint must hold along a flat-space ray")
		assert.InDelta(t, 1.0, p.A(), 1e-9, "scale factor is pinned to 1 in this universe")
	}

	// x must be monotonically increasing: a straight line toward +x.
	for i := 1; i < len(trajectory); i++ {
		assert.Greater(t, trajectory[i].X(), trajectory[i-1].X())
	}
}

func TestIntegrateStopsAtDomainEdge(t *testing.T) {
	s := flatUniverseStepper(t)
	var core payload.Core
	core[payload.CoreA] = 1
	core[payload.CoreDTDl] = 1
	core[payload.CoreDXDl] = 1

	trajectory := s.Integrate(payload.Photon{Core: core})
	last := trajectory[len(trajectory)-1]
	assert.Less(t, last.X(), 10.0)
	assert.False(t, math.IsNaN(last.X()))
}
