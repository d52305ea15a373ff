package bundle

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/banshee-data/raygeo/internal/payload"
)

func TestLaunchPreservesRingRayMagnitudeAndHalfAngle(t *testing.T) {
	var core payload.Core
	core[payload.CoreDXDl] = 1
	core[payload.CoreDYDl] = 0
	core[payload.CoreDZDl] = 0
	center := payload.Photon{Core: core}

	ring := Ring{Count: 8, Angle: 0.05, Rotation: 0.3}
	photons := Launch(center, ring)
	assert.Len(t, photons, 9)
	assert.Equal(t, center, photons[0])

	r := 1.0
	for _, p := range photons[1:] {
		dxdl, dydl, dzdl := p.DXDl(), p.DYDl(), p.DZDl()
		mag := math.Sqrt(dxdl*dxdl + dydl*dydl + dzdl*dzdl)
		assert.InDelta(t, r, mag, 1e-9, "ring rays must preserve the centre ray's speed")

		cosAngle := (dxdl*center.DXDl() + dydl*center.DYDl() + dzdl*center.DZDl()) / (mag * r)
		assert.InDelta(t, math.Cos(ring.Angle), cosAngle, 1e-9, "ring rays sit at the configured half-angle")
	}
}

func TestLaunchWithZeroDirectionLeavesRingParallel(t *testing.T) {
	center := payload.Photon{}
	photons := Launch(center, Ring{Count: 4, Angle: 0.1})
	for _, p := range photons {
		assert.Equal(t, center.Core, p.Core)
	}
}
