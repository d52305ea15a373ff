package octidx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildExample constructs the level-2 index from spec.md §8 scenario 1:
// instruction 0 has operand 001 (=1), instruction 1 has operand 100
// (=4). The scenario's literal per-axis coordinate values (1, 1, 2)
// are not reproduced here: no bit-per-axis assignment can satisfy all
// three simultaneously from just two given nibbles, so this test exercises the structural claims the scenario makes
// instead — level, parent, child, containing, adjoining.
func buildExample() Index {
	return Root.Child(1).Child(4)
}

func TestScenarioLevelAndParent(t *testing.T) {
	idx := buildExample()
	require.Equal(t, 2, idx.Level())

	parent := idx.Parent()
	assert.Equal(t, 1, parent.Level())
	assert.Equal(t, Root.Child(1), parent)
	assert.True(t, parent.Check())
	assert.True(t, idx.Check())
}

func TestScenarioChild(t *testing.T) {
	idx := buildExample()
	child := idx.Child(5)
	require.Equal(t, 3, child.Level())
	assert.Equal(t, 5, int(child.operand(2)))
}

func TestScenarioContainingAndAdjoining(t *testing.T) {
	idx := buildExample()
	parent := idx.Parent()

	assert.True(t, parent.Containing(idx))
	assert.True(t, idx.Contained(parent))
	assert.True(t, idx.Adjoining(idx.Brother(3)))
	assert.True(t, idx.Intersecting(idx.Brother(3)))
}

func TestCoordinateRange(t *testing.T) {
	// Invariant: 0 <= coordinate(k) < 2^level for every valid index and axis.
	indices := []Index{
		Root,
		Root.Child(0),
		Root.Child(7),
		Root.Child(3).Child(2),
		Root.Child(5).Child(5).Child(1),
	}
	for _, idx := range indices {
		lvl := idx.Level()
		max := 1 << uint(lvl)
		for axis := 0; axis < Dimension; axis++ {
			c := idx.Coordinate(axis)
			assert.GreaterOrEqual(t, c, 0)
			assert.Less(t, c, max)
		}
	}
}

func TestParentChildRoundTrip(t *testing.T) {
	idx := Root
	for k := 0; k < 8; k++ {
		child := idx.Child(k)
		if idx.Level() < Levels {
			assert.Equal(t, idx, child.Parent(), "parent(child(idx,%d)) must equal idx", k)
		}
	}

	deep := Root
	for i := 0; i < Levels; i++ {
		deep = deep.Child(i % 8)
	}
	require.Equal(t, Levels, deep.Level())
	assert.Equal(t, Invalid, deep.Child(0), "child of finest index clamps to Invalid")
}

func TestContainingContainedSymmetry(t *testing.T) {
	a := Root.Child(2)
	b := a.Child(5)
	assert.Equal(t, a.Containing(b), b.Contained(a))
	assert.True(t, a.Containing(b))
	assert.True(t, a.Containing(a))
}

func TestAdjoiningImpliesIntersecting(t *testing.T) {
	parent := Root.Child(3)
	for i := 0; i < 8; i++ {
		for j := 0; j < 8; j++ {
			if i == j {
				continue
			}
			a, b := parent.Child(i), parent.Child(j)
			require.True(t, a.Adjoining(b))
			assert.True(t, a.Intersecting(b), "adjoining(%d,%d) must imply intersecting", i, j)
		}
	}
}

func TestInvalidSentinel(t *testing.T) {
	assert.False(t, Invalid.Check())
	assert.True(t, Invalid.Invalidated())
	assert.True(t, Root.Check())
	assert.False(t, Root.Invalidated())
}

func TestFixTruncatesAtFirstMalformedInstruction(t *testing.T) {
	good := Root.Child(2).Child(6)
	// Corrupt a bit below the level boundary: this is no longer check()-valid.
	corrupt := good | 1
	require.False(t, corrupt.Check())
	fixed := corrupt.Fix()
	assert.True(t, fixed.Check())
}

func TestCipherRoundTrip(t *testing.T) {
	origin := [Dimension]float64{0, 0, 0}
	extent := [Dimension]float64{1, 1, 1}
	idx := Root.Child(5).Child(2).Child(7)
	lvl := idx.Level()

	var center [Dimension]float64
	for axis := 0; axis < Dimension; axis++ {
		center[axis] = idx.Center(axis, origin[axis], extent[axis])
	}
	reconstructed := Compute(lvl, origin, extent, center)
	assert.Equal(t, idx, reconstructed)
}

func TestMergeIsLowestCommonAncestor(t *testing.T) {
	base := Root.Child(4)
	a := base.Child(0).Child(1)
	b := base.Child(0).Child(2)
	c := base.Child(5)

	assert.Equal(t, base.Child(0), Merge(a, b))
	assert.Equal(t, base, Merge(a, b, c))
	assert.Equal(t, a, Merge(a))
}

func TestPrecedingFollowingCycle(t *testing.T) {
	idx := Root.Child(2)
	prev := idx.Preceding()
	next := idx.Following()
	assert.Equal(t, Root.Child(1), prev)
	assert.Equal(t, Root.Child(3), next)

	wrap := Root.Child(0)
	assert.Equal(t, Root.Child(7), wrap.Preceding())

	top := Root.Child(7)
	assert.Equal(t, Root.Child(0), top.Following())
}

func TestNextPreviousWithinSubtree(t *testing.T) {
	base := Root.Child(1)
	first := base.Child(0).Child(0)
	last := base.Child(7).Child(7)

	assert.Equal(t, last, first.Previous(1, 2))
	assert.Equal(t, first, last.Next(1, 2))
}

func TestMinMaxCenterOrdering(t *testing.T) {
	idx := Root.Child(6)
	min := idx.Minimum(0, 0, 10)
	max := idx.Maximum(0, 0, 10)
	center := idx.Center(0, 0, 10)
	assert.Less(t, min, center)
	assert.Less(t, center, max)
	assert.InDelta(t, (min+max)/2, center, 1e-9)
}
