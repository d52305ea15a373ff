package octree

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/banshee-data/raygeo/internal/octidx"
)

// ErrDirtyContainer is the value panicked with (a programmer error —
// see spec.md §7) when a query is attempted on a
// container that has pending refine/coarsen mutations not yet
// resolved by Update.
var ErrDirtyContainer = errors.New("octree: container is dirty, call Update first")

// Element pairs a hyperoctree index with its cell payload.
type Element[P any] struct {
	Index octidx.Index
	Data  P
}

// Blend combines the eight vertex-neighbour payloads of a
// cloud-in-cell evaluation, weighted by their trilinear weights.
type Blend[P any] func(weights [8]float64, values [8]P) P

// Container is a flat, index-ordered sequence of cells covering a
// rectangular domain of the given origin and extent on each of the
// three axes.
//
// Container is in state "clean" when its elements are sorted,
// duplicate-free, and sentinel-free; Refine and Coarsen move it to
// "dirty"; Update restores "clean". Queries (Locate, Find, NGP, CIC)
// panic if called while dirty, matching the "signalled, indicates a
// logic bug" programmer-error category of spec.md §7.
type Container[P any] struct {
	elems  []Element[P]
	dirty  bool
	origin [octidx.Dimension]float64
	extent [octidx.Dimension]float64
}

// New creates an empty, clean container over the given domain.
func New[P any](origin, extent [octidx.Dimension]float64) *Container[P] {
	return &Container[P]{origin: origin, extent: extent}
}

// Origin returns the container's domain origin.
func (c *Container[P]) Origin() [octidx.Dimension]float64 { return c.origin }

// Extent returns the container's domain extent.
func (c *Container[P]) Extent() [octidx.Dimension]float64 { return c.extent }

// Dirty reports whether the container has pending refine/coarsen
// mutations not yet resolved by Update.
func (c *Container[P]) Dirty() bool { return c.dirty }

func (c *Container[P]) requireClean() {
	if c.dirty {
		panic(ErrDirtyContainer)
	}
}

// Size returns the number of stored elements.
func (c *Container[P]) Size() int { return len(c.elems) }

// Empty reports whether the container holds no elements.
func (c *Container[P]) Empty() bool { return len(c.elems) == 0 }

// Capacity returns the container's underlying storage capacity.
func (c *Container[P]) Capacity() int { return cap(c.elems) }

// Reserve grows the underlying storage to hold at least n elements
// without reallocating on subsequent appends.
func (c *Container[P]) Reserve(n int) {
	if cap(c.elems) >= n {
		return
	}
	grown := make([]Element[P], len(c.elems), n)
	copy(grown, c.elems)
	c.elems = grown
}

// Shrink releases any spare capacity beyond the current length.
func (c *Container[P]) Shrink() {
	if cap(c.elems) == len(c.elems) {
		return
	}
	trimmed := make([]Element[P], len(c.elems))
	copy(trimmed, c.elems)
	c.elems = trimmed
}

// Clear empties the container, keeping allocated capacity.
func (c *Container[P]) Clear() {
	c.elems = c.elems[:0]
	c.dirty = false
}

// Pop removes and returns the last element.
func (c *Container[P]) Pop() Element[P] {
	n := len(c.elems)
	e := c.elems[n-1]
	c.elems = c.elems[:n-1]
	return e
}

// Append adds an element at the tail. The caller is responsible for
// calling Update before the next query if this breaks sortedness.
func (c *Container[P]) Append(e Element[P]) {
	c.elems = append(c.elems, e)
}

// Resize truncates or zero-extends the element sequence to n entries.
func (c *Container[P]) Resize(n int) {
	if n <= len(c.elems) {
		c.elems = c.elems[:n]
		return
	}
	c.elems = append(c.elems, make([]Element[P], n-len(c.elems))...)
}

// At returns the element at position i, panicking if i is out of
// range (a programmer error per spec.md §7).
func (c *Container[P]) At(i int) Element[P] {
	if i < 0 || i >= len(c.elems) {
		panic(fmt.Sprintf("octree: At(%d) out of range [0, %d)", i, len(c.elems)))
	}
	return c.elems[i]
}

// Front returns the first element.
func (c *Container[P]) Front() Element[P] { return c.elems[0] }

// Back returns the last element.
func (c *Container[P]) Back() Element[P] { return c.elems[len(c.elems)-1] }

// Cycle returns the element at position i modulo the container size,
// wrapping negative indices.
func (c *Container[P]) Cycle(i int) Element[P] {
	n := len(c.elems)
	return c.elems[((i%n)+n)%n]
}

// End returns the sentinel position signalling "not found", the way a
// past-the-end iterator would in the original C++ container.
func (c *Container[P]) End() int { return len(c.elems) }

// Locate returns the position of the most-refined stored cell
// containing coord, or End() if coord falls outside the covered
// domain. It panics if the container is dirty.
func (c *Container[P]) Locate(coord [octidx.Dimension]float64) int {
	c.requireClean()
	for a := 0; a < octidx.Dimension; a++ {
		if !(coord[a] >= c.origin[a] && coord[a] <= c.origin[a]+c.extent[a]) {
			return c.End()
		}
	}
	probe := octidx.Cipher(c.origin, c.extent, coord)
	pos := sort.Search(len(c.elems), func(i int) bool { return c.elems[i].Index > probe })
	if pos == 0 {
		return c.End()
	}
	cand := pos - 1
	if c.elems[cand].Index.Containing(probe) {
		return cand
	}
	return c.End()
}

// Find returns the position of the most-refined stored cell
// containing idx, or End() if no stored cell covers it. It panics if
// the container is dirty.
func (c *Container[P]) Find(idx octidx.Index) int {
	c.requireClean()
	pos := sort.Search(len(c.elems), func(i int) bool { return c.elems[i].Index >= idx })
	if pos < len(c.elems) && c.elems[pos].Index.Containing(idx) {
		return pos
	}
	if pos > 0 && c.elems[pos-1].Index.Containing(idx) {
		return pos - 1
	}
	return c.End()
}

// Refine replaces the cell at pos with 2^Dimension children carrying
// copies of its payload, appended at the tail. The container becomes
// dirty; call Update once per batch of refine/coarsen calls.
func (c *Container[P]) Refine(pos int) {
	parent := c.At(pos)
	if parent.Index.Level() >= octidx.Levels {
		return
	}
	c.elems[pos].Index = octidx.Invalid
	for k := 0; k < 1<<octidx.Dimension; k++ {
		c.elems = append(c.elems, Element[P]{Index: parent.Index.Child(k), Data: parent.Data})
	}
	c.dirty = true
}

// Coarsen collapses the cell at pos, and every one of its siblings
// present in the container, back into their shared parent. The
// surviving parent entry carries the payload that was at pos. The
// container becomes dirty; call Update once per batch.
func (c *Container[P]) Coarsen(pos int) {
	child := c.At(pos)
	parent := child.Index.Parent()
	if parent == child.Index {
		return // already at the root, nothing to coarsen
	}
	for i := range c.elems {
		if i == pos {
			continue
		}
		if !c.elems[i].Index.Check() {
			continue
		}
		if parent.Containing(c.elems[i].Index) {
			c.elems[i].Index = octidx.Invalid
		}
	}
	c.elems[pos] = Element[P]{Index: parent, Data: child.Data}
	c.dirty = true
}

// Update restores container invariants after one or more
// Refine/Coarsen calls: it removes invalidated entries, stably sorts
// by index, and removes exact duplicates, keeping the first
// occurrence. Update is idempotent on a clean container.
func (c *Container[P]) Update() {
	filtered := c.elems[:0]
	for _, e := range c.elems {
		if e.Index.Check() {
			filtered = append(filtered, e)
		}
	}
	c.elems = filtered

	sort.SliceStable(c.elems, func(i, j int) bool { return c.elems[i].Index < c.elems[j].Index })

	out := c.elems[:0]
	var last octidx.Index
	first := true
	for _, e := range c.elems {
		if !first && e.Index == last {
			continue
		}
		out = append(out, e)
		last = e.Index
		first = false
	}
	c.elems = out
	c.dirty = false
}

// NGP (nearest grid point) returns the payload of the cell containing
// coord. The second result is false, and the payload is the zero
// value, if coord lies outside the covered domain.
func (c *Container[P]) NGP(coord [octidx.Dimension]float64) (P, bool) {
	var zero P
	pos := c.Locate(coord)
	if pos == c.End() {
		return zero, false
	}
	return c.elems[pos].Data, true
}

// CIC (cloud-in-cell) returns the trilinearly interpolated payload at
// coord, descending to the finest available refinement and restarting
// at a coarser level whenever a vertex-neighbour lookup lands in a
// coarser covering cell, so a vertex shared by coarse and fine cells
// contributes a single continuous value. The second result is false,
// and the payload is the zero value, if coord lies outside the
// covered domain.
func (c *Container[P]) CIC(coord [octidx.Dimension]float64, blend Blend[P]) (P, bool) {
	var zero P
	pos := c.Locate(coord)
	if pos == c.End() {
		return zero, false
	}
	level := c.elems[pos].Index.Level()

	const corners = 1 << octidx.Dimension
	for {
		var width [octidx.Dimension]float64
		for a := 0; a < octidx.Dimension; a++ {
			width[a] = c.extent[a] / float64(uint64(1)<<uint(level))
		}
		var lowIdx [octidx.Dimension]int
		var frac [octidx.Dimension]float64
		for a := 0; a < octidx.Dimension; a++ {
			rel := (coord[a]-c.origin[a])/width[a] - 0.5
			lo := math.Floor(rel)
			lowIdx[a] = int(lo)
			frac[a] = rel - lo
		}

		var weights [corners]float64
		var values [corners]P
		var found [corners]bool
		var levels [corners]int
		anyFound := false
		minLevel := level

		for corner := 0; corner < corners; corner++ {
			w := 1.0
			var cornerCoord [octidx.Dimension]float64
			for a := 0; a < octidx.Dimension; a++ {
				bit := (corner >> uint(a)) & 1
				ci := lowIdx[a] + bit
				if bit == 1 {
					w *= frac[a]
				} else {
					w *= 1 - frac[a]
				}
				cornerCoord[a] = c.origin[a] + (float64(ci)+0.5)*width[a]
			}
			weights[corner] = w
			p := c.Locate(cornerCoord)
			if p == c.End() {
				continue
			}
			found[corner] = true
			anyFound = true
			values[corner] = c.elems[p].Data
			lv := c.elems[p].Index.Level()
			levels[corner] = lv
			if lv < minLevel {
				minLevel = lv
			}
		}

		if minLevel < level {
			level = minLevel
			continue
		}
		if !anyFound {
			return zero, false
		}

		// Renormalise weights over the found corners (handles probes
		// near the edge of the covered domain where some vertex
		// neighbours fall outside it).
		var total float64
		for corner := 0; corner < corners; corner++ {
			if found[corner] {
				total += weights[corner]
			}
		}
		if total <= 0 {
			return zero, false
		}
		var out [corners]float64
		for corner := 0; corner < corners; corner++ {
			if found[corner] {
				out[corner] = weights[corner] / total
			}
		}
		return blend(out, values), true
	}
}
