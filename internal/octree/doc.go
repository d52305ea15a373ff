// Package octree implements the hyperoctree container: a flat,
// index-ordered sequence of (octidx.Index, payload) elements supporting
// locate-by-position, locate-by-index, refinement and coarsening with
// deferred compaction, and cloud-in-cell interpolation that descends to
// the finest available refinement and falls back across level
// boundaries.
package octree
