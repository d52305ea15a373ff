// Package octidx implements the bit-packed hyperoctree index: a single
// unsigned integer that encodes a cell's position, level, and spatial
// coordinates in three dimensions, together with closed-form operations
// to derive parent/child/sibling indices and spatial predicates without
// ever walking a tree structure.
package octidx
