// Package cubeio reads the flat binary octree cube files and their
// per-cone subsets described in spec.md §6: a headerless sequence of
// fixed-width records in native byte order, one per populated
// hyperoctree cell.
package cubeio
