package cubeio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/banshee-data/raygeo/internal/octidx"
	"github.com/banshee-data/raygeo/internal/octree"
	"github.com/banshee-data/raygeo/internal/payload"
)

// Record is one fixed-width entry of a cube file: an index plus D+1
// payload floats. The compile-time layout decision (spec.md §6 leaves
// this to "compile-time configuration") is potential followed by its
// D-component gradient — density and the per-cell scale factor are not
// part of the stored cube and are supplied separately (Density is left
// zero; Scale comes from ToGravityElements' snapshotScale argument).
type Record struct {
	Index     octidx.Index
	Potential float64
	Gradient  [octidx.Dimension]float64
}

const recordSize = 8 /* index */ + 8*(octidx.Dimension+1) /* payload floats */

// ReadCube reads every fixed-width record of a cube file in native
// byte order, stopping cleanly at EOF. A file whose length is not a
// multiple of the record size is a corrupt input (spec.md §7).
func ReadCube(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cubeio: opening %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	buf := make([]byte, recordSize)
	for {
		if _, err := io.ReadFull(f, buf); err != nil {
			if err == io.EOF {
				break
			}
			if err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("cubeio: %s: truncated record (length not a multiple of %d bytes)", path, recordSize)
			}
			return nil, fmt.Errorf("cubeio: reading %s: %w", path, err)
		}

		var rec Record
		rec.Index = octidx.Index(binary.NativeEndian.Uint64(buf[0:8]))
		rec.Potential = nativeFloat64(buf[8:16])
		for i := 0; i < octidx.Dimension; i++ {
			rec.Gradient[i] = nativeFloat64(buf[16+8*i : 24+8*i])
		}
		records = append(records, rec)
	}
	return records, nil
}

func nativeFloat64(b []byte) float64 {
	return math.Float64frombits(binary.NativeEndian.Uint64(b))
}

// ToGravityElements converts raw cube records into octree elements,
// assigning every cell the same snapshot-wide scale factor (the cube
// format carries no per-cell scale: spec.md §3's cosmology table is
// the authority for a(t), and a cube is a single-time snapshot).
func ToGravityElements(records []Record, snapshotScale float64) []octree.Element[payload.Gravity] {
	out := make([]octree.Element[payload.Gravity], len(records))
	for i, r := range records {
		out[i] = octree.Element[payload.Gravity]{
			Index: r.Index,
			Data: payload.Gravity{
				Potential: r.Potential,
				Gradient:  r.Gradient,
				Scale:     snapshotScale,
			},
		}
	}
	return out
}

// ConePath expands a printf-style cone filename pattern for the given
// cone index, matching spec.md §6's "pre-sharded octree binaries, one
// per cone, named by a printf-style pattern".
func ConePath(pattern string, cone int) string {
	return fmt.Sprintf(pattern, cone)
}
