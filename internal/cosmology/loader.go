package cosmology

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// tableFile is the on-disk JSON shape of a cosmology table: three
// equal-length arrays ordered by increasing conformal time.
type tableFile struct {
	T    []float64 `json:"t"`
	A    []float64 `json:"a"`
	DaDt []float64 `json:"dadt"`
}

// Load reads a cosmology table from a JSON file of the form
// {"t": [...], "a": [...], "dadt": [...]}, matching spec.md §6's
// "cosmology table that tabulates a(t), t(a), da/dt" external
// collaborator.
func Load(path string) (*Table, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("cosmology: reading table file: %w", err)
	}
	var tf tableFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("cosmology: parsing table JSON: %w", err)
	}
	return New(tf.T, tf.A, tf.DaDt)
}
