// Package config holds the small set of fixed operational constants
// that are not physical parameters of a particular run (those live in
// a parameter file, see internal/paramfile) but tuning knobs of the
// implementation itself: the caustic-rejection ratio, the
// machine-epsilon multiplier used by the null-constraint test, and the
// default RK4 substep count. It follows the teacher's TuningConfig
// JSON-with-fallback-accessors pattern exactly.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the canonical location of the operational
// defaults file, resolved relative to the repository root.
const DefaultConfigPath = "config/raygeo.defaults.json"

// TuningConfig is the root configuration for raygeo's fixed operational
// constants. Fields are pointers so a partial JSON file leaves
// unspecified knobs at their Get*-method default.
type TuningConfig struct {
	CausticRatioThreshold *float64 `json:"caustic_ratio_threshold,omitempty"`
	ErrorToleranceULPs    *float64 `json:"error_tolerance_ulps,omitempty"`
	DefaultRK4Substeps    *int     `json:"default_rk4_substeps,omitempty"`
	DefaultStepFraction   *float64 `json:"default_step_fraction,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with every field unset.
func EmptyTuningConfig() *TuningConfig { return &TuningConfig{} }

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields
// omitted from the file keep their Get*-method defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical defaults from
// DefaultConfigPath, searching from the current directory up through
// common parent directories. Panics if the file cannot be found,
// intended for test setup and CLI startup.
func MustLoadDefaultConfig() *TuningConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,
		"../../../" + DefaultConfigPath,
		"../../../../" + DefaultConfigPath,
		"../../../../../" + DefaultConfigPath,
	}
	for _, path := range candidates {
		if cfg, err := LoadTuningConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from the repository root")
}

// Validate checks that set fields hold sane values.
func (c *TuningConfig) Validate() error {
	if c.CausticRatioThreshold != nil && (*c.CausticRatioThreshold <= 0 || *c.CausticRatioThreshold >= 1) {
		return fmt.Errorf("caustic_ratio_threshold must be in (0, 1), got %f", *c.CausticRatioThreshold)
	}
	if c.ErrorToleranceULPs != nil && *c.ErrorToleranceULPs <= 0 {
		return fmt.Errorf("error_tolerance_ulps must be positive, got %f", *c.ErrorToleranceULPs)
	}
	if c.DefaultRK4Substeps != nil && *c.DefaultRK4Substeps < 1 {
		return fmt.Errorf("default_rk4_substeps must be at least 1, got %d", *c.DefaultRK4Substeps)
	}
	return nil
}

// GetCausticRatioThreshold returns the caustic-crossing rejection
// ratio, or spec §9's 1/8 default.
func (c *TuningConfig) GetCausticRatioThreshold() float64 {
	if c.CausticRatioThreshold == nil {
		return 0.125
	}
	return *c.CausticRatioThreshold
}

// GetErrorToleranceULPs returns the multiplier k in the null-constraint
// test `|error| < ε_machine · k`.
func (c *TuningConfig) GetErrorToleranceULPs() float64 {
	if c.ErrorToleranceULPs == nil {
		return 1e3
	}
	return *c.ErrorToleranceULPs
}

// GetDefaultRK4Substeps returns the configured default number of
// integration steps per unit length (100 if unset). No code reads it:
// the stepper takes its step count from the parameter file's nsteps.
func (c *TuningConfig) GetDefaultRK4Substeps() int {
	if c.DefaultRK4Substeps == nil {
		return 100
	}
	return *c.DefaultRK4Substeps
}

// GetDefaultStepFraction returns the configured local-cell step
// fraction (1.0 if unset). No code reads it: the stepper derives dl
// from the cell's edge length without this factor.
func (c *TuningConfig) GetDefaultStepFraction() float64 {
	if c.DefaultStepFraction == nil {
		return 1.0
	}
	return *c.DefaultStepFraction
}
