package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/raygeo/internal/cosmology"
)

// loadCosmology reads an evolution file: whitespace-separated rows of
// conformal time, scale factor, and da/dt, in increasing t (spec.md
// §6's "four equal-length arrays: conformal time t, a(t), da/dt, scale
// factor t(a)"). Only the first three columns are read and a row needs
// at least three; a fourth (or any further) column is ignored, since
// cosmology.Table derives t(a) internally by resorting the first three.
func loadCosmology(path string) (*cosmology.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("evolfile: opening %s: %w", path, err)
	}
	defer f.Close()

	var t, a, dadt []float64
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("evolfile: %s:%d: expected at least 3 columns, got %d", path, lineNo, len(fields))
		}
		tv, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("evolfile: %s:%d: bad t value %q: %w", path, lineNo, fields[0], err)
		}
		av, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("evolfile: %s:%d: bad a value %q: %w", path, lineNo, fields[1], err)
		}
		dv, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("evolfile: %s:%d: bad da/dt value %q: %w", path, lineNo, fields[2], err)
		}
		t = append(t, tv)
		a = append(a, av)
		dadt = append(dadt, dv)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("evolfile: reading %s: %w", path, err)
	}

	table, err := cosmology.New(t, a, dadt)
	if err != nil {
		return nil, fmt.Errorf("evolfile: %s: %w", path, err)
	}
	return table, nil
}
