package paramfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Interpolation selects which trajectory abscissa a bundle resamples
// onto, the `interpolation` key of a parameter file.
type Interpolation string

const (
	InterpolationRedshift    Interpolation = "redshift"
	InterpolationScaleFactor Interpolation = "a"
	InterpolationTime        Interpolation = "t"
	InterpolationRadius      Interpolation = "r"
	InterpolationAll         Interpolation = "all"
)

// Statistic is the `statistic` key of a parameter file. It is parsed
// and validated only; no code reads it, and the statistics output has
// the same columns whatever its value.
type Statistic string

const (
	StatisticDistance      Statistic = "distance"
	StatisticDistance2     Statistic = "distance2"
	StatisticHomogeneous   Statistic = "homogeneous"
	StatisticInhomogeneous Statistic = "inhomogeneous"
	StatisticAll           Statistic = "all"
)

// Params holds every recognised key=value entry of a parameter file.
// Fields keep Go zero values when their key is absent; Load does not
// fill in driver-level defaults (that is the driver's job).
type Params struct {
	// Mode switches.
	Propagation   bool
	Homogeneous   bool
	Schwarzschild bool
	Test          bool
	Visualization bool

	// Paths.
	CubeDir   string
	ConeDir   string
	OutputDir string
	ParamFile string
	EvolFile  string

	// Formatting patterns.
	CubeFmt      string
	ConeFmt      string
	OutputPrefix string
	OutputSuffix string
	OutputSep    string

	// Numerical parameters.
	NCones        int
	NTrajectories int
	NSteps        int
	NCoarse       int
	NReference    int
	NBundleMin    int
	NBundleCnt    int
	OpeningMin    float64
	OpeningCnt    int
	LevelMin      int
	LevelMax      int
	Criterion     string
	Seed          int64
	Allocation    int
	AMin          float64

	// Physical constants.
	Mpc       float64
	RhoCH2    float64
	LBoxMpcH0 float64
	H         float64
	OmegaM    float64
	MassMSun  float64

	// Selectors.
	Interpolation Interpolation
	Statistic     Statistic
}

// Load reads a key=value parameter file. Blank lines and lines whose
// first non-space character is '#' are ignored, as are keys outside
// the recognised families listed in spec.md §6 — a run's parameter
// file is not a strict schema.
func Load(path string) (*Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("paramfile: opening %s: %w", path, err)
	}
	defer f.Close()

	p := &Params{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("paramfile: %s:%d: not a key=value line: %q", path, lineNo, line)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if err := p.set(key, value); err != nil {
			return nil, fmt.Errorf("paramfile: %s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("paramfile: reading %s: %w", path, err)
	}
	return p, nil
}

func (p *Params) set(key, value string) error {
	switch key {
	case "propagation":
		return p.setBool(&p.Propagation, value)
	case "homogeneous":
		return p.setBool(&p.Homogeneous, value)
	case "schwarzschild":
		return p.setBool(&p.Schwarzschild, value)
	case "test":
		return p.setBool(&p.Test, value)
	case "visualization":
		return p.setBool(&p.Visualization, value)

	case "cubedir":
		p.CubeDir = value
	case "conedir":
		p.ConeDir = value
	case "outputdir":
		p.OutputDir = value
	case "paramfile":
		p.ParamFile = value
	case "evolfile":
		p.EvolFile = value

	case "cubefmt":
		p.CubeFmt = value
	case "conefmt":
		p.ConeFmt = value
	case "outputprefix":
		p.OutputPrefix = value
	case "outputsuffix":
		p.OutputSuffix = value
	case "outputsep":
		p.OutputSep = value

	case "ncones":
		return p.setInt(&p.NCones, value)
	case "ntrajectories":
		return p.setInt(&p.NTrajectories, value)
	case "nsteps":
		return p.setInt(&p.NSteps, value)
	case "ncoarse":
		return p.setInt(&p.NCoarse, value)
	case "nreference":
		return p.setInt(&p.NReference, value)
	case "nbundlemin":
		return p.setInt(&p.NBundleMin, value)
	case "nbundlecnt":
		return p.setInt(&p.NBundleCnt, value)
	case "openingmin":
		return p.setFloat(&p.OpeningMin, value)
	case "openingcnt":
		return p.setInt(&p.OpeningCnt, value)
	case "levelmin":
		return p.setInt(&p.LevelMin, value)
	case "levelmax":
		return p.setInt(&p.LevelMax, value)
	case "criterion":
		p.Criterion = value
	case "seed":
		return p.setInt64(&p.Seed, value)
	case "allocation":
		return p.setInt(&p.Allocation, value)
	case "amin":
		return p.setFloat(&p.AMin, value)

	case "mpc":
		return p.setFloat(&p.Mpc, value)
	case "rhoch2":
		return p.setFloat(&p.RhoCH2, value)
	case "lboxmpch0":
		return p.setFloat(&p.LBoxMpcH0, value)
	case "h":
		return p.setFloat(&p.H, value)
	case "omegam":
		return p.setFloat(&p.OmegaM, value)
	case "massmsun":
		return p.setFloat(&p.MassMSun, value)

	case "interpolation":
		sel := Interpolation(value)
		switch sel {
		case InterpolationRedshift, InterpolationScaleFactor, InterpolationTime, InterpolationRadius, InterpolationAll:
			p.Interpolation = sel
		default:
			return fmt.Errorf("unrecognised interpolation selector %q", value)
		}
	case "statistic":
		sel := Statistic(value)
		switch sel {
		case StatisticDistance, StatisticDistance2, StatisticHomogeneous, StatisticInhomogeneous, StatisticAll:
			p.Statistic = sel
		default:
			return fmt.Errorf("unrecognised statistic selector %q", value)
		}
	}
	// Unrecognised keys are silently ignored: spec.md §6 states there
	// is no strict schema.
	return nil
}

func (p *Params) setBool(dst *bool, value string) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean %q: %w", value, err)
	}
	*dst = v
	return nil
}

func (p *Params) setInt(dst *int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", value, err)
	}
	*dst = v
	return nil
}

func (p *Params) setInt64(dst *int64, value string) error {
	v, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", value, err)
	}
	*dst = v
	return nil
}

func (p *Params) setFloat(dst *float64, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid float %q: %w", value, err)
	}
	*dst = v
	return nil
}
