package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/banshee-data/raygeo/internal/bundle"
	"github.com/banshee-data/raygeo/internal/config"
	"github.com/banshee-data/raygeo/internal/cubeio"
	"github.com/banshee-data/raygeo/internal/driver"
	"github.com/banshee-data/raygeo/internal/octidx"
	"github.com/banshee-data/raygeo/internal/octree"
	"github.com/banshee-data/raygeo/internal/paramfile"
	"github.com/banshee-data/raygeo/internal/payload"
	"github.com/banshee-data/raygeo/internal/statsdb"
)

var (
	paramPath   = flag.String("params", "", "path to the run's key=value parameter file (required)")
	coneIndex   = flag.Int("cone", 0, "cone index to propagate, expanded into conefmt/cubefmt")
	workers     = flag.Int("workers", 0, "worker pool size (default: GOMAXPROCS)")
	tuningPath  = flag.String("tuning", "", "optional JSON tuning config (caustic ratio threshold, RK4 substeps, ...)")
	statsDBPath = flag.String("statsdb", "", "optional SQLite database path to persist run metadata and statistics into")
)

func main() {
	flag.Parse()

	if *paramPath == "" {
		log.Fatal("-params is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("raygeo: %v", err)
	}
}

func run(ctx context.Context) error {
	params, err := paramfile.Load(*paramPath)
	if err != nil {
		return err
	}

	cosmo, err := loadCosmology(params.EvolFile)
	if err != nil {
		return err
	}

	cubePath := cubeio.ConePath(filepath.Join(params.ConeDir, params.ConeFmt), *coneIndex)
	records, err := cubeio.ReadCube(cubePath)
	if err != nil {
		return fmt.Errorf("loading cube %s: %w", cubePath, err)
	}

	tree := octree.New[payload.Gravity](
		[octidx.Dimension]float64{0, 0, 0},
		[octidx.Dimension]float64{1, 1, 1},
	)
	for _, e := range cubeio.ToGravityElements(records, 1.0) {
		tree.Append(e)
	}
	tree.Update()

	stepper, err := driver.BuildStepper(tree, cosmo, params)
	if err != nil {
		return err
	}

	tuning := config.EmptyTuningConfig()
	if *tuningPath != "" {
		tuning, err = config.LoadTuningConfig(*tuningPath)
		if err != nil {
			return err
		}
	}

	id := driver.NewRunID()
	startedAt := time.Now()
	log.Printf("run %s: propagating %d trajectories through cone %d", id, params.NTrajectories, *coneIndex)

	directions := driver.LaunchDirections(params.NTrajectories, params.Seed)
	cfg := driver.RunConfig{
		Stepper: stepper,
		Tuning:  tuning,
		AMin:    params.AMin,
		Ring: bundle.Ring{
			Count: params.NBundleCnt,
			Angle: params.OpeningMin,
		},
		By:         abscissaFor(params.Interpolation),
		Directions: directions,
		Position:   [3]float64{0.5, 0.5, 0.5},
		T0:         cosmo.T[len(cosmo.T)-1],
		Workers:    *workers,
	}

	outcomes, err := driver.Run(ctx, id, cfg)
	if err != nil {
		return fmt.Errorf("run %s: %w", id, err)
	}

	redshifts := make([]float64, params.NCoarse)
	for i := range redshifts {
		redshifts[i] = float64(i) / float64(max(1, params.NCoarse-1))
	}
	rows, _ := driver.ReduceStatistics(outcomes, nil, redshifts)

	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", params.OutputDir, err)
	}

	statsPath := filepath.Join(params.OutputDir, params.OutputPrefix+"statistics"+params.OutputSuffix)
	statsFile, err := os.Create(statsPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", statsPath, err)
	}
	defer statsFile.Close()
	if err := writeStatistics(statsFile, rows); err != nil {
		return err
	}

	for i, o := range outcomes {
		if o.Result.Rejected {
			continue
		}
		path := filepath.Join(params.OutputDir, fmt.Sprintf("%strajectory_%06d%s", params.OutputPrefix, i, params.OutputSuffix))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		err = writeTrajectory(f, o.Result.Central)
		f.Close()
		if err != nil {
			return err
		}
	}

	if *statsDBPath != "" {
		db, err := statsdb.NewDB(*statsDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.MigrateUp(); err != nil {
			return err
		}
		if err := db.InsertRun(statsdb.RunMeta{
			RunID:         string(id),
			ParamFile:     *paramPath,
			Mode:          string(params.Interpolation),
			Seed:          params.Seed,
			NTrajectories: params.NTrajectories,
			StartedAt:     startedAt,
		}); err != nil {
			return err
		}
		dbRows := make([]statsdb.StatRow, len(rows))
		for i, r := range rows {
			dbRows[i] = statsdb.StatRow{
				Redshift:             r.Redshift,
				ReferenceHomogeneous: r.ReferenceHomogeneous,
				InhomogeneousMean:    r.InhomogeneousMean,
				InhomogeneousStd:     r.InhomogeneousStd,
			}
		}
		if err := db.InsertStatRows(string(id), dbRows); err != nil {
			return err
		}
	}

	log.Printf("run %s: complete", id)
	return nil
}

func abscissaFor(sel paramfile.Interpolation) bundle.Abscissa {
	switch sel {
	case paramfile.InterpolationScaleFactor:
		return bundle.ByScaleFactor
	case paramfile.InterpolationTime:
		return bundle.ByTime
	case paramfile.InterpolationRadius:
		return bundle.ByRadius
	default:
		return bundle.ByRedshift
	}
}
