package driver

import (
	"context"
	"log"
	"runtime"
	"sync"

	"github.com/banshee-data/raygeo/internal/bundle"
	"github.com/banshee-data/raygeo/internal/config"
	"github.com/banshee-data/raygeo/internal/geodesic"
	"github.com/google/uuid"
)

// RunConfig is the rank-local work this driver carries out: a central
// ray per launch direction, each propagated as a bundle.
type RunConfig struct {
	Stepper *geodesic.Stepper
	Tuning  *config.TuningConfig
	Ring    bundle.Ring
	By      bundle.Abscissa

	// AMin is threaded into every bundle's Bundler.AMin (the
	// parameter file's `amin` floor, spec.md §6); zero disables the
	// rejection check.
	AMin float64

	Directions [][3]float64
	Position   [3]float64
	T0         float64

	// Workers bounds the goroutine pool; zero selects GOMAXPROCS.
	Workers int
}

// BundleOutcome is one ray's propagated result, tagged with its
// position in the Directions slice so results can be matched back up
// after an unordered fan-in.
type BundleOutcome struct {
	Index  int
	Result bundle.Result
}

// RunID tags one driver invocation for statsdb persistence and log
// correlation, mirroring the teacher's analysis_run_manager.go
// run-tagging.
type RunID string

// NewRunID mints a fresh run identifier.
func NewRunID() RunID { return RunID(uuid.New().String()) }

// Run fans cfg.Directions out across a bounded worker pool, launching
// and propagating a bundle per direction, and returns every outcome
// in directions order. It stops early and returns ctx.Err() if ctx is
// cancelled.
func Run(ctx context.Context, id RunID, cfg RunConfig) ([]BundleOutcome, error) {
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	jobs := make(chan int)
	results := make([]BundleOutcome, len(cfg.Directions))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b := &bundle.Bundler{Stepper: cfg.Stepper, By: cfg.By, Config: cfg.Tuning, AMin: cfg.AMin}
			for {
				select {
				case <-ctx.Done():
					return
				case i, ok := <-jobs:
					if !ok {
						return
					}
					center := InitialPhoton(cfg.Position, cfg.Directions[i], cfg.T0)
					results[i] = BundleOutcome{Index: i, Result: b.Propagate(center, cfg.Ring)}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range cfg.Directions {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rejected := 0
	for _, r := range results {
		if r.Result.Rejected {
			rejected++
		}
	}
	if rejected > 0 {
		log.Printf("run %s: %d/%d bundles rejected", id, rejected, len(results))
	}

	return results, nil
}
