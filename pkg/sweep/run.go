package sweep

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/cheggaaa/pb.v1"

	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/opt"
)

// Summary reports how a sweep went overall.
type Summary struct {
	Manifest   *Manifest
	Tuples     int
	Feasible   int
	Infeasible int
}

// RunOptions tunes a sweep run.
type RunOptions struct {
	// Progress draws a terminal progress bar over the tuple loop.
	Progress bool
	// Seed fixes the random stream of stochastic solver backends.
	Seed int64
}

// Run executes the full sweep: expand the tuples, build and solve a fresh
// model per tuple, persist one record per tuple, and finish with the
// manifest. Infeasible tuples are recorded and the sweep continues.
func Run(cfg *Config, ds *equity.Dataset, opts RunOptions) (*Summary, error) {
	tuples, err := cfg.Tuples()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output dir: %w", err)
	}

	zoneIDs := make([]string, ds.Table.Len())
	for i, z := range ds.Table.Zones {
		zoneIDs[i] = z.ID
	}

	manifest := newManifest(cfg)
	manifest.Tuples = len(tuples)

	var bar *pb.ProgressBar
	if opts.Progress {
		bar = pb.StartNew(len(tuples))
	}
	defer func() {
		if bar != nil {
			bar.Finish()
		}
	}()

	for _, p := range tuples {
		rec, err := runOne(cfg, ds, p, zoneIDs, opts.Seed)
		if err != nil {
			return nil, fmt.Errorf("tuple %s: %w", p.Key(), err)
		}

		path, err := rec.Write(cfg.OutputDir, p)
		if err != nil {
			return nil, err
		}
		manifest.Files = append(manifest.Files, path)
		if rec.Feasible {
			manifest.Feasible++
		} else {
			manifest.Infeasible++
			log.Printf("sweep: %s infeasible (%s)", p.Key(), rec.Status)
		}

		if bar != nil {
			bar.Increment()
		}
	}

	manifest.FinishedAt = time.Now().UTC()
	if err := manifest.Write(cfg.OutputDir); err != nil {
		return nil, err
	}

	return &Summary{
		Manifest:   manifest,
		Tuples:     len(tuples),
		Feasible:   manifest.Feasible,
		Infeasible: manifest.Infeasible,
	}, nil
}

// runOne builds and solves the model for a single tuple. Models are never
// reused across tuples so a failed solve cannot poison the next one.
func runOne(cfg *Config, ds *equity.Dataset, p Params, zoneIDs []string, seed int64) (Record, error) {
	start := time.Now()

	problem, err := opt.Build(ds, p.Config())
	if err != nil {
		return Record{}, err
	}

	sopts := opt.SolveOptions{
		TimeLimit: cfg.TimeLimit(),
		RelGap:    cfg.RelGap,
		Seed:      seed,
	}
	if cfg.SoftStop {
		soft := opt.DefaultSoftStop()
		sopts.Soft = &soft
	}

	res, err := problem.Solve(sopts)
	if err != nil {
		return Record{}, err
	}
	return NewRecord(p, res, zoneIDs, time.Since(start)), nil
}
