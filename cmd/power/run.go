package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rttri/PoWER/pkg/disparity"
	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/opt"
	"github.com/rttri/PoWER/pkg/region"
	"github.com/rttri/PoWER/pkg/sweep"
	"github.com/rttri/PoWER/pkg/validation"
)

type evaluateOptions struct {
	indicator string
	group     string
	disparity string
	all       bool
}

type optimizeOptions struct {
	indicator   string
	group       string
	disparity   string
	budget      float64
	weight      float64
	exclusivity float64
	timeLimit   float64
	iisPath     string
	jsonOut     bool
}

type sweepOptions struct {
	noProgress bool
	seed       int64
}

// loadDataset loads the project's run.yaml and binds its input tables.
func loadDataset(projectPath string) (*sweep.Config, *equity.Dataset, error) {
	cfg, err := sweep.LoadProject(projectPath)
	if err != nil {
		return nil, nil, err
	}
	ds, err := cfg.LoadDataset()
	if err != nil {
		return nil, nil, fmt.Errorf("loading dataset: %w", err)
	}
	return cfg, ds, nil
}

func runValidate(projectPath string) error {
	_, ds, err := loadDataset(projectPath)
	if err != nil {
		return err
	}

	report := validation.ValidateAll(ds)
	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runEvaluate(projectPath string, opts evaluateOptions) error {
	_, ds, err := loadDataset(projectPath)
	if err != nil {
		return err
	}

	attr, err := region.ParseAttribute(opts.group)
	if err != nil {
		return err
	}
	index, err := disparity.Parse(opts.disparity)
	if err != nil {
		return err
	}

	ev := equity.NewEvaluator(ds)

	indicators := []equity.Indicator{}
	if opts.all {
		indicators = append(indicators, equity.Indicators()...)
		indicators = append(indicators, equity.EquivalentIndicators()...)
	} else {
		ind, err := equity.ParseIndicator(opts.indicator)
		if err != nil {
			return err
		}
		indicators = append(indicators, ind)
	}

	for _, ind := range indicators {
		var inter float64
		var intra []equity.GroupScore
		if ind.IsEquivalent() {
			inter, intra, err = ev.ComputeEquityEquivalent(ind, attr, index)
		} else {
			inter, intra, err = ev.ComputeEquity(ind, attr, index)
		}
		if err != nil {
			return err
		}
		printEquityScores(ind, attr, index, inter, intra)
	}
	return nil
}

func runOptimize(projectPath string, opts optimizeOptions) error {
	_, ds, err := loadDataset(projectPath)
	if err != nil {
		return err
	}

	report := validation.ValidateAll(ds)
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("dataset has validation errors")
	}

	ind, err := equity.ParseIndicator(opts.indicator)
	if err != nil {
		return err
	}
	attr, err := region.ParseAttribute(opts.group)
	if err != nil {
		return err
	}
	index, err := disparity.Parse(opts.disparity)
	if err != nil {
		return err
	}

	problem, err := opt.Build(ds, opt.Config{
		Indicator:         ind,
		Group:             attr,
		Disparity:         index,
		MaxAddCapacity:    opts.budget,
		BetweenWeight:     opts.weight,
		ExclusivityFactor: opts.exclusivity,
	})
	if err != nil {
		return err
	}

	res, err := problem.Solve(opt.SolveOptions{
		TimeLimit: time.Duration(opts.timeLimit * float64(time.Second)),
		IISPath:   opts.iisPath,
	})
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printOptimizeResult(ds, res)
	if !res.Feasible && opts.iisPath != "" {
		if res.IISNote != "" {
			fmt.Println(res.IISNote)
		} else {
			fmt.Printf("Infeasibility report written to %s\n", opts.iisPath)
		}
	}
	return nil
}

func runSweep(projectPath string, opts sweepOptions) error {
	cfg, ds, err := loadDataset(projectPath)
	if err != nil {
		return err
	}

	report := validation.ValidateAll(ds)
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("dataset has validation errors")
	}

	summary, err := sweep.Run(cfg, ds, sweep.RunOptions{
		Progress: !opts.noProgress,
		Seed:     opts.seed,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Sweep %s: %d tuples, %d feasible, %d infeasible\n",
		summary.Manifest.RunID, summary.Tuples, summary.Feasible, summary.Infeasible)
	fmt.Printf("Results in %s\n", cfg.OutputDir)
	return nil
}
