package opt

import (
	"fmt"
	"time"

	"github.com/rttri/PoWER/pkg/miqp"
)

// SoftStop is an early-termination heuristic for batch sweeps: once the
// warm-up period has passed, the search stops as soon as the runtime
// exceeds After while the gap is already below Gap, accepting a
// near-optimal incumbent instead of burning the full time budget.
type SoftStop struct {
	Warmup time.Duration
	After  time.Duration
	Gap    float64
}

// DefaultSoftStop mirrors the reference stopping heuristic: 10s warm-up,
// stop past 20s under a 5% gap.
func DefaultSoftStop() SoftStop {
	return SoftStop{Warmup: 10 * time.Second, After: 20 * time.Second, Gap: 0.05}
}

func (s SoftStop) callback() func(miqp.Progress) bool {
	return func(p miqp.Progress) bool {
		if p.Runtime < s.Warmup {
			return false
		}
		return p.Runtime > s.After && p.Gap < s.Gap
	}
}

// SolveOptions configures the solve of a built problem.
type SolveOptions struct {
	// TimeLimit caps wall-clock time; 600s when zero.
	TimeLimit time.Duration
	// RelGap is the relative optimality gap tolerance; 0.5% when zero.
	RelGap float64
	// Soft enables the soft early-termination heuristic.
	Soft *SoftStop
	// Solver overrides the backend; the automatic selection when nil.
	Solver miqp.Solver
	// IISPath, when set, receives the infeasibility report if the model
	// has no solution.
	IISPath string
	// Seed fixes the random stream of stochastic backends.
	Seed int64
}

// Result is the structured outcome of one optimization run. A run that
// found no solution has Feasible false and empty vectors; that is a valid
// outcome, not an error.
type Result struct {
	Status miqp.Status

	// Optimal is false when the incumbent was accepted at the time limit
	// or via early termination.
	Optimal  bool
	Feasible bool

	Objective float64
	Between   float64
	Within    float64

	// Vectors aligned to zone order.
	Added         []float64
	EquivalentCap []float64
	Indicator     []float64

	// Values maps every model variable name to its solution value.
	Values map[string]float64

	// IISNote is set when a requested infeasibility report could not be
	// produced, so an absent report file is distinguishable from one that
	// was never attempted.
	IISNote string `json:",omitempty"`
}

// Solve runs the configured backend on the model, classifies the outcome,
// and extracts the named variable groups. Infeasibility produces an IIS
// report and a no-solution result rather than an error.
func (p *Problem) Solve(opts SolveOptions) (*Result, error) {
	solver := opts.Solver
	if solver == nil {
		solver = miqp.Auto()
	}

	mopts := miqp.Options{
		TimeLimit: opts.TimeLimit,
		RelGap:    opts.RelGap,
		Seed:      opts.Seed,
	}
	if opts.Soft != nil {
		mopts.Callback = opts.Soft.callback()
	}

	sol, err := solver.Solve(p.Model, mopts)
	if err != nil {
		return nil, fmt.Errorf("solving %s: %w", p.Model.Name(), err)
	}

	if sol.IsInfeasible() {
		res := &Result{Status: sol.Status}
		if opts.IISPath != "" {
			report, iisErr := miqp.ComputeIIS(p.Model)
			if iisErr != nil {
				res.IISNote = fmt.Sprintf("infeasibility report skipped: %v", iisErr)
			} else if writeErr := report.WriteFile(opts.IISPath); writeErr != nil {
				return nil, fmt.Errorf("writing infeasibility report: %w", writeErr)
			}
		}
		return res, nil
	}
	if !sol.HasSolution() {
		return &Result{Status: sol.Status}, nil
	}

	n := len(p.x)
	res := &Result{
		Status:        sol.Status,
		Optimal:       sol.IsOptimal(),
		Feasible:      true,
		Objective:     sol.Objective,
		Between:       sol.Value(p.objBetween),
		Within:        sol.Value(p.objWithin),
		Added:         make([]float64, n),
		EquivalentCap: make([]float64, n),
		Indicator:     make([]float64, n),
		Values:        sol.ByName(),
	}
	for i := 0; i < n; i++ {
		res.Added[i] = sol.Value(p.x[i])
		res.EquivalentCap[i] = sol.Value(p.charEq[i])
		res.Indicator[i] = sol.Value(p.xi[i])
	}
	return res, nil
}
