package miqp

import (
	"math"
	"math/rand"
	"time"
)

// SearchSolver is a penalized multi-start coordinate search for models with
// nonconvex quadratic parts, where no exact backend is available. It
// minimizes the objective plus a quadratic penalty on constraint violation,
// shrinking coordinate steps until the maximum relative step falls below
// the gap tolerance from Options. Optimality is reported to that tolerance,
// not proved.
type SearchSolver struct {
	// Restarts is the number of random starting points; 8 when zero.
	Restarts int
	// Penalty weights constraint violations in the merit function; 1e6
	// when zero.
	Penalty float64
	// StepTol floors the convergence threshold so a zero or extreme
	// Options.RelGap cannot spin the search forever; 1e-9 when zero.
	StepTol float64

	// FeasTol classifies the final point as feasible; 1e-6 when zero.
	FeasTol float64
}

func (s SearchSolver) restarts() int {
	if s.Restarts <= 0 {
		return 8
	}
	return s.Restarts
}

func (s SearchSolver) penalty() float64 {
	if s.Penalty <= 0 {
		return 1e6
	}
	return s.Penalty
}

func (s SearchSolver) stepTol() float64 {
	if s.StepTol <= 0 {
		return 1e-9
	}
	return s.StepTol
}

func (s SearchSolver) feasTol() float64 {
	if s.FeasTol <= 0 {
		return 1e-6
	}
	return s.FeasTol
}

// Search box fallback for unbounded variables.
const searchBound = 1e6

// Solve runs the search until convergence, time limit, or callback stop.
func (s SearchSolver) Solve(m *Model, opts Options) (*Solution, error) {
	n := m.NumVars()
	lo := make([]float64, n)
	hi := make([]float64, n)
	for i := 0; i < n; i++ {
		lo[i] = math.Max(m.lb[i], -searchBound)
		hi[i] = math.Min(m.ub[i], searchBound)
	}

	merit := func(x []float64) float64 {
		val := m.EvalQuad(m.obj, x)
		for _, c := range m.constrs {
			v := violation(m.EvalLin(c.Expr, x), c.Sense, c.RHS)
			val += s.penalty() * v * v
		}
		for _, c := range m.qconstrs {
			v := violation(m.EvalQuad(c.Expr, x), c.Sense, c.RHS)
			val += s.penalty() * v * v
		}
		return val
	}

	rng := rand.New(rand.NewSource(opts.Seed + 1))
	start := time.Now()
	deadline := start.Add(opts.timeLimit())

	// The relative coordinate step stands in for the optimality gap, so the
	// configured gap tolerance is the convergence threshold.
	stopTol := math.Max(opts.relGap(), s.stepTol())

	var best []float64
	bestMerit := math.Inf(1)
	status := StatusOptimal

	for restart := 0; restart < s.restarts(); restart++ {
		x := make([]float64, n)
		for i := 0; i < n; i++ {
			if restart == 0 {
				x[i] = clamp(0, lo[i], hi[i])
			} else {
				x[i] = lo[i] + rng.Float64()*(hi[i]-lo[i])
			}
		}

		step := make([]float64, n)
		for i := 0; i < n; i++ {
			step[i] = (hi[i] - lo[i]) / 10
			if step[i] <= 0 {
				step[i] = 1
			}
		}

		cur := merit(x)
		for {
			if time.Now().After(deadline) {
				status = StatusTimeLimit
				break
			}

			improved := false
			for i := 0; i < n; i++ {
				orig := x[i]
				for _, cand := range [2]float64{clamp(orig+step[i], lo[i], hi[i]), clamp(orig-step[i], lo[i], hi[i])} {
					if cand == orig {
						continue
					}
					x[i] = cand
					if v := merit(x); v < cur {
						cur = v
						orig = cand
						improved = true
					} else {
						x[i] = orig
					}
				}
			}

			if !improved {
				for i := 0; i < n; i++ {
					step[i] *= 0.5
				}
			}
			maxRel := 0.0
			for i := 0; i < n; i++ {
				maxRel = math.Max(maxRel, step[i]/math.Max(1, math.Abs(x[i])))
			}
			if maxRel < stopTol {
				break
			}

			if opts.Callback != nil {
				inc := math.Min(cur, bestMerit)
				gap := maxRel
				prog := Progress{
					Runtime:   time.Since(start),
					Incumbent: inc,
					Bound:     inc - math.Abs(inc)*gap,
					Gap:       gap,
				}
				if opts.Callback(prog) {
					status = StatusInterrupted
					break
				}
			}
		}

		if cur < bestMerit {
			bestMerit = cur
			best = append(best[:0], x...)
		}
		if status != StatusOptimal {
			break
		}
	}

	if best == nil {
		return newSolution(m, StatusNoSolution, 0, nil), nil
	}

	scale := 1.0
	for i := range best {
		scale = math.Max(scale, math.Abs(best[i]))
	}
	if m.MaxViolation(best) > s.feasTol()*scale {
		// The search never reached the feasible region; without a proof of
		// infeasibility the outcome is reported as no solution.
		return newSolution(m, StatusNoSolution, 0, nil), nil
	}

	return newSolution(m, status, m.EvalQuad(m.obj, best), best), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
