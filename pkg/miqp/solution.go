package miqp

import "time"

// Status indicates the outcome of a solve.
type Status int

const (
	// StatusNoSolution means the backend finished without a usable point.
	StatusNoSolution Status = iota
	// StatusOptimal means the returned point is optimal to the backend's
	// tolerance.
	StatusOptimal
	// StatusInfeasible means the constraints admit no solution.
	StatusInfeasible
	// StatusUnbounded means the objective can decrease without limit.
	StatusUnbounded
	// StatusTimeLimit means the time limit elapsed with an incumbent.
	StatusTimeLimit
	// StatusInterrupted means a callback terminated the search early with
	// an incumbent.
	StatusInterrupted
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time_limit"
	case StatusInterrupted:
		return "interrupted"
	}
	return "no_solution"
}

// Solution contains the results from solving a model.
type Solution struct {
	Status    Status
	Objective float64

	model  *Model
	values []float64
}

// newSolution binds values to the model that produced them.
func newSolution(m *Model, status Status, objective float64, values []float64) *Solution {
	return &Solution{Status: status, Objective: objective, model: m, values: values}
}

// HasSolution reports whether variable values are available.
func (s *Solution) HasSolution() bool {
	return s.values != nil &&
		(s.Status == StatusOptimal || s.Status == StatusTimeLimit || s.Status == StatusInterrupted)
}

// IsOptimal reports whether the solve proved optimality.
func (s *Solution) IsOptimal() bool { return s.Status == StatusOptimal }

// IsInfeasible reports whether the model admits no solution.
func (s *Solution) IsInfeasible() bool { return s.Status == StatusInfeasible }

// IsTimeLimit reports whether the solve stopped on the time limit.
func (s *Solution) IsTimeLimit() bool { return s.Status == StatusTimeLimit }

// Value returns the solution value of a variable, or 0 when no solution is
// available.
func (s *Solution) Value(v Var) float64 {
	if s.values == nil || v.id >= len(s.values) {
		return 0
	}
	return s.values[v.id]
}

// ByName returns the full variable-name-to-value mapping.
func (s *Solution) ByName() map[string]float64 {
	if s.values == nil {
		return nil
	}
	out := make(map[string]float64, len(s.values))
	for i, v := range s.values {
		out[s.model.names[i]] = v
	}
	return out
}

// Progress is a snapshot passed to solve callbacks.
type Progress struct {
	Runtime   time.Duration
	Incumbent float64
	Bound     float64
	Gap       float64
}

// Default stopping criteria.
const (
	DefaultTimeLimit = 600 * time.Second
	DefaultRelGap    = 0.005
)

// Options configures a solve.
type Options struct {
	// TimeLimit caps wall-clock time; DefaultTimeLimit when zero.
	TimeLimit time.Duration
	// RelGap is the relative optimality gap tolerance; DefaultRelGap when
	// zero.
	RelGap float64
	// Callback, when set, is invoked periodically during the search.
	// Returning true terminates the solve with the current incumbent.
	Callback func(Progress) bool
	// Seed fixes the random stream of stochastic backends.
	Seed int64
}

func (o Options) timeLimit() time.Duration {
	if o.TimeLimit <= 0 {
		return DefaultTimeLimit
	}
	return o.TimeLimit
}

func (o Options) relGap() float64 {
	if o.RelGap <= 0 {
		return DefaultRelGap
	}
	return o.RelGap
}

// Solver is a solving backend for models.
type Solver interface {
	Solve(m *Model, opts Options) (*Solution, error)
}
