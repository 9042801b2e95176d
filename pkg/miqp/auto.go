package miqp

// autoSolver routes linear models to the exact simplex backend and
// everything else to the search backend.
type autoSolver struct {
	simplex SimplexSolver
	search  SearchSolver
}

// Auto returns the default backend selection: simplex for purely linear
// models, penalized coordinate search otherwise.
func Auto() Solver {
	return autoSolver{}
}

func (a autoSolver) Solve(m *Model, opts Options) (*Solution, error) {
	if m.IsLinear() {
		return a.simplex.Solve(m, opts)
	}
	return a.search.Solve(m, opts)
}
