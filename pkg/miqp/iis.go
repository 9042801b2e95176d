package miqp

import (
	"fmt"
	"os"
	"strings"
)

// IISReport lists an irreducible infeasible subsystem of a linear model:
// a set of constraints that is infeasible but becomes feasible if any one
// member is removed.
type IISReport struct {
	Model       string
	Constraints []string
}

// String renders the report one constraint per line.
func (r *IISReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "model %s: irreducible infeasible subsystem (%d constraints)\n",
		r.Model, len(r.Constraints))
	for _, c := range r.Constraints {
		fmt.Fprintf(&b, "  %s\n", c)
	}
	return b.String()
}

// WriteFile persists the report.
func (r *IISReport) WriteFile(path string) error {
	return os.WriteFile(path, []byte(r.String()), 0o644)
}

// ComputeIIS runs a deletion filter over the linear constraints of an
// infeasible model: each constraint is tentatively dropped, and is removed
// permanently when the remainder stays infeasible. Only linear models are
// supported.
func ComputeIIS(m *Model) (*IISReport, error) {
	if !m.IsLinear() {
		return nil, fmt.Errorf("iis: %w", ErrNotLinear)
	}

	active := make([]bool, len(m.constrs))
	for i := range active {
		active[i] = true
	}

	if feasibleSubset(m, active) {
		return nil, fmt.Errorf("iis: model %s is feasible", m.name)
	}

	for i := range m.constrs {
		active[i] = false
		if feasibleSubset(m, active) {
			// Dropping it restores feasibility, so it belongs to the IIS.
			active[i] = true
		}
	}

	report := &IISReport{Model: m.name}
	for i, c := range m.constrs {
		if active[i] {
			report.Constraints = append(report.Constraints,
				fmt.Sprintf("%s: %s %g", c.Name, c.Sense, c.RHS))
		}
	}
	return report, nil
}

// feasibleSubset solves a zero-objective copy of the model restricted to
// the active constraints.
func feasibleSubset(m *Model, active []bool) bool {
	sub := NewModel(m.name + "_feas")
	sub.names = m.names
	sub.lb = m.lb
	sub.ub = m.ub
	for i, c := range m.constrs {
		if active[i] {
			sub.constrs = append(sub.constrs, c)
		}
	}

	sol, err := SimplexSolver{}.Solve(sub, Options{})
	if err != nil {
		return false
	}
	return !sol.IsInfeasible()
}
