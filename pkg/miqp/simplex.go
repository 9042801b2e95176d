package miqp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// SimplexSolver solves purely linear models exactly with the simplex
// method. Models with quadratic constraints or objective are rejected.
type SimplexSolver struct {
	// Tol is the simplex pivot tolerance; a small default is used when zero.
	Tol float64
}

func (s SimplexSolver) tol() float64 {
	if s.Tol <= 0 {
		return 1e-7
	}
	return s.Tol
}

// Solve converts the model to general LP form and runs the simplex method.
// Infeasibility and unboundedness are reported through the solution status
// rather than as errors. The solve runs to completion in one shot, so the
// progress callback is never invoked.
func (s SimplexSolver) Solve(m *Model, opts Options) (*Solution, error) {
	if !m.IsLinear() {
		return nil, fmt.Errorf("simplex backend: %w", ErrNotLinear)
	}

	n := m.NumVars()
	c := make([]float64, n)
	for _, t := range m.obj.Lin.terms {
		c[t.v.id] += t.coef
	}

	var ineqRows [][]float64
	var ineqRHS []float64
	var eqRows [][]float64
	var eqRHS []float64

	addRow := func(e LinExpr, sense Sense, rhs float64) {
		row := make([]float64, n)
		for _, t := range e.terms {
			row[t.v.id] += t.coef
		}
		b := rhs - e.offset
		switch sense {
		case LessEqual:
			ineqRows = append(ineqRows, row)
			ineqRHS = append(ineqRHS, b)
		case GreaterEqual:
			for i := range row {
				row[i] = -row[i]
			}
			ineqRows = append(ineqRows, row)
			ineqRHS = append(ineqRHS, -b)
		default:
			eqRows = append(eqRows, row)
			eqRHS = append(eqRHS, b)
		}
	}

	for _, con := range m.constrs {
		addRow(con.Expr, con.Sense, con.RHS)
	}

	// Variable bounds become inequality rows; the standard-form conversion
	// otherwise treats every variable as free.
	for i := 0; i < n; i++ {
		if !math.IsInf(m.ub[i], 1) {
			row := make([]float64, n)
			row[i] = 1
			ineqRows = append(ineqRows, row)
			ineqRHS = append(ineqRHS, m.ub[i])
		}
		if !math.IsInf(m.lb[i], -1) {
			row := make([]float64, n)
			row[i] = -1
			ineqRows = append(ineqRows, row)
			ineqRHS = append(ineqRHS, -m.lb[i])
		}
	}

	var g mat.Matrix
	if len(ineqRows) > 0 {
		g = denseFromRows(ineqRows, n)
	}
	var a mat.Matrix
	if len(eqRows) > 0 {
		a = denseFromRows(eqRows, n)
	}

	cStd, aStd, bStd := lp.Convert(c, g, ineqRHS, a, eqRHS)
	opt, xStd, err := lp.Simplex(cStd, aStd, bStd, s.tol(), nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return newSolution(m, StatusInfeasible, 0, nil), nil
	case errors.Is(err, lp.ErrUnbounded):
		return newSolution(m, StatusUnbounded, 0, nil), nil
	case err != nil:
		return nil, fmt.Errorf("simplex backend: %w", err)
	}

	// Standard form splits each free variable into positive and negative
	// parts: x_i = xStd[i] - xStd[n+i].
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = xStd[i] - xStd[n+i]
	}

	return newSolution(m, StatusOptimal, opt+m.obj.Lin.offset, x), nil
}

func denseFromRows(rows [][]float64, n int) *mat.Dense {
	d := mat.NewDense(len(rows), n, nil)
	for i, row := range rows {
		d.SetRow(i, row)
	}
	return d
}
