package miqp

import (
	"math"
	"testing"
)

func TestExprEval(t *testing.T) {
	m := NewModel("eval")
	x := m.AddVar(0, 10, "x")
	y := m.AddVar(0, 10, "y")

	var e LinExpr
	e.Add(x, 2).Add(y, -1).AddConst(3)
	if got := m.EvalLin(e, []float64{4, 5}); got != 6 {
		t.Errorf("EvalLin = %g, want 6", got)
	}

	var other LinExpr
	other.Add(x, 1).AddConst(1)
	e.AddExpr(other, 2)
	if got := m.EvalLin(e, []float64{4, 5}); got != 16 {
		t.Errorf("EvalLin after AddExpr = %g, want 16", got)
	}

	var q QuadExpr
	q.Lin.Add(x, 1)
	q.AddQuad(x, y, 0.5)
	if got := m.EvalQuad(q, []float64{4, 5}); got != 14 {
		t.Errorf("EvalQuad = %g, want 14", got)
	}
	if q.IsLinear() {
		t.Error("expression with quadratic term reported linear")
	}
}

func TestSum(t *testing.T) {
	m := NewModel("sum")
	vars := m.AddVars(3, 0, 1, "v")
	e := Sum(vars)
	if got := m.EvalLin(e, []float64{0.5, 0.25, 1}); got != 1.75 {
		t.Errorf("Sum eval = %g, want 1.75", got)
	}
	if m.VarName(vars[1]) != "v[1]" {
		t.Errorf("VarName = %q, want v[1]", m.VarName(vars[1]))
	}
}

func TestModelIsLinear(t *testing.T) {
	m := NewModel("lin")
	x := m.AddVar(0, 1, "x")
	var e LinExpr
	e.Add(x, 1)
	m.AddConstr("c", e, LessEqual, 1)
	m.SetObjective(Lift(e))
	if !m.IsLinear() {
		t.Error("linear model reported nonlinear")
	}

	var q QuadExpr
	q.AddQuad(x, x, 1)
	m.AddQConstr("q", q, LessEqual, 1)
	if m.IsLinear() {
		t.Error("model with quadratic constraint reported linear")
	}
}

func TestMaxViolation(t *testing.T) {
	m := NewModel("viol")
	x := m.AddVar(0, 1, "x")
	y := m.AddVar(0, 1, "y")

	var e LinExpr
	e.Add(x, 1).Add(y, 1)
	m.AddConstr("cap", e, LessEqual, 1)

	if v := m.MaxViolation([]float64{0.5, 0.5}); v != 0 {
		t.Errorf("feasible point violation = %g", v)
	}
	if v := m.MaxViolation([]float64{0.8, 0.5}); math.Abs(v-0.3) > 1e-12 {
		t.Errorf("violation = %g, want 0.3", v)
	}
	if v := m.MaxViolation([]float64{-0.5, 0}); math.Abs(v-0.5) > 1e-12 {
		t.Errorf("bound violation = %g, want 0.5", v)
	}

	var ge LinExpr
	ge.Add(x, 1)
	m.AddConstr("floor", ge, GreaterEqual, 0.9)
	if v := m.MaxViolation([]float64{0.5, 0}); math.Abs(v-0.4) > 1e-12 {
		t.Errorf("greater-equal violation = %g, want 0.4", v)
	}
}

func TestSolutionAccessors(t *testing.T) {
	m := NewModel("sol")
	x := m.AddVar(0, 1, "x")
	y := m.AddVar(0, 1, "y")

	sol := newSolution(m, StatusOptimal, 1.5, []float64{0.25, 0.75})
	if !sol.HasSolution() || !sol.IsOptimal() {
		t.Error("optimal solution misclassified")
	}
	if sol.Value(x) != 0.25 || sol.Value(y) != 0.75 {
		t.Errorf("values = %g, %g", sol.Value(x), sol.Value(y))
	}
	byName := sol.ByName()
	if byName["x"] != 0.25 || byName["y"] != 0.75 {
		t.Errorf("ByName = %v", byName)
	}

	none := newSolution(m, StatusInfeasible, 0, nil)
	if none.HasSolution() {
		t.Error("infeasible solution reported values")
	}
	if none.Value(x) != 0 {
		t.Error("Value on empty solution should be 0")
	}
}
