package miqp

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestComputeIIS(t *testing.T) {
	m := NewModel("conflict")
	x := m.AddVar(0, 10, "x")

	var floor LinExpr
	floor.Add(x, 1)
	m.AddConstr("floor", floor, GreaterEqual, 5)

	var ceil LinExpr
	ceil.Add(x, 1)
	m.AddConstr("ceil", ceil, LessEqual, 3)

	var slack LinExpr
	slack.Add(x, 1)
	m.AddConstr("slack", slack, LessEqual, 100)

	report, err := ComputeIIS(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Constraints) != 2 {
		t.Fatalf("IIS has %d constraints, want 2: %v", len(report.Constraints), report.Constraints)
	}
	text := report.String()
	if !strings.Contains(text, "floor") || !strings.Contains(text, "ceil") {
		t.Errorf("IIS missing conflicting pair:\n%s", text)
	}
	if strings.Contains(text, "slack") {
		t.Errorf("IIS includes irrelevant constraint:\n%s", text)
	}
}

func TestComputeIISFeasibleModel(t *testing.T) {
	m := NewModel("fine")
	x := m.AddVar(0, 10, "x")
	var e LinExpr
	e.Add(x, 1)
	m.AddConstr("c", e, LessEqual, 5)

	if _, err := ComputeIIS(m); err == nil {
		t.Error("expected error for feasible model")
	}
}

func TestComputeIISRejectsQuadratic(t *testing.T) {
	m := NewModel("quad")
	x := m.AddVar(0, 1, "x")
	var q QuadExpr
	q.AddQuad(x, x, 1)
	m.AddQConstr("sq", q, LessEqual, 1)

	if _, err := ComputeIIS(m); !errors.Is(err, ErrNotLinear) {
		t.Errorf("error = %v, want ErrNotLinear", err)
	}
}

func TestIISReportWriteFile(t *testing.T) {
	r := &IISReport{Model: "m", Constraints: []string{"a: >= 1"}}
	path := t.TempDir() + "/iis.txt"
	if err := r.WriteFile(path); err != nil {
		t.Fatal(err)
	}
}

func TestAutoRoutesByLinearity(t *testing.T) {
	lin := NewModel("lin")
	x := lin.AddVar(0, 3, "x")
	var e LinExpr
	e.Add(x, -1)
	lin.SetObjective(Lift(e))

	sol, err := Auto().Solve(lin, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !sol.IsOptimal() || math.Abs(sol.Value(x)-3) > 1e-9 {
		t.Errorf("linear auto solve = %s, x = %g", sol.Status, sol.Value(x))
	}

	quad := NewModel("quad")
	y := quad.AddVar(-2, 2, "y")
	var q QuadExpr
	q.AddQuad(y, y, 1)
	quad.SetObjective(q)

	sol, err = Auto().Solve(quad, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !sol.HasSolution() {
		t.Fatalf("quadratic auto solve: %s", sol.Status)
	}
	if v := sol.Value(y); v < -1e-4 || v > 1e-4 {
		t.Errorf("y = %g, want 0", v)
	}
}
