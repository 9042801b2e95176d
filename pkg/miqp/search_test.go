package miqp

import (
	"math"
	"testing"
)

func TestSearchBoxQuadratic(t *testing.T) {
	// Minimize (x-2)^2 + (y+1)^2 over a box containing the optimum.
	m := NewModel("box_quad")
	x := m.AddVar(0, 5, "x")
	y := m.AddVar(-3, 3, "y")

	var obj QuadExpr
	obj.AddQuad(x, x, 1)
	obj.Lin.Add(x, -4)
	obj.AddQuad(y, y, 1)
	obj.Lin.Add(y, 2)
	obj.Lin.AddConst(5)
	m.SetObjective(obj)

	sol, err := SearchSolver{}.Solve(m, Options{Seed: 1, RelGap: 1e-9})
	if err != nil {
		t.Fatal(err)
	}
	if !sol.HasSolution() {
		t.Fatalf("status = %s, want a solution", sol.Status)
	}
	if math.Abs(sol.Value(x)-2) > 1e-4 || math.Abs(sol.Value(y)+1) > 1e-4 {
		t.Errorf("solution = (%g, %g), want (2, -1)", sol.Value(x), sol.Value(y))
	}
	if math.Abs(sol.Objective) > 1e-6 {
		t.Errorf("objective = %g, want 0", sol.Objective)
	}
}

func TestSearchActiveBound(t *testing.T) {
	// Minimize x^2 with x in [1, 5]: the optimum sits on the lower bound.
	m := NewModel("bound_quad")
	x := m.AddVar(1, 5, "x")

	var obj QuadExpr
	obj.AddQuad(x, x, 1)
	m.SetObjective(obj)

	sol, err := SearchSolver{}.Solve(m, Options{Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !sol.HasSolution() {
		t.Fatalf("status = %s, want a solution", sol.Status)
	}
	if math.Abs(sol.Value(x)-1) > 1e-6 {
		t.Errorf("x = %g, want 1", sol.Value(x))
	}
}

func TestSearchQuadraticConstraint(t *testing.T) {
	// Minimize x subject to x*x == 4 with x in [0, 10].
	m := NewModel("qconstr")
	x := m.AddVar(0, 10, "x")

	var q QuadExpr
	q.AddQuad(x, x, 1)
	m.AddQConstr("square", q, Equal, 4)

	var obj LinExpr
	obj.Add(x, 1)
	m.SetObjective(Lift(obj))

	sol, err := SearchSolver{}.Solve(m, Options{Seed: 1, RelGap: 1e-9})
	if err != nil {
		t.Fatal(err)
	}
	if !sol.HasSolution() {
		t.Fatalf("status = %s, want a solution", sol.Status)
	}
	if math.Abs(sol.Value(x)-2) > 1e-3 {
		t.Errorf("x = %g, want 2", sol.Value(x))
	}
}

func TestSearchRelGapControlsPrecision(t *testing.T) {
	// A loose gap tolerance must stop the search early with a coarser
	// point than a tight one.
	build := func() *Model {
		m := NewModel("gap_quad")
		x := m.AddVar(0, 5, "x")
		y := m.AddVar(-3, 3, "y")
		var obj QuadExpr
		obj.AddQuad(x, x, 1)
		obj.Lin.Add(x, -4)
		obj.AddQuad(y, y, 1)
		obj.Lin.Add(y, 2)
		obj.Lin.AddConst(5)
		m.SetObjective(obj)
		return m
	}

	loose, err := SearchSolver{Restarts: 1}.Solve(build(), Options{Seed: 1, RelGap: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	tight, err := SearchSolver{Restarts: 1}.Solve(build(), Options{Seed: 1, RelGap: 1e-9})
	if err != nil {
		t.Fatal(err)
	}
	if !loose.HasSolution() || !tight.HasSolution() {
		t.Fatalf("statuses = %s, %s", loose.Status, tight.Status)
	}
	if loose.Objective < 1e-3 {
		t.Errorf("loose objective = %g, expected a coarse stop", loose.Objective)
	}
	if tight.Objective > 1e-6 {
		t.Errorf("tight objective = %g, want ~0", tight.Objective)
	}
	if tight.Objective >= loose.Objective {
		t.Errorf("tight objective %g not below loose %g", tight.Objective, loose.Objective)
	}
}

func TestSearchCallbackInterrupts(t *testing.T) {
	m := NewModel("interrupt")
	x := m.AddVar(0, 5, "x")
	var obj QuadExpr
	obj.AddQuad(x, x, 1)
	m.SetObjective(obj)

	sol, err := SearchSolver{}.Solve(m, Options{
		Seed:     1,
		Callback: func(Progress) bool { return true },
	})
	if err != nil {
		t.Fatal(err)
	}
	if sol.Status != StatusInterrupted {
		t.Errorf("status = %s, want interrupted", sol.Status)
	}
	if !sol.HasSolution() {
		t.Error("interrupted solve should keep its incumbent")
	}
}

func TestSearchDeterministicForSeed(t *testing.T) {
	build := func() *Model {
		m := NewModel("det")
		x := m.AddVar(-2, 2, "x")
		y := m.AddVar(-2, 2, "y")
		var obj QuadExpr
		obj.AddQuad(x, x, 1)
		obj.AddQuad(y, y, 2)
		obj.Lin.Add(x, 0.3)
		m.SetObjective(obj)
		return m
	}

	a, err := SearchSolver{}.Solve(build(), Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	b, err := SearchSolver{}.Solve(build(), Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	if a.Objective != b.Objective {
		t.Errorf("same seed produced %g and %g", a.Objective, b.Objective)
	}
}
