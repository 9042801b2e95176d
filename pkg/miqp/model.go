// Package miqp provides a solver-agnostic model for mixed linear/quadratic
// programs: variables, linear and quadratic constraints, a quadratic
// objective, and pluggable solving backends.
package miqp

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotLinear is returned by backends and tools that only handle purely
// linear models.
var ErrNotLinear = errors.New("model is not linear")

// Var is a handle to a model variable.
type Var struct {
	id int
}

// Sense is a constraint direction.
type Sense int

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "=="
	case GreaterEqual:
		return ">="
	}
	return "?"
}

type linTerm struct {
	v    Var
	coef float64
}

// LinExpr is an affine expression over model variables.
type LinExpr struct {
	terms  []linTerm
	offset float64
}

// Add appends coef*v to the expression and returns it for chaining.
func (e *LinExpr) Add(v Var, coef float64) *LinExpr {
	e.terms = append(e.terms, linTerm{v: v, coef: coef})
	return e
}

// AddConst adds a constant to the expression.
func (e *LinExpr) AddConst(c float64) *LinExpr {
	e.offset += c
	return e
}

// AddExpr adds scale*other to the expression.
func (e *LinExpr) AddExpr(other LinExpr, scale float64) *LinExpr {
	for _, t := range other.terms {
		e.terms = append(e.terms, linTerm{v: t.v, coef: t.coef * scale})
	}
	e.offset += other.offset * scale
	return e
}

// Sum returns the unit-coefficient sum of vars.
func Sum(vars []Var) LinExpr {
	var e LinExpr
	for _, v := range vars {
		e.Add(v, 1)
	}
	return e
}

type quadTerm struct {
	a, b Var
	coef float64
}

// QuadExpr is a quadratic expression: an affine part plus bilinear terms.
type QuadExpr struct {
	Lin  LinExpr
	quad []quadTerm
}

// AddQuad appends coef*a*b to the expression and returns it for chaining.
func (q *QuadExpr) AddQuad(a, b Var, coef float64) *QuadExpr {
	q.quad = append(q.quad, quadTerm{a: a, b: b, coef: coef})
	return q
}

// IsLinear reports whether the expression has no quadratic terms.
func (q *QuadExpr) IsLinear() bool { return len(q.quad) == 0 }

// Lift wraps a linear expression as a quadratic one.
func Lift(e LinExpr) QuadExpr { return QuadExpr{Lin: e} }

// Constr is one linear constraint: expr sense rhs.
type Constr struct {
	Name  string
	Expr  LinExpr
	Sense Sense
	RHS   float64
}

// QConstr is one quadratic constraint.
type QConstr struct {
	Name  string
	Expr  QuadExpr
	Sense Sense
	RHS   float64
}

// Model accumulates variables, constraints, and a minimization objective.
type Model struct {
	name string

	names []string
	lb    []float64
	ub    []float64

	constrs  []Constr
	qconstrs []QConstr
	obj      QuadExpr
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{name: name}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// AddVar adds one continuous variable with the given bounds. Use
// math.Inf for unbounded sides.
func (m *Model) AddVar(lb, ub float64, name string) Var {
	v := Var{id: len(m.names)}
	m.names = append(m.names, name)
	m.lb = append(m.lb, lb)
	m.ub = append(m.ub, ub)
	return v
}

// AddVars adds n continuous variables named prefix[0] .. prefix[n-1].
func (m *Model) AddVars(n int, lb, ub float64, prefix string) []Var {
	vars := make([]Var, n)
	for i := range vars {
		vars[i] = m.AddVar(lb, ub, fmt.Sprintf("%s[%d]", prefix, i))
	}
	return vars
}

// NumVars returns the variable count.
func (m *Model) NumVars() int { return len(m.names) }

// NumConstrs returns the linear constraint count.
func (m *Model) NumConstrs() int { return len(m.constrs) }

// NumQConstrs returns the quadratic constraint count.
func (m *Model) NumQConstrs() int { return len(m.qconstrs) }

// VarName returns the name of a variable.
func (m *Model) VarName(v Var) string { return m.names[v.id] }

// Bounds returns a variable's lower and upper bound.
func (m *Model) Bounds(v Var) (lb, ub float64) { return m.lb[v.id], m.ub[v.id] }

// AddConstr adds a linear constraint.
func (m *Model) AddConstr(name string, e LinExpr, sense Sense, rhs float64) {
	m.constrs = append(m.constrs, Constr{Name: name, Expr: e, Sense: sense, RHS: rhs})
}

// AddQConstr adds a quadratic constraint.
func (m *Model) AddQConstr(name string, e QuadExpr, sense Sense, rhs float64) {
	m.qconstrs = append(m.qconstrs, QConstr{Name: name, Expr: e, Sense: sense, RHS: rhs})
}

// SetObjective sets the minimization objective.
func (m *Model) SetObjective(e QuadExpr) { m.obj = e }

// Objective returns the current objective expression.
func (m *Model) Objective() QuadExpr { return m.obj }

// IsLinear reports whether all constraints and the objective are linear.
func (m *Model) IsLinear() bool {
	return len(m.qconstrs) == 0 && m.obj.IsLinear()
}

// EvalLin evaluates an affine expression at the point x.
func (m *Model) EvalLin(e LinExpr, x []float64) float64 {
	v := e.offset
	for _, t := range e.terms {
		v += t.coef * x[t.v.id]
	}
	return v
}

// EvalQuad evaluates a quadratic expression at the point x.
func (m *Model) EvalQuad(e QuadExpr, x []float64) float64 {
	v := m.EvalLin(e.Lin, x)
	for _, t := range e.quad {
		v += t.coef * x[t.a.id] * x[t.b.id]
	}
	return v
}

// violation returns how far the point is from satisfying a constraint
// value lhs with the given sense and rhs. Zero means satisfied.
func violation(lhs float64, sense Sense, rhs float64) float64 {
	switch sense {
	case LessEqual:
		return math.Max(0, lhs-rhs)
	case GreaterEqual:
		return math.Max(0, rhs-lhs)
	default:
		return math.Abs(lhs - rhs)
	}
}

// MaxViolation returns the largest constraint or bound violation at x.
func (m *Model) MaxViolation(x []float64) float64 {
	var worst float64
	for i := range m.lb {
		if x[i] < m.lb[i] {
			worst = math.Max(worst, m.lb[i]-x[i])
		}
		if x[i] > m.ub[i] {
			worst = math.Max(worst, x[i]-m.ub[i])
		}
	}
	for _, c := range m.constrs {
		worst = math.Max(worst, violation(m.EvalLin(c.Expr, x), c.Sense, c.RHS))
	}
	for _, c := range m.qconstrs {
		worst = math.Max(worst, violation(m.EvalQuad(c.Expr, x), c.Sense, c.RHS))
	}
	return worst
}
