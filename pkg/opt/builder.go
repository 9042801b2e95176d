// Package opt builds and solves the equity-aware charger-placement
// optimization model: added workplace charging capacity is allocated
// across zones to minimize a weighted combination of between-group and
// within-group disparity of a charger-access indicator.
package opt

import (
	"errors"
	"fmt"
	"math"

	"github.com/rttri/PoWER/pkg/disparity"
	"github.com/rttri/PoWER/pkg/equity"
	"github.com/rttri/PoWER/pkg/miqp"
	"github.com/rttri/PoWER/pkg/region"
)

// ErrInvalidArgument classifies configurations rejected before any model
// construction.
var ErrInvalidArgument = errors.New("invalid argument")

// OptimizableIndicators returns the capacity-based indicators the model
// supports. Count-based indicators are evaluation-only.
func OptimizableIndicators() []equity.Indicator {
	return []equity.Indicator{
		equity.CharCapacityPerCapita,
		equity.CharCapacityPerCar,
		equity.CharCapacityPerVKTOut,
	}
}

// ModelDisparities returns the disparity indices the model can linearize.
// This set deliberately differs from the evaluator's closed-form set.
func ModelDisparities() []disparity.Index {
	return []disparity.Index{
		disparity.Variance,
		disparity.CoeffOfVar,
		disparity.MeanAbsDev,
		disparity.RelativeMeanAbsDev,
		disparity.GiniCoefficient,
	}
}

// Config parameterizes one optimization model.
type Config struct {
	Indicator equity.Indicator
	Group     region.Attribute
	Disparity disparity.Index

	// MaxAddCapacity bounds each zone's added capacity and the total added
	// capacity with the same value.
	MaxAddCapacity float64

	// BetweenWeight in [0,1] weights the between-group term; the
	// within-group term gets the complement.
	BetweenWeight float64

	// ExclusivityFactor in [0,1] is the fraction of added capacity
	// reserved for the installing zone's own workers and therefore not
	// redistributed through commuting.
	ExclusivityFactor float64
}

// Problem is a built optimization model with handles into its named
// variable groups.
type Problem struct {
	Model *miqp.Model

	cfg    Config
	ds     *equity.Dataset
	groups []region.Group

	x      []miqp.Var
	charEq []miqp.Var
	xi     []miqp.Var

	objBetween miqp.Var
	objWithin  miqp.Var
}

// Config returns the configuration the problem was built from.
func (p *Problem) Config() Config { return p.cfg }

// Build validates the configuration and constructs the full model:
// decision variables, capacity budget, equivalent-capacity coupling,
// indicator definition, and the linearized disparity objective.
func Build(ds *equity.Dataset, cfg Config) (*Problem, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	groups, err := ds.Table.Groups(cfg.Group)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	n := ds.Table.Len()
	m := miqp.NewModel("charger_planning")
	p := &Problem{Model: m, cfg: cfg, ds: ds, groups: groups}

	p.x = m.AddVars(n, 0, cfg.MaxAddCapacity, "charger_capacity_wp")
	p.charEq = m.AddVars(n, 0, math.Inf(1), "equivalent_char_capacity")
	p.xi = m.AddVars(n, 0, math.Inf(1), "equity_indicator")

	// The total budget shares the per-zone cap value; the per-zone cap is
	// enforced through the x variable bounds above.
	total := miqp.Sum(p.x)
	m.AddConstr("char_cap_total", total, miqp.LessEqual, cfg.MaxAddCapacity)

	if err := p.addEquivalentCapacity(); err != nil {
		return nil, err
	}
	if err := p.addIndicator(); err != nil {
		return nil, err
	}
	if err := p.addObjective(); err != nil {
		return nil, err
	}

	return p, nil
}

func validate(cfg Config) error {
	ok := false
	for _, ind := range OptimizableIndicators() {
		if ind == cfg.Indicator {
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%w: indicator %q is not optimizable", ErrInvalidArgument, cfg.Indicator)
	}

	ok = false
	for _, idx := range ModelDisparities() {
		if idx == cfg.Disparity {
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("%w: disparity index %q has no model linearization", ErrInvalidArgument, cfg.Disparity)
	}

	if cfg.MaxAddCapacity < 0 {
		return fmt.Errorf("%w: max added capacity %g is negative", ErrInvalidArgument, cfg.MaxAddCapacity)
	}
	if cfg.BetweenWeight < 0 || cfg.BetweenWeight > 1 {
		return fmt.Errorf("%w: between weight %g outside [0,1]", ErrInvalidArgument, cfg.BetweenWeight)
	}
	if cfg.ExclusivityFactor < 0 || cfg.ExclusivityFactor > 1 {
		return fmt.Errorf("%w: exclusivity factor %g outside [0,1]", ErrInvalidArgument, cfg.ExclusivityFactor)
	}
	return nil
}

// addEquivalentCapacity couples each zone's post-allocation capacity to
// the existing inventory plus the commuter-share redistribution of added
// workplace capacity:
//
//	char_eq[i] = existing[i] + sum_j x[j]*flow[i][j]/work_popu[j]*(1-ex)
func (p *Problem) addEquivalentCapacity() error {
	n := p.ds.Table.Len()
	shared := 1 - p.cfg.ExclusivityFactor

	for i := 0; i < n; i++ {
		var e miqp.LinExpr
		e.Add(p.charEq[i], 1)
		for j := 0; j < n; j++ {
			flow := p.ds.Flow.At(i, j)
			if flow == 0 {
				continue
			}
			workPopu := p.ds.WorkPopu(j)
			if workPopu == 0 {
				return fmt.Errorf("zone %s: zero work population with inbound commuters: %w",
					p.ds.Table.Zones[j].ID, disparity.ErrDivideByZero)
			}
			e.Add(p.x[j], -flow/workPopu*shared)
		}
		m := p.Model
		m.AddConstr(fmt.Sprintf("char_capacity_each_ct[%d]", i),
			e, miqp.Equal, p.ds.TotalCharCapacity(i))
	}
	return nil
}

// addIndicator defines xi[i] as the chosen access ratio of the equivalent
// capacity: xi[i]*den[i] = char_eq[i], with the denominator fixed per zone.
func (p *Problem) addIndicator() error {
	n := p.ds.Table.Len()
	for i := 0; i < n; i++ {
		den, err := p.cfg.Indicator.Denominator(p.ds, i)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		if den == 0 {
			return fmt.Errorf("indicator %s: zone %s has zero denominator: %w",
				p.cfg.Indicator, p.ds.Table.Zones[i].ID, disparity.ErrDivideByZero)
		}
		var e miqp.LinExpr
		e.Add(p.xi[i], den)
		e.Add(p.charEq[i], -1)
		p.Model.AddConstr(fmt.Sprintf("%s_each_ct[%d]", p.cfg.Indicator, i),
			e, miqp.Equal, 0)
	}
	return nil
}

// addObjective builds the group-aggregated values, the between- and
// within-group disparity terms, and the weighted objective.
func (p *Problem) addObjective() error {
	m := p.Model

	groupVals, err := p.addGroupValues()
	if err != nil {
		return err
	}

	between, err := linearizeDisparity(m, p.cfg.Disparity, groupVals, "between")
	if err != nil {
		return err
	}
	p.objBetween = m.AddVar(0, math.Inf(1), "obj_val_between")
	bindExpr(m, "obj_between_def", p.objBetween, between)

	within, err := p.addWithinTerm()
	if err != nil {
		return err
	}
	p.objWithin = m.AddVar(0, math.Inf(1), "obj_val_within")
	bindExpr(m, "obj_within_def", p.objWithin, within)

	w := p.cfg.BetweenWeight
	var obj miqp.LinExpr
	obj.Add(p.objBetween, w)
	obj.Add(p.objWithin, 1-w)
	m.SetObjective(miqp.Lift(obj))
	return nil
}

// addGroupValues introduces one variable per demographic group holding the
// group-level access ratio: val[g]*sum(den) = sum(char_eq) over members.
func (p *Problem) addGroupValues() ([]miqp.Var, error) {
	m := p.Model
	vals := m.AddVars(len(p.groups), 0, math.Inf(1), "indicator_group_value")

	for g, grp := range p.groups {
		var denSum float64
		var e miqp.LinExpr
		for _, i := range grp.Members {
			den, err := p.cfg.Indicator.Denominator(p.ds, i)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
			denSum += den
			e.Add(p.charEq[i], -1)
		}
		if denSum == 0 {
			return nil, fmt.Errorf("group %s has zero aggregate denominator: %w",
				grp.Label, disparity.ErrDivideByZero)
		}
		e.Add(vals[g], denSum)
		m.AddConstr(fmt.Sprintf("demographic_group_value[%d]", g), e, miqp.Equal, 0)
	}
	return vals, nil
}

// addWithinTerm linearizes the disparity independently inside each group
// over the member xi values, and averages the per-group terms unweighted.
func (p *Problem) addWithinTerm() (miqp.QuadExpr, error) {
	m := p.Model
	perGroup := m.AddVars(len(p.groups), 0, math.Inf(1), "within_group_disparity")

	for g, grp := range p.groups {
		sub := make([]miqp.Var, len(grp.Members))
		for k, i := range grp.Members {
			sub[k] = p.xi[i]
		}
		expr, err := linearizeDisparity(m, p.cfg.Disparity, sub, fmt.Sprintf("within_%d", g))
		if err != nil {
			return miqp.QuadExpr{}, err
		}
		bindExpr(m, fmt.Sprintf("within_group_def[%d]", g), perGroup[g], expr)
	}

	var avg miqp.LinExpr
	for _, v := range perGroup {
		avg.Add(v, 1/float64(len(perGroup)))
	}
	return miqp.Lift(avg), nil
}

// bindExpr constrains v == expr, using a quadratic constraint only when
// the expression has quadratic terms.
func bindExpr(m *miqp.Model, name string, v miqp.Var, expr miqp.QuadExpr) {
	if expr.IsLinear() {
		e := expr.Lin
		e.Add(v, -1)
		m.AddConstr(name, e, miqp.Equal, 0)
		return
	}
	q := expr
	q.Lin.Add(v, -1)
	m.AddQConstr(name, q, miqp.Equal, 0)
}
