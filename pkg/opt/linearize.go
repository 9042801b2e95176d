package opt

import (
	"fmt"
	"math"

	"github.com/rttri/PoWER/pkg/disparity"
	"github.com/rttri/PoWER/pkg/miqp"
)

// linearizeDisparity emits the auxiliary variables and constraints that
// express the disparity of vals inside the model, returning an expression
// equal to the disparity value at any optimum. tag keeps auxiliary names
// unique between the between-group and per-group within terms.
func linearizeDisparity(m *miqp.Model, idx disparity.Index, vals []miqp.Var, tag string) (miqp.QuadExpr, error) {
	switch idx {
	case disparity.Variance:
		return linearizeVariance(m, vals, tag), nil
	case disparity.CoeffOfVar:
		return linearizeCoeffOfVar(m, vals, tag), nil
	case disparity.MeanAbsDev:
		return linearizeMeanAbsDev(m, vals, tag), nil
	case disparity.RelativeMeanAbsDev:
		return linearizeRelMeanAbsDev(m, vals, tag), nil
	case disparity.GiniCoefficient:
		return linearizeGini(m, vals, tag), nil
	}
	return miqp.QuadExpr{}, fmt.Errorf("%w: disparity index %q has no model linearization", ErrInvalidArgument, idx)
}

// meanExpr is the affine mean of vals.
func meanExpr(vals []miqp.Var) miqp.LinExpr {
	var e miqp.LinExpr
	for _, v := range vals {
		e.Add(v, 1/float64(len(vals)))
	}
	return e
}

// linearizeVariance introduces deviation variables d_i = v_i - mean and
// returns the quadratic mean of their squares.
func linearizeVariance(m *miqp.Model, vals []miqp.Var, tag string) miqp.QuadExpr {
	n := len(vals)
	mean := meanExpr(vals)
	dev := m.AddVars(n, math.Inf(-1), math.Inf(1), tag+"_dev")

	for i := range vals {
		var e miqp.LinExpr
		e.Add(dev[i], 1)
		e.Add(vals[i], -1)
		e.AddExpr(mean, 1)
		m.AddConstr(fmt.Sprintf("%s_dev_def[%d]", tag, i), e, miqp.Equal, 0)
	}

	var q miqp.QuadExpr
	for i := range dev {
		q.AddQuad(dev[i], dev[i], 1/float64(n))
	}
	return q
}

// linearizeMeanAbsDev applies the standard two-sided absolute-value split:
// one auxiliary per element bounded below by +/-(v_i - mean).
func linearizeMeanAbsDev(m *miqp.Model, vals []miqp.Var, tag string) miqp.QuadExpr {
	aux := absDeviations(m, vals, tag)

	var e miqp.LinExpr
	for _, a := range aux {
		e.Add(a, 1/float64(len(aux)))
	}
	return miqp.Lift(e)
}

// linearizeRelMeanAbsDev divides the mean-absolute-deviation construction
// by the mean through one bilinear equality.
func linearizeRelMeanAbsDev(m *miqp.Model, vals []miqp.Var, tag string) miqp.QuadExpr {
	n := len(vals)
	aux := absDeviations(m, vals, tag)

	meanVar := m.AddVar(0, math.Inf(1), tag+"_mean")
	def := meanExpr(vals)
	def.Add(meanVar, -1)
	m.AddConstr(tag+"_mean_def", def, miqp.Equal, 0)

	disp := m.AddVar(0, math.Inf(1), tag+"_rel_mad")
	var q miqp.QuadExpr
	q.AddQuad(disp, meanVar, 1)
	for _, a := range aux {
		q.Lin.Add(a, -1/float64(n))
	}
	m.AddQConstr(tag+"_rel_mad_def", q, miqp.Equal, 0)

	var e miqp.LinExpr
	e.Add(disp, 1)
	return miqp.Lift(e)
}

// linearizeCoeffOfVar builds std-deviation times reciprocal-of-mean from
// three auxiliaries: a bilinear reciprocal, a quadratic variance equality,
// and a square-root power constraint.
func linearizeCoeffOfVar(m *miqp.Model, vals []miqp.Var, tag string) miqp.QuadExpr {
	n := len(vals)

	recip := m.AddVar(0, math.Inf(1), tag+"_recip_mean")
	var rq miqp.QuadExpr
	for _, v := range vals {
		rq.AddQuad(recip, v, 1/float64(n))
	}
	m.AddQConstr(tag+"_recip_mean_def", rq, miqp.Equal, 1)

	mean := meanExpr(vals)
	dev := m.AddVars(n, math.Inf(-1), math.Inf(1), tag+"_dev")
	for i := range vals {
		var e miqp.LinExpr
		e.Add(dev[i], 1)
		e.Add(vals[i], -1)
		e.AddExpr(mean, 1)
		m.AddConstr(fmt.Sprintf("%s_dev_def[%d]", tag, i), e, miqp.Equal, 0)
	}

	variance := m.AddVar(0, math.Inf(1), tag+"_variance")
	var vq miqp.QuadExpr
	vq.Lin.Add(variance, 1)
	for i := range dev {
		vq.AddQuad(dev[i], dev[i], -1/float64(n))
	}
	m.AddQConstr(tag+"_variance_def", vq, miqp.Equal, 0)

	std := m.AddVar(0, math.Inf(1), tag+"_std")
	var sq miqp.QuadExpr
	sq.AddQuad(std, std, 1)
	sq.Lin.Add(variance, -1)
	m.AddQConstr(tag+"_std_def", sq, miqp.Equal, 0)

	cv := m.AddVar(0, math.Inf(1), tag+"_cv")
	var cq miqp.QuadExpr
	cq.Lin.Add(cv, 1)
	cq.AddQuad(std, recip, -1)
	m.AddQConstr(tag+"_cv_def", cq, miqp.Equal, 0)

	var e miqp.LinExpr
	e.Add(cv, 1)
	return miqp.Lift(e)
}

// linearizeGini bounds one auxiliary per unordered pair below by the
// pairwise absolute difference, then divides the pair sum by 2n*mean via a
// reciprocal-of-sum bilinear equality. The ordered-pair double count of
// the textbook formula is folded into the 1/n scale on the pair sum.
func linearizeGini(m *miqp.Model, vals []miqp.Var, tag string) miqp.QuadExpr {
	n := len(vals)

	recip := m.AddVar(0, math.Inf(1), tag+"_recip_sum")
	var rq miqp.QuadExpr
	for _, v := range vals {
		rq.AddQuad(recip, v, 1)
	}
	m.AddQConstr(tag+"_recip_sum_def", rq, miqp.Equal, 1)

	var pairSum miqp.LinExpr
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a := m.AddVar(0, math.Inf(1), fmt.Sprintf("%s_absdiff[%d,%d]", tag, i, j))

			var pos miqp.LinExpr
			pos.Add(a, 1)
			pos.Add(vals[i], -1)
			pos.Add(vals[j], 1)
			m.AddConstr(fmt.Sprintf("%s_absdiff_pos[%d,%d]", tag, i, j), pos, miqp.GreaterEqual, 0)

			var neg miqp.LinExpr
			neg.Add(a, 1)
			neg.Add(vals[j], -1)
			neg.Add(vals[i], 1)
			m.AddConstr(fmt.Sprintf("%s_absdiff_neg[%d,%d]", tag, i, j), neg, miqp.GreaterEqual, 0)

			pairSum.Add(a, 1/float64(n))
		}
	}

	pairMean := m.AddVar(0, math.Inf(1), tag+"_pair_mean")
	pairSum.Add(pairMean, -1)
	m.AddConstr(tag+"_pair_mean_def", pairSum, miqp.Equal, 0)

	gini := m.AddVar(0, math.Inf(1), tag+"_gini")
	var gq miqp.QuadExpr
	gq.Lin.Add(gini, 1)
	gq.AddQuad(pairMean, recip, -1)
	m.AddQConstr(tag+"_gini_def", gq, miqp.Equal, 0)

	var e miqp.LinExpr
	e.Add(gini, 1)
	return miqp.Lift(e)
}

// absDeviations adds aux_i >= |v_i - mean| in split form and returns the
// auxiliaries.
func absDeviations(m *miqp.Model, vals []miqp.Var, tag string) []miqp.Var {
	n := len(vals)
	mean := meanExpr(vals)
	aux := m.AddVars(n, 0, math.Inf(1), tag+"_abs")

	for i := range vals {
		var pos miqp.LinExpr
		pos.Add(aux[i], 1)
		pos.Add(vals[i], -1)
		pos.AddExpr(mean, 1)
		m.AddConstr(fmt.Sprintf("%s_abs_pos[%d]", tag, i), pos, miqp.GreaterEqual, 0)

		var neg miqp.LinExpr
		neg.Add(aux[i], 1)
		neg.Add(vals[i], 1)
		neg.AddExpr(mean, -1)
		m.AddConstr(fmt.Sprintf("%s_abs_neg[%d]", tag, i), neg, miqp.GreaterEqual, 0)
	}
	return aux
}
