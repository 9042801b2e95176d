package equity

import (
	"fmt"

	"github.com/rttri/PoWER/pkg/disparity"
	"github.com/rttri/PoWER/pkg/region"
)

// GroupScore is the intra-group disparity of one demographic group.
type GroupScore struct {
	Label string
	Score float64
}

// Evaluator computes inter- and intra-group disparity of charger-access
// indicators over a fixed dataset. It performs no optimization.
type Evaluator struct {
	ds *Dataset
}

// NewEvaluator creates an evaluator over the dataset.
func NewEvaluator(ds *Dataset) *Evaluator {
	return &Evaluator{ds: ds}
}

// ComputeEquity evaluates one standard indicator: the inter-group disparity
// across group-aggregated ratios, and the intra-group disparity of per-zone
// ratios inside each group. Equivalent-capacity indicators are rejected
// here; use ComputeEquityEquivalent.
func (e *Evaluator) ComputeEquity(ind Indicator, attr region.Attribute, index disparity.Index) (float64, []GroupScore, error) {
	if ind.IsEquivalent() {
		return 0, nil, fmt.Errorf("%w: indicator %q requires the equivalent-capacity evaluation", ErrInvalidArgument, ind)
	}
	return e.compute(ind, attr, index)
}

// ComputeEquityEquivalent evaluates one equivalent-capacity indicator,
// where workplace capacity has been redistributed over residence zones by
// commuter shares.
func (e *Evaluator) ComputeEquityEquivalent(ind Indicator, attr region.Attribute, index disparity.Index) (float64, []GroupScore, error) {
	if !ind.IsEquivalent() {
		return 0, nil, fmt.Errorf("%w: indicator %q is not an equivalent-capacity indicator", ErrInvalidArgument, ind)
	}
	return e.compute(ind, attr, index)
}

func (e *Evaluator) compute(ind Indicator, attr region.Attribute, index disparity.Index) (float64, []GroupScore, error) {
	def, ok := indicatorTable[ind]
	if !ok {
		return 0, nil, fmt.Errorf("%w: unknown equity indicator %q", ErrInvalidArgument, ind)
	}
	if !supportedIndex(index) {
		return 0, nil, fmt.Errorf("%w: disparity index %q is not supported by the evaluator", ErrInvalidArgument, index)
	}
	groups, err := e.ds.Table.Groups(attr)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	intra := make([]GroupScore, 0, len(groups))
	groupRatios := make([]float64, 0, len(groups))
	for _, g := range groups {
		ratios := make([]float64, 0, len(g.Members))
		var numSum, denSum float64
		for _, i := range g.Members {
			num := def.num(e.ds, i)
			den := def.den(e.ds, i)
			if den == 0 {
				return 0, nil, fmt.Errorf("indicator %s: zone %s has zero denominator: %w",
					ind, e.ds.Table.Zones[i].ID, disparity.ErrDivideByZero)
			}
			ratios = append(ratios, num/den)
			numSum += num
			denSum += den
		}

		score, err := disparity.Compute(index, ratios)
		if err != nil {
			return 0, nil, fmt.Errorf("group %s: %w", g.Label, err)
		}
		intra = append(intra, GroupScore{Label: g.Label, Score: score})

		// The group-level ratio is the ratio of sums, not the mean of
		// per-zone ratios.
		if denSum == 0 {
			return 0, nil, fmt.Errorf("indicator %s: group %s has zero aggregate denominator: %w",
				ind, g.Label, disparity.ErrDivideByZero)
		}
		groupRatios = append(groupRatios, numSum/denSum)
	}

	inter, err := disparity.Compute(index, groupRatios)
	if err != nil {
		return 0, nil, fmt.Errorf("inter-group: %w", err)
	}
	return inter, intra, nil
}

// supportedIndex limits the evaluator to the closed-form disparity set.
func supportedIndex(index disparity.Index) bool {
	switch index {
	case disparity.MeanAbsDev, disparity.RelativeMeanAbsDev,
		disparity.GiniCoefficient, disparity.LorenzCurve, disparity.TheilIndex:
		return true
	}
	return false
}
