// Package disparity computes scalar inequality statistics over vectors of
// equity-indicator values.
package disparity

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Index names a disparity statistic. The closed-form indices are accepted
// by Compute; Variance and CoeffOfVar exist only as optimization-model
// terms and are rejected here. The two sets are deliberately distinct and
// must not be unified.
type Index string

const (
	MeanAbsDev         Index = "mean_abs_dev"
	RelativeMeanAbsDev Index = "relative_mean_abs_dev"
	GiniCoefficient    Index = "gini_coefficient"
	LorenzCurve        Index = "lorenz_curve"
	TheilIndex         Index = "theil_index"

	// Model-only indices, see package opt.
	Variance   Index = "var"
	CoeffOfVar Index = "coeff_of_var"
)

var (
	// ErrUnknownIndex is returned for index names outside the set a
	// component supports.
	ErrUnknownIndex = errors.New("unknown disparity index")

	// ErrDivideByZero classifies degenerate inputs whose statistic would
	// require dividing by a zero mean or sum.
	ErrDivideByZero = errors.New("division by zero")

	// ErrNonPositive is returned when an index defined only for positive
	// values receives a zero or negative element.
	ErrNonPositive = errors.New("non-positive value")
)

// Indices returns the indices Compute supports, in a fixed order.
func Indices() []Index {
	return []Index{MeanAbsDev, RelativeMeanAbsDev, GiniCoefficient, LorenzCurve, TheilIndex}
}

// Parse converts a string into an Index, accepting both the closed-form
// and the model-only names.
func Parse(s string) (Index, error) {
	switch Index(s) {
	case MeanAbsDev, RelativeMeanAbsDev, GiniCoefficient, LorenzCurve, TheilIndex, Variance, CoeffOfVar:
		return Index(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownIndex, s)
}

// Compute evaluates the statistic over values. The result depends only on
// the multiset of values, not their order. No smoothing is applied: inputs
// that make the exact formula undefined are rejected.
func Compute(index Index, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%s: empty input", index)
	}
	switch index {
	case MeanAbsDev:
		return meanAbsDev(values), nil
	case RelativeMeanAbsDev:
		m := mean(values)
		if m == 0 {
			return 0, fmt.Errorf("%s: mean is zero: %w", index, ErrDivideByZero)
		}
		return meanAbsDev(values) / m, nil
	case GiniCoefficient:
		return gini(values)
	case LorenzCurve:
		return lorenz(values)
	case TheilIndex:
		return theil(values)
	case Variance, CoeffOfVar:
		return 0, fmt.Errorf("%w: %q is model-only", ErrUnknownIndex, index)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownIndex, index)
}

func mean(values []float64) float64 {
	return floats.Sum(values) / float64(len(values))
}

func meanAbsDev(values []float64) float64 {
	m := mean(values)
	var dev float64
	for _, v := range values {
		dev += math.Abs(v - m)
	}
	return dev / float64(len(values))
}

// gini computes 1 + 1/n - (2/n)*sum((n+1-i)*v_i)/sum(v) over the
// ascending-sorted values with ranks i = 1..n.
func gini(values []float64) (float64, error) {
	sorted := ascending(values)
	total := floats.Sum(sorted)
	if total == 0 {
		return 0, fmt.Errorf("gini_coefficient: sum is zero: %w", ErrDivideByZero)
	}
	n := float64(len(sorted))
	var weighted float64
	for i, v := range sorted {
		rank := float64(i + 1)
		weighted += (n + 1 - rank) * v
	}
	return 1 + 1/n - (2/n)*weighted/total, nil
}

// lorenz computes sum((2i-n-1)*v_i)/(n*sum(v)) over the ascending-sorted
// values. The sign convention differs from gini; the two are distinct
// statistics.
func lorenz(values []float64) (float64, error) {
	sorted := ascending(values)
	total := floats.Sum(sorted)
	if total == 0 {
		return 0, fmt.Errorf("lorenz_curve: sum is zero: %w", ErrDivideByZero)
	}
	n := float64(len(sorted))
	var weighted float64
	for i, v := range sorted {
		rank := float64(i + 1)
		weighted += (2*rank - n - 1) * v
	}
	return weighted / (n * total), nil
}

func theil(values []float64) (float64, error) {
	m := mean(values)
	if m == 0 {
		return 0, fmt.Errorf("theil_index: mean is zero: %w", ErrDivideByZero)
	}
	var sum float64
	for i, v := range values {
		if v <= 0 {
			return 0, fmt.Errorf("theil_index: value %g at position %d: %w", v, i, ErrNonPositive)
		}
		sum += v * math.Log(v/m)
	}
	return sum, nil
}

func ascending(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
