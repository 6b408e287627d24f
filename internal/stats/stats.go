// Package stats provides the descriptive statistics used by the analysis
// and training stages.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Description summarises one numeric column.
type Description struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Q25   float64
	Q50   float64
	Q75   float64
	Max   float64
}

// Present returns the non-NaN values of xs in their original order.
func Present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Quantile returns the p-quantile of sorted values using linear
// interpolation between the closest ranks (Hyndman-Fan type 7). gonum's
// stat.Quantile only offers Empirical (type 1) and LinInterp (type 4), so
// this estimator is computed here. NaN for an empty input.
func Quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Median returns the interpolated median of xs ignoring NaN values.
func Median(xs []float64) float64 {
	vals := Present(xs)
	sort.Float64s(vals)
	return Quantile(0.5, vals)
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max of xs ignoring NaN values. Std is NaN for fewer than two values;
// every statistic except Count is NaN for an empty column.
func Describe(xs []float64) Description {
	vals := Present(xs)
	d := Description{Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		d.Mean, d.Std, d.Min, d.Q25, d.Q50, d.Q75, d.Max = nan, nan, nan, nan, nan, nan, nan
		return d
	}

	sort.Float64s(vals)
	d.Mean = stat.Mean(vals, nil)
	if len(vals) > 1 {
		d.Std = stat.StdDev(vals, nil)
	} else {
		d.Std = math.NaN()
	}
	d.Min = vals[0]
	d.Max = vals[len(vals)-1]
	d.Q25 = Quantile(0.25, vals)
	d.Q50 = Quantile(0.5, vals)
	d.Q75 = Quantile(0.75, vals)
	return d
}

// FillNaN returns a copy of xs with NaN values replaced by v.
func FillNaN(xs []float64, v float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = v
			continue
		}
		out[i] = x
	}
	return out
}
