// Package stat provides the pure numeric primitives shared by the rating,
// filter, indicator, and forecast packages. Functions here hold no state and
// resolve numeric edge cases (empty series, zero denominators) locally with
// guards instead of returning errors, except where the operation is
// mathematically undefined.
package stat

import "math"

// Sum returns the sum of xs. An empty series sums to 0.
func Sum(xs []float64) float64 {
	var total float64
	for _, x := range xs {
		total += x
	}
	return total
}

// Mean returns the arithmetic mean of xs. An empty series yields 0; the
// denominator is guarded with max(len, 1) so callers never see a divide
// by zero.
func Mean(xs []float64) float64 {
	return Sum(xs) / float64(max(len(xs), 1))
}

// Variance returns the mean of squared deviations from the mean of xs.
// An empty series yields 0.
func Variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var sq float64
	for _, x := range xs {
		d := x - m
		sq += d * d
	}
	return sq / float64(len(xs))
}

// StdDev returns the standard deviation of xs.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Clamp bounds x to the interval [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

// Clamp01 bounds x to the unit interval.
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Sigmoid returns the logistic function 1/(1+e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Softmax normalizes xs into a probability-like vector summing to 1. The
// computation subtracts the maximum before exponentiating for numeric
// stability. An empty input is the one undefined case and returns
// ErrEmptySeries; callers must guard.
func Softmax(xs []float64) ([]float64, error) {
	if len(xs) == 0 {
		return nil, ErrEmptySeries
	}
	peak := xs[0]
	for _, x := range xs[1:] {
		if x > peak {
			peak = x
		}
	}
	exps := make([]float64, len(xs))
	var total float64
	for i, x := range xs {
		exps[i] = math.Exp(x - peak)
		total += exps[i]
	}
	for i := range exps {
		exps[i] /= total
	}
	return exps, nil
}
