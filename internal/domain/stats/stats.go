// Package stats holds the NaN-aware reductions shared by the aggregation,
// baseline and scaling code. NaN marks a missing value and is skipped.
package stats

import (
	"math"
	"sort"
)

// Present returns the non-NaN values of xs.
func Present(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}

// Count returns how many values are present.
func Count(xs []float64) int {
	n := 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			n++
		}
	}
	return n
}

// Sum adds present values. The sum of nothing is 0.
func Sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		if !math.IsNaN(x) {
			s += x
		}
	}
	return s
}

// Mean averages present values; ok is false when none are present.
func Mean(xs []float64) (mean float64, ok bool) {
	n := Count(xs)
	if n == 0 {
		return 0, false
	}
	return Sum(xs) / float64(n), true
}

// Max returns the largest present value; ok is false when none are present.
func Max(xs []float64) (max float64, ok bool) {
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if !ok || x > max {
			max, ok = x, true
		}
	}
	return max, ok
}

// SampleStd is the n-1 standard deviation of present values; ok is false
// with fewer than two of them.
func SampleStd(xs []float64) (std float64, ok bool) {
	p := Present(xs)
	if len(p) < 2 {
		return 0, false
	}
	mean, _ := Mean(p)
	var ss float64
	for _, x := range p {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(p)-1)), true
}

// TopNMean averages the n largest present values, or all of them when
// fewer are available. ok is false when none are present or n < 1.
func TopNMean(xs []float64, n int) (mean float64, ok bool) {
	if n < 1 {
		return 0, false
	}
	p := Present(xs)
	if len(p) == 0 {
		return 0, false
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(p)))
	if len(p) > n {
		p = p[:n]
	}
	return Mean(p)
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
