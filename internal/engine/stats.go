// Package engine implements the financial analytics computations: monthly
// bucketing, expense projection, elasticity analysis, life-event detection,
// budget archetypes, health scoring and budget feasibility grading.
//
// Every function in this package is pure and stateless: it operates on an
// immutable snapshot of caller-supplied records and returns freshly
// constructed values. Insufficient data degrades to documented neutral
// results, never to an error.
package engine

import (
	"math"
	"sort"
)

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// coefficientOfVariation returns stdDev/mean, or 0 when the mean is 0.
func coefficientOfVariation(values []float64) float64 {
	avg := mean(values)
	if avg == 0 {
		return 0
	}
	return stdDev(values) / avg
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
