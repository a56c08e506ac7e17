package analytics

import "math"

// round1 rounds to one decimal place with half-up rounding. Every percentage,
// average, and ratio in a snapshot goes through this single rule.
func round1(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// safeRate returns numerator/denominator as a rounded percentage, or 0 when
// the denominator is zero.
func safeRate(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return round1(numerator / denominator * 100)
}

// safeAverage returns the rounded arithmetic mean of values, or 0 when values
// is empty.
func safeAverage(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return round1(sum / float64(len(values)))
}
