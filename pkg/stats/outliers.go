package stats

import "math"

// ClipPercentiles clips x to its lower and upper percentiles (0..100).
// Missing values stay NaN. The input is not modified.
func ClipPercentiles(x []float64, lower, upper float64) []float64 {
	low := Percentile(x, lower)
	high := Percentile(x, upper)
	out := make([]float64, len(x))
	for i, v := range x {
		switch {
		case math.IsNaN(v):
			out[i] = v
		case v < low:
			out[i] = low
		case v > high:
			out[i] = high
		default:
			out[i] = v
		}
	}
	return out
}
