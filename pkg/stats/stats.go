package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Valid returns the non-NaN values of x in order.
func Valid(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean computes the average of the non-missing values (0 when there are none).
func Mean(x []float64) float64 {
	v := Valid(x)
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}

// Variance computes the unbiased sample variance of the non-missing values.
// Fewer than two values yield 0.
func Variance(x []float64) float64 {
	v := Valid(x)
	if len(v) < 2 {
		return 0
	}
	return stat.Variance(v, nil)
}

// MinMax returns the minimum and maximum non-missing values.
func MinMax(x []float64) (float64, float64) {
	v := Valid(x)
	if len(v) == 0 {
		return 0, 0
	}
	min, max := v[0], v[0]
	for i := 1; i < len(v); i++ {
		if v[i] < min {
			min = v[i]
		} else if v[i] > max {
			max = v[i]
		}
	}
	return min, max
}

// Median returns the median of the non-missing values (allocates a copy).
func Median(x []float64) float64 {
	cp := Valid(x)
	n := len(cp)
	if n == 0 {
		return 0
	}
	sort.Float64s(cp)
	mid := n >> 1
	if n&1 == 0 {
		return (cp[mid-1] + cp[mid]) * 0.5
	}
	return cp[mid]
}

// Mode returns the most frequent non-missing value; ties go to the value
// that reached the winning count first.
func Mode(x []float64) float64 {
	v := Valid(x)
	if len(v) == 0 {
		return 0
	}
	counts := make(map[float64]int)
	maxCount := 0
	mode := v[0]
	for _, e := range v {
		counts[e]++
		if counts[e] > maxCount {
			maxCount = counts[e]
			mode = e
		}
	}
	return mode
}

// ModeString is Mode for text values, skipping "".
func ModeString(x []string) string {
	counts := make(map[string]int)
	maxCount := 0
	mode := ""
	for _, e := range x {
		if e == "" {
			continue
		}
		counts[e]++
		if counts[e] > maxCount {
			maxCount = counts[e]
			mode = e
		}
	}
	return mode
}

// Percentile returns the p-th percentile (0 <= p <= 100) of the non-missing
// values using linear interpolation between closest ranks.
func Percentile(x []float64, p float64) float64 {
	cp := Valid(x)
	n := len(cp)
	if n == 0 {
		return 0
	}
	sort.Float64s(cp)
	if p <= 0 {
		return cp[0]
	}
	if p >= 100 {
		return cp[n-1]
	}
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}
