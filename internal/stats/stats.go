package stats

import (
	"math"
	"sort"
)

// Summary holds descriptive statistics for a numeric sequence
type Summary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Median float64 `json:"median"`
	Q1     float64 `json:"q1"`
	Q3     float64 `json:"q3"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Count  int     `json:"count"`
}

// Describe computes descriptive statistics over values.
// An empty input yields a zero-valued summary; stddev is population stddev.
func Describe(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(n)

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return Summary{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Median: percentile(sorted, 0.50),
		Q1:     percentile(sorted, 0.25),
		Q3:     percentile(sorted, 0.75),
		Min:    sorted[0],
		Max:    sorted[n-1],
		Count:  n,
	}
}

// percentile returns the p-th percentile (0..1) of a sorted slice using linear interpolation
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	rank := p * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
