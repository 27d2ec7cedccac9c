package stats

import "math"

// Outlier marks a single flagged value in a sequence
type Outlier struct {
	Index    int     `json:"index"`
	Value    float64 `json:"value"`
	Expected float64 `json:"expected"` // Population mean (Z-score) or nearest bound (IQR)
	Severity float64 `json:"severity"` // Z-score magnitude, or distance beyond the IQR bound in IQR units
}

// Default detection parameters
const (
	DefaultZThreshold = 2.0
	DefaultIQRFactor  = 1.5
)

// ZScoreOutliers flags values whose Z-score magnitude exceeds threshold.
// A zero-variance sequence produces no outliers: every Z-score is treated as 0.
func ZScoreOutliers(values []float64, threshold float64) []Outlier {
	summary := Describe(values)
	outliers := make([]Outlier, 0)

	if summary.StdDev == 0 {
		return outliers
	}

	for i, v := range values {
		z := math.Abs(v-summary.Mean) / summary.StdDev
		if z > threshold {
			outliers = append(outliers, Outlier{
				Index:    i,
				Value:    v,
				Expected: summary.Mean,
				Severity: z,
			})
		}
	}

	return outliers
}

// IQROutliers flags values outside [q1 - k*iqr, q3 + k*iqr].
// A zero-spread sequence (iqr == 0 and all values equal) produces no outliers.
func IQROutliers(values []float64, k float64) []Outlier {
	summary := Describe(values)
	outliers := make([]Outlier, 0)
	if summary.Count == 0 {
		return outliers
	}

	iqr := summary.Q3 - summary.Q1
	lower := summary.Q1 - k*iqr
	upper := summary.Q3 + k*iqr

	for i, v := range values {
		if v >= lower && v <= upper {
			continue
		}

		bound := lower
		if v > upper {
			bound = upper
		}

		severity := 0.0
		if iqr > 0 {
			severity = math.Abs(v-bound) / iqr
		}

		outliers = append(outliers, Outlier{
			Index:    i,
			Value:    v,
			Expected: bound,
			Severity: severity,
		})
	}

	return outliers
}
