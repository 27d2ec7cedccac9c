package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeBasicSequence(t *testing.T) {
	s := Describe([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.InDelta(t, 5.0, s.Mean, 0.001)
	assert.InDelta(t, 2.0, s.StdDev, 0.001)
	assert.InDelta(t, 4.5, s.Median, 0.001)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 8, s.Count)
}

func TestDescribeEmptySequence(t *testing.T) {
	s := Describe(nil)

	assert.Equal(t, 0, s.Count)
	assert.Zero(t, s.Mean)
	assert.Zero(t, s.StdDev)
}

func TestDescribeSingleValue(t *testing.T) {
	s := Describe([]float64{42})

	assert.Equal(t, 42.0, s.Mean)
	assert.Zero(t, s.StdDev)
	assert.Equal(t, 42.0, s.Median)
	assert.Equal(t, 42.0, s.Q1)
	assert.Equal(t, 42.0, s.Q3)
}

func TestDescribeDoesNotMutateInput(t *testing.T) {
	values := []float64{9, 1, 5}
	Describe(values)

	assert.Equal(t, []float64{9, 1, 5}, values)
}

func TestZScoreOutliersFlagsExtremeValue(t *testing.T) {
	values := []float64{10, 11, 10, 9, 10, 11, 9, 10, 50}
	outliers := ZScoreOutliers(values, DefaultZThreshold)

	assert.Len(t, outliers, 1)
	assert.Equal(t, 8, outliers[0].Index)
	assert.Equal(t, 50.0, outliers[0].Value)
	assert.Greater(t, outliers[0].Severity, DefaultZThreshold)
}

func TestZScoreOutliersConstantSeriesProducesNone(t *testing.T) {
	values := []float64{7, 7, 7, 7, 7}
	outliers := ZScoreOutliers(values, DefaultZThreshold)

	assert.Empty(t, outliers)
}

func TestZScoreOutliersEmptySeries(t *testing.T) {
	assert.Empty(t, ZScoreOutliers(nil, DefaultZThreshold))
}

func TestIQROutliersFlagsValuesOutsideBounds(t *testing.T) {
	values := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5, 100}
	outliers := IQROutliers(values, DefaultIQRFactor)

	assert.Len(t, outliers, 1)
	assert.Equal(t, 100.0, outliers[0].Value)
	assert.Greater(t, outliers[0].Severity, 0.0)
}

func TestIQROutliersConstantSeriesProducesNone(t *testing.T) {
	values := []float64{3, 3, 3, 3}
	outliers := IQROutliers(values, DefaultIQRFactor)

	assert.Empty(t, outliers)
}

func TestPercentileInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4}

	assert.InDelta(t, 2.5, percentile(sorted, 0.50), 0.001)
	assert.InDelta(t, 1.75, percentile(sorted, 0.25), 0.001)
	assert.InDelta(t, 3.25, percentile(sorted, 0.75), 0.001)
}
