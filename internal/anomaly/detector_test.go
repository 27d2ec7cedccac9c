package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(values ...float64) []Point {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	points := make([]Point, len(values))
	for i, v := range values {
		at := base.AddDate(0, 0, i)
		points[i] = Point{Key: at.Format("2006-01-02"), At: at, Value: v}
	}
	return points
}

func TestDetectSeriesEmptyAndConstant(t *testing.T) {
	assert.Empty(t, DetectSeries(nil, SubjectRevenue, MethodZScore))

	// Zero variance never divides by zero and never flags
	constant := seriesOf(100, 100, 100, 100, 100, 100, 100)
	assert.Empty(t, DetectSeries(constant, SubjectRevenue, MethodZScore))
	assert.Empty(t, DetectSeries(constant, SubjectBranch, MethodZScore))
}

func TestDetectSeriesRevenueSpike(t *testing.T) {
	series := seriesOf(100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 500)

	records := DetectSeries(series, SubjectRevenue, MethodZScore)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, SubjectRevenue, r.Subject)
	assert.Equal(t, 500.0, r.Observed)
	assert.Equal(t, ClassSpike, r.Classification)
	assert.Equal(t, SeverityCritical, r.Severity)
	assert.Greater(t, r.Deviation, 3.0)
	assert.Equal(t, "2026-03-11", r.Key)
}

func TestDetectSeriesRevenueDrop(t *testing.T) {
	series := seriesOf(100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 0)

	records := DetectSeries(series, SubjectRevenue, MethodZScore)
	require.Len(t, records, 1)
	assert.Equal(t, ClassDrop, records[0].Classification)
}

func TestDetectSeriesThresholdDependsOnSubject(t *testing.T) {
	// The outlier sits around z=2.05: past the performance threshold (2.0)
	// but short of the revenue threshold (2.5)
	series := seriesOf(8, 9, 10, 11, 12, 8, 9, 10, 11, 12, 14)

	assert.Empty(t, DetectSeries(series, SubjectRevenue, MethodZScore))

	records := DetectSeries(series, SubjectBranch, MethodZScore)
	require.Len(t, records, 1)
	assert.Equal(t, SeverityWarning, records[0].Severity)
	assert.Greater(t, records[0].Deviation, 2.0)
	assert.Less(t, records[0].Deviation, 2.5)
}

func TestDetectSeriesRevenueIQR(t *testing.T) {
	series := seriesOf(10, 20, 30, 40, 50, 60, 70, 80, 200)

	records := DetectSeries(series, SubjectRevenue, MethodIQR)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, ClassUnusuallyHigh, r.Classification)
	assert.Equal(t, 200.0, r.Observed)
	assert.InDelta(t, 130.0, r.Expected, 0.001) // Q3 + 1.5*IQR
	assert.Equal(t, SeverityInfo, r.Severity)
}

func TestDetectActivityGaps(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []time.Time{
		start,
		start.Add(2 * time.Hour),   // Normal
		start.Add(32 * time.Hour),  // 30h gap: warning
		start.Add(120 * time.Hour), // 88h gap: critical
	}

	records := DetectActivityGaps(events)
	require.Len(t, records, 2)

	assert.Equal(t, SeverityWarning, records[0].Severity)
	assert.Equal(t, ClassInactivityGap, records[0].Classification)
	assert.InDelta(t, 30.0, records[0].Observed, 0.001)

	assert.Equal(t, SeverityCritical, records[1].Severity)
	assert.InDelta(t, 88.0, records[1].Observed, 0.001)
	assert.Equal(t, SubjectActivity, records[1].Subject)
}

func TestDetectActivityGapsShortSequences(t *testing.T) {
	assert.Empty(t, DetectActivityGaps(nil))
	assert.Empty(t, DetectActivityGaps([]time.Time{time.Now()}))
}
