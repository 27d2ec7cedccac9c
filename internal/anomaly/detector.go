package anomaly

import (
	"fmt"
	"time"

	"github.com/richxcame/refund-analysis/internal/stats"
)

// Detection thresholds per series family
const (
	revenueZThreshold     = 2.5
	performanceZThreshold = 2.0

	gapWarning  = 24 * time.Hour
	gapCritical = 72 * time.Hour
)

// DetectSeries flags outliers in a subject series. Revenue series use a looser
// Z-score threshold and may opt into IQR detection via method; everything else
// runs the standard Z-score detector. A zero-variance series yields no records.
func DetectSeries(series []Point, subject Subject, method Method) []Record {
	if len(series) == 0 {
		return []Record{}
	}

	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	summary := stats.Describe(values)

	var outliers []stats.Outlier
	switch {
	case subject == SubjectRevenue && method == MethodIQR:
		outliers = stats.IQROutliers(values, stats.DefaultIQRFactor)
	case subject == SubjectRevenue:
		outliers = stats.ZScoreOutliers(values, revenueZThreshold)
	default:
		outliers = stats.ZScoreOutliers(values, performanceZThreshold)
	}

	records := make([]Record, 0, len(outliers))
	for _, o := range outliers {
		p := series[o.Index]
		records = append(records, Record{
			Subject:        subject,
			Key:            p.Key,
			At:             p.At,
			Observed:       o.Value,
			Expected:       o.Expected,
			Deviation:      o.Severity,
			Severity:       severityFor(o.Severity),
			Classification: classify(o.Value, summary.Mean, method, subject),
			Description: fmt.Sprintf("%s at %s deviates from expected %.2f (observed %.2f)",
				subject, p.Key, o.Expected, o.Value),
		})
	}

	return records
}

// DetectActivityGaps scans a timestamp-ordered event sequence for silent
// stretches between consecutive events. Runs independently of the statistical
// path: a series can be outlier-free and still carry a critical gap.
func DetectActivityGaps(events []time.Time) []Record {
	records := make([]Record, 0)

	for i := 1; i < len(events); i++ {
		gap := events[i].Sub(events[i-1])
		if gap <= gapWarning {
			continue
		}

		severity := SeverityWarning
		if gap > gapCritical {
			severity = SeverityCritical
		}

		records = append(records, Record{
			Subject:        SubjectActivity,
			Key:            events[i-1].Format("2006-01-02"),
			At:             events[i],
			Observed:       gap.Hours(),
			Expected:       gapWarning.Hours(),
			Deviation:      gap.Hours() / gapWarning.Hours(),
			Severity:       severity,
			Classification: ClassInactivityGap,
			Description:    fmt.Sprintf("no activity for %.1f hours", gap.Hours()),
		})
	}

	return records
}

func severityFor(deviation float64) Severity {
	switch {
	case deviation > 3:
		return SeverityCritical
	case deviation > 2:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// classify labels direction relative to the series mean. The IQR path uses the
// unusually_high/low labels since its expected value is a bound, not the mean.
func classify(value, mean float64, method Method, subject Subject) Classification {
	if subject == SubjectRevenue && method == MethodIQR {
		if value > mean {
			return ClassUnusuallyHigh
		}
		return ClassUnusuallyLow
	}
	if value > mean {
		return ClassSpike
	}
	return ClassDrop
}
