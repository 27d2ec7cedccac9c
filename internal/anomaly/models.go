package anomaly

import "time"

// Subject identifies which aggregated series a record was flagged in
type Subject string

const (
	SubjectRevenue  Subject = "revenue"
	SubjectOrders   Subject = "orders"
	SubjectActivity Subject = "activity"
	SubjectCategory Subject = "category"
	SubjectBranch   Subject = "branch"
)

// Severity bands an anomaly by how far it sits from the expected value
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Classification names the shape of the anomaly
type Classification string

const (
	ClassSpike         Classification = "spike"
	ClassDrop          Classification = "drop"
	ClassUnusuallyHigh Classification = "unusually_high"
	ClassUnusuallyLow  Classification = "unusually_low"
	ClassInactivityGap Classification = "inactivity_gap"
)

// Method selects the statistical detector applied to a series
type Method string

const (
	MethodZScore Method = "zscore"
	MethodIQR    Method = "iqr"
)

// Point is one sample in a subject series
type Point struct {
	Key   string    `json:"key"` // Date key or dimension label (branch code, category name)
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

// Record is a single flagged anomaly
type Record struct {
	Subject        Subject        `json:"subject"`
	Key            string         `json:"key"`
	At             time.Time      `json:"at"`
	Observed       float64        `json:"observed"`
	Expected       float64        `json:"expected"`
	Deviation      float64        `json:"deviation"` // Z-score magnitude or IQR-unit distance
	Severity       Severity       `json:"severity"`
	Classification Classification `json:"classification"`
	Description    string         `json:"description"`
}
