package fraud

import (
	"time"

	"github.com/google/uuid"
)

// Severity grades indicators and patterns
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// RiskTier is the ordered risk category. It is derived from the fraud score
// and the claimed amount jointly, never from the score alone.
type RiskTier string

const (
	RiskLow      RiskTier = "low"
	RiskMedium   RiskTier = "medium"
	RiskHigh     RiskTier = "high"
	RiskCritical RiskTier = "critical"
)

// IndicatorType identifies a single-claim fraud signal
type IndicatorType string

const (
	IndicatorCustomerPattern IndicatorType = "customer_pattern"
	IndicatorTiming          IndicatorType = "suspicious_timing"
	IndicatorAmount          IndicatorType = "amount_anomaly"
	IndicatorFrequency       IndicatorType = "high_frequency"
	IndicatorBehavioral      IndicatorType = "behavioral_signals"
	IndicatorNoPhoto         IndicatorType = "no_photo_evidence"
	IndicatorVagueComplaint  IndicatorType = "vague_complaint"
)

// Indicator is a triggered single-claim signal with its contributing sub-score
type Indicator struct {
	Type        IndicatorType `json:"type"`
	Severity    Severity      `json:"severity"`
	Description string        `json:"description"`
	Score       float64       `json:"score"`
}

// PatternType identifies a cross-claim statistical signal
type PatternType string

const (
	PatternSerialRefunder     PatternType = "serial_refunder"
	PatternRepeatedExcuse     PatternType = "repeated_excuse"
	PatternTimeBased          PatternType = "time_based"
	PatternEscalatingAmounts  PatternType = "escalating_amounts"
	PatternPlatformHopping    PatternType = "platform_hopping"
	PatternRapidSuccession    PatternType = "rapid_succession"
	PatternPotentialCollusion PatternType = "potential_collusion"
)

// Pattern is a detected cross-record signal with a fixed per-type confidence
type Pattern struct {
	Type        PatternType `json:"type"`
	Severity    Severity    `json:"severity"`
	Confidence  int         `json:"confidence"` // 0-100, fixed per pattern type
	Description string      `json:"description"`
}

// RecommendedAction is the fraud scorer's decision output
type RecommendedAction string

const (
	ActionStandardReview       RecommendedAction = "STANDARD_REVIEW"
	ActionReviewCarefully      RecommendedAction = "REVIEW_CAREFULLY"
	ActionDisputeStrong        RecommendedAction = "DISPUTE_STRONG"
	ActionDisputeHard          RecommendedAction = "DISPUTE_HARD"
	ActionRejectAndInvestigate RecommendedAction = "REJECT_AND_INVESTIGATE"
)

// SubScores holds the six independent components, each clamped to [0,100]
type SubScores struct {
	CustomerPattern float64 `json:"customer_pattern"`
	Timing          float64 `json:"timing"`
	Amount          float64 `json:"amount"`
	Frequency       float64 `json:"frequency"`
	Behavioral      float64 `json:"behavioral"`
	ClaimQuality    float64 `json:"claim_quality"`
}

// Result is the fraud analysis output for a single claim.
// Computed fresh per claim and never mutated; re-analysis produces a new Result.
type Result struct {
	ClaimID    uuid.UUID `json:"claim_id"`
	CustomerID uuid.UUID `json:"customer_id"`

	FraudScore int       `json:"fraud_score"` // 0-100
	RiskTier   RiskTier  `json:"risk_tier"`
	SubScores  SubScores `json:"sub_scores"`

	Indicators []Indicator `json:"indicators"`
	Patterns   []Pattern   `json:"patterns"`

	TrustScore       int `json:"trust_score"`       // Claim-level, distinct from profile trust
	EvidenceStrength int `json:"evidence_strength"` // 0-100

	RecommendedAction RecommendedAction `json:"recommended_action"`
	ActionChecklist   []string          `json:"action_checklist"`
	Notes             []string          `json:"notes,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}
