package behavior

import (
	"time"

	"github.com/google/uuid"
)

// Classification labels a customer archetype. Exactly one label applies;
// evaluation order is the priority ladder in classify.
type Classification string

const (
	ClassFraudSuspect   Classification = "fraud_suspect"
	ClassRepeatOffender Classification = "repeat_offender"
	ClassHighValue      Classification = "high_value"
	ClassSensitive      Classification = "sensitive"
	ClassAngry          Classification = "angry"
	ClassNew            Classification = "new"
	ClassNormal         Classification = "normal"
)

// Trait is an independent behavioral pattern observed on a customer
type Trait struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Impact      string `json:"impact"` // "positive", "negative" or "neutral"
}

// Recommendation is the handling guidance derived from the classification
type Recommendation struct {
	ShouldApprove   bool     `json:"should_approve"`
	ObjectionLevel  string   `json:"objection_level"`
	Tone            string   `json:"tone"`
	SpecialHandling []string `json:"special_handling,omitempty"`
}

// Prediction estimates future refund behavior
type Prediction struct {
	RecurrenceProbability int    `json:"recurrence_probability"` // 0-100
	RetentionRisk         string `json:"retention_risk"`         // "low", "medium" or "high"
}

// Profile is the customer behavioral metrics bundle.
// Always a fresh snapshot of the inputs; never versioned or mutated.
type Profile struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Platform   string    `json:"platform"`

	TotalOrders         int `json:"total_orders"`
	TotalRefundRequests int `json:"total_refund_requests"`
	ApprovedRefunds     int `json:"approved_refunds"`
	RejectedRefunds     int `json:"rejected_refunds"`
	DisputedRefunds     int `json:"disputed_refunds"`

	RefundRate          float64  `json:"refund_rate"`   // Percent of orders refunded
	ApprovalRate        float64  `json:"approval_rate"` // Percent of refunds approved
	OrderFrequency      float64  `json:"order_frequency"`
	RefundFrequencyDays *float64 `json:"refund_frequency_days,omitempty"` // Nil below 2 refunds

	TotalSpent    float64 `json:"total_spent"`
	TotalRefunded float64 `json:"total_refunded"`
	AvgOrderValue float64 `json:"avg_order_value"`

	Classification Classification `json:"classification"`
	BehaviorScore  int            `json:"behavior_score"` // 0-100
	TrustScore     int            `json:"trust_score"`    // 0-100

	Traits         []Trait        `json:"traits"`
	Recommendation Recommendation `json:"recommendation"`
	Prediction     Prediction     `json:"prediction"`

	GeneratedAt time.Time `json:"generated_at"`
}
