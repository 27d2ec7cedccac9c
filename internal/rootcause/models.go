package rootcause

import (
	"time"

	"github.com/google/uuid"
)

// Department is the operational unit responsible for the failure
type Department string

const (
	DeptKitchen    Department = "kitchen"
	DeptPackaging  Department = "packaging"
	DeptDelivery   Department = "delivery"
	DeptOperations Department = "operations"
	DeptPlatform   Department = "platform"
)

// Decision is the analyzer's final recommendation. This ladder is owned by the
// operations side and is intentionally distinct from the fraud scorer's
// recommended action.
type Decision string

const (
	DecisionApprove     Decision = "APPROVE"
	DecisionInvestigate Decision = "INVESTIGATE"
	DecisionDispute     Decision = "DISPUTE"
	DecisionReject      Decision = "REJECT"
)

// FinancialImpact quantifies the claim's monetary consequences
type FinancialImpact struct {
	EstimatedLoss     float64 `json:"estimated_loss"`
	FutureRisk        float64 `json:"future_risk"`        // Projected loss from this customer
	RecoveryPotential float64 `json:"recovery_potential"` // Expected recoverable amount via dispute
}

// CorrectiveAction is a concrete remediation step
type CorrectiveAction struct {
	Action      string `json:"action"`
	Responsible string `json:"responsible"`
	Timeline    string `json:"timeline"`
}

// PreventionStrategy is a longer-term measure with an expected improvement range
type PreventionStrategy struct {
	Category            string `json:"category"`
	ExpectedImprovement string `json:"expected_improvement"`
}

// Recommendation is the final decision with a confidence label
type Recommendation struct {
	Decision   Decision `json:"decision"`
	Confidence string   `json:"confidence"` // "low", "medium" or "high"
	Reasoning  string   `json:"reasoning"`
}

// Analysis is the root-cause and impact report for a single claim
type Analysis struct {
	ClaimID uuid.UUID `json:"claim_id"`

	RootCause  string     `json:"root_cause"`
	Department Department `json:"department"`

	Impact FinancialImpact `json:"impact"`

	CorrectiveActions    []CorrectiveAction   `json:"corrective_actions"`
	PreventionStrategies []PreventionStrategy `json:"prevention_strategies"`

	Summary        string         `json:"summary"`
	Recommendation Recommendation `json:"recommendation"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}
