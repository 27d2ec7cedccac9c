package analysis

import (
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/refund-analysis/internal/anomaly"
	"github.com/richxcame/refund-analysis/internal/behavior"
	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/dispute"
	"github.com/richxcame/refund-analysis/internal/fraud"
	"github.com/richxcame/refund-analysis/internal/rootcause"
)

// AnalyzeRequest carries a new claim plus the platform data layer's counter
// snapshot for the claiming customer. The engine never reaches back into the
// platform for data; everything it scores on arrives here.
type AnalyzeRequest struct {
	Claim         claims.RefundClaim   `json:"claim"`
	CustomerStats claims.CustomerStats `json:"customer_stats"`
}

// AnalyzeResponse bundles the full pipeline output for one claim
type AnalyzeResponse struct {
	Claim          *claims.RefundClaim `json:"claim"`
	Profile        *behavior.Profile   `json:"profile"`
	Fraud          *fraud.Result       `json:"fraud"`
	RootCause      *rootcause.Analysis `json:"root_cause"`
	SuggestedLevel dispute.Level       `json:"suggested_dispute_level"`
}

// DisputeRequest asks for an objection against a previously analyzed claim.
// An empty level means auto-selection from the fraud score.
type DisputeRequest struct {
	ClaimID uuid.UUID     `json:"claim_id"`
	Level   dispute.Level `json:"level,omitempty"`
}

// AnomalyRequest carries an aggregated series and, optionally, a raw event
// timeline for inactivity-gap scanning
type AnomalyRequest struct {
	Subject anomaly.Subject `json:"subject"`
	Method  anomaly.Method  `json:"method,omitempty"`
	Series  []anomaly.Point `json:"series"`
	Events  []time.Time     `json:"events,omitempty"`
}
