package rootcause

import (
	"fmt"
	"strings"
	"time"

	"github.com/richxcame/refund-analysis/internal/behavior"
	"github.com/richxcame/refund-analysis/internal/claims"
)

// SLA bounds used when the stated reason carries no usable keyword
const (
	prepSLA     = 30 * time.Minute
	deliverySLA = 45 * time.Minute
)

// causeRule maps reason-text keywords to a root cause and department.
// Rules are evaluated in order; the first keyword hit wins.
type causeRule struct {
	keywords   []string
	cause      string
	department Department
}

var causeTable = []causeRule{
	{
		keywords:   []string{"late", "delay"},
		cause:      "Order was delivered later than the promised window",
		department: DeptDelivery,
	},
	{
		keywords:   []string{"wrong", "incorrect"},
		cause:      "An incorrect item was packed into the order",
		department: DeptPackaging,
	},
	{
		keywords:   []string{"missing"},
		cause:      "An ordered item was left out of the bag",
		department: DeptPackaging,
	},
	{
		keywords:   []string{"quality", "bad", "burnt", "raw"},
		cause:      "Food quality did not meet preparation standards",
		department: DeptKitchen,
	},
	{
		keywords:   []string{"cold", "temperature"},
		cause:      "Order lost temperature before reaching the customer",
		department: DeptDelivery,
	},
	{
		keywords:   []string{"damaged", "spilled"},
		cause:      "Packaging failed to protect the order in transit",
		department: DeptPackaging,
	},
	{
		keywords:   []string{"cancel", "unavailable"},
		cause:      "Item availability or order management failure",
		department: DeptOperations,
	},
}

const fallbackCause = "Root cause requires investigation"

// Analyze classifies the claim's operational root cause and quantifies its
// impact. fraudScore comes from the fraud scorer; profile may be nil.
func Analyze(claim *claims.RefundClaim, profile *behavior.Profile, fraudScore int, now time.Time) *Analysis {
	cause, dept := classifyCause(claim)

	a := &Analysis{
		ClaimID:    claim.ID,
		RootCause:  cause,
		Department: dept,
		Impact:     financialImpact(claim, profile, fraudScore),
		AnalyzedAt: now,
	}

	a.CorrectiveActions = correctiveActionsFor(dept)
	a.PreventionStrategies = preventionStrategiesFor(dept)
	a.Recommendation = decide(fraudScore, claim.ClaimedAmount)
	a.Summary = fmt.Sprintf("%s; responsibility assigned to %s, recommended decision %s",
		cause, dept, a.Recommendation.Decision)

	return a
}

// classifyCause matches the stated reason against the keyword table, falling
// back to preparation/delivery durations, then to an investigation marker.
func classifyCause(claim *claims.RefundClaim) (string, Department) {
	text := strings.ToLower(claim.ReasonText)

	for _, rule := range causeTable {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.cause, rule.department
			}
		}
	}

	if prep, ok := claim.PrepDuration(); ok && prep > prepSLA {
		return "Kitchen preparation exceeded its service window", DeptKitchen
	}
	if del, ok := claim.DeliveryDuration(); ok && del > deliverySLA {
		return "Courier hand-off to drop-off exceeded its service window", DeptDelivery
	}

	return fallbackCause, DeptOperations
}

// financialImpact estimates loss, projected future risk and recovery potential
func financialImpact(claim *claims.RefundClaim, profile *behavior.Profile, fraudScore int) FinancialImpact {
	impact := FinancialImpact{EstimatedLoss: claim.ClaimedAmount}

	if profile != nil {
		multiplier := 0.0
		switch {
		case profile.RefundRate > 30:
			multiplier = 3
		case profile.RefundRate > 15:
			multiplier = 1.5
		}
		impact.FutureRisk = profile.AvgOrderValue * multiplier
	}

	fraction := 0.0
	switch {
	case fraudScore > 70:
		fraction = 0.8
	case fraudScore > 50:
		fraction = 0.5
	case fraudScore > 30:
		fraction = 0.3
	}
	impact.RecoveryPotential = claim.ClaimedAmount * fraction

	return impact
}

// Customer communication closes every corrective plan
var customerCommunicationStep = CorrectiveAction{
	Action:      "Inform the customer of the findings and resolution",
	Responsible: "customer support",
	Timeline:    "within 24 hours",
}

func correctiveActionsFor(dept Department) []CorrectiveAction {
	var actions []CorrectiveAction

	switch dept {
	case DeptKitchen:
		actions = []CorrectiveAction{
			{Action: "Review preparation checklist for the affected items", Responsible: "head chef", Timeline: "within 48 hours"},
			{Action: "Spot-check plating temperature before hand-off", Responsible: "kitchen shift lead", Timeline: "ongoing"},
		}
	case DeptPackaging:
		actions = []CorrectiveAction{
			{Action: "Reconcile packed items against the order ticket", Responsible: "packing station lead", Timeline: "immediate"},
			{Action: "Switch fragile items to reinforced containers", Responsible: "purchasing", Timeline: "within 2 weeks"},
		}
	case DeptDelivery:
		actions = []CorrectiveAction{
			{Action: "Audit courier pickup-to-dropoff times on this route", Responsible: "dispatch coordinator", Timeline: "within 72 hours"},
			{Action: "Use insulated bags for temperature-sensitive orders", Responsible: "courier operations", Timeline: "immediate"},
		}
	case DeptPlatform:
		actions = []CorrectiveAction{
			{Action: "Reconcile menu and stock data shown on the platform", Responsible: "platform account manager", Timeline: "within 48 hours"},
		}
	default: // operations
		actions = []CorrectiveAction{
			{Action: "Verify live stock levels against the published menu", Responsible: "branch manager", Timeline: "within 24 hours"},
		}
	}

	return append(actions, customerCommunicationStep)
}

func preventionStrategiesFor(dept Department) []PreventionStrategy {
	switch dept {
	case DeptKitchen:
		return []PreventionStrategy{
			{Category: "preparation_quality", ExpectedImprovement: "15-25% fewer quality complaints"},
			{Category: "staff_training", ExpectedImprovement: "10-20% fewer repeat defects"},
		}
	case DeptPackaging:
		return []PreventionStrategy{
			{Category: "order_verification", ExpectedImprovement: "30-50% fewer missing-item claims"},
			{Category: "packaging_materials", ExpectedImprovement: "20-35% fewer damage claims"},
		}
	case DeptDelivery:
		return []PreventionStrategy{
			{Category: "route_optimization", ExpectedImprovement: "15-30% fewer late deliveries"},
			{Category: "thermal_packaging", ExpectedImprovement: "25-40% fewer temperature complaints"},
		}
	case DeptPlatform:
		return []PreventionStrategy{
			{Category: "listing_accuracy", ExpectedImprovement: "10-20% fewer availability claims"},
		}
	default:
		return []PreventionStrategy{
			{Category: "process_review", ExpectedImprovement: "10-15% fewer operational claims"},
		}
	}
}

// decide runs the analyzer's own decision ladder. Deliberately separate from
// the fraud scorer's recommendation: this output targets operations, not the
// dispute workflow.
func decide(fraudScore int, amount float64) Recommendation {
	switch {
	case fraudScore >= 70:
		return Recommendation{
			Decision:   DecisionDispute,
			Confidence: "high",
			Reasoning:  "Fraud signals are strong enough to contest the claim",
		}
	case fraudScore >= 50 || amount > 200:
		return Recommendation{
			Decision:   DecisionInvestigate,
			Confidence: "medium",
			Reasoning:  "Either the fraud score or the claimed amount warrants a closer look",
		}
	case fraudScore < 30 && amount < 100:
		return Recommendation{
			Decision:   DecisionApprove,
			Confidence: "high",
			Reasoning:  "Low risk and low amount; approving is cheaper than contesting",
		}
	default:
		return Recommendation{
			Decision:   DecisionReject,
			Confidence: "low",
			Reasoning:  "Mid-range signals without enough evidence to approve outright",
		}
	}
}
