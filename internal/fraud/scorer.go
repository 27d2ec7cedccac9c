package fraud

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/richxcame/refund-analysis/internal/behavior"
	"github.com/richxcame/refund-analysis/internal/claims"
)

// Composite weights. Frequency and customer pattern dominate; claim quality
// is a tie-breaker.
const (
	weightCustomerPattern = 0.25
	weightTiming          = 0.15
	weightAmount          = 0.15
	weightFrequency       = 0.25
	weightBehavioral      = 0.15
	weightClaimQuality    = 0.05
)

// Indicator emission thresholds per sub-score
const (
	thresholdCustomerPattern = 60
	thresholdTiming          = 50
	thresholdAmount          = 40
	thresholdFrequency       = 50
	thresholdBehavioral      = 40
)

// Kitchen and courier SLAs used by the evidence-strength bonus
const (
	prepSLA     = 30 * time.Minute
	deliverySLA = 45 * time.Minute
)

const insufficientDataNote = "insufficient data"

// Analyze scores a refund claim against the customer profile and prior claim
// history. Pure function of its inputs: now is injected, identical inputs give
// identical output. profile may be nil and history may be empty; the affected
// sub-scores degrade to neutral with an explicit note.
func Analyze(claim *claims.RefundClaim, profile *behavior.Profile, history []*claims.RefundClaim, now time.Time) *Result {
	result := &Result{
		ClaimID:    claim.ID,
		CustomerID: claim.CustomerID,
		AnalyzedAt: now,
		Notes:      []string{},
	}

	sub := SubScores{
		Timing:       timingScore(claim),
		Amount:       amountScore(claim, profile),
		Frequency:    frequencyScore(history, now),
		Behavioral:   behavioralScore(claim, profile),
		ClaimQuality: claimQualityScore(claim),
	}

	if profile != nil {
		sub.CustomerPattern = customerPatternScore(profile)
	} else {
		result.Notes = append(result.Notes, insufficientDataNote+": no customer profile, pattern sub-score neutral")
	}
	if len(history) == 0 {
		result.Notes = append(result.Notes, insufficientDataNote+": no claim history, frequency sub-score neutral")
	}

	result.SubScores = sub

	composite := sub.CustomerPattern*weightCustomerPattern +
		sub.Timing*weightTiming +
		sub.Amount*weightAmount +
		sub.Frequency*weightFrequency +
		sub.Behavioral*weightBehavioral +
		sub.ClaimQuality*weightClaimQuality

	result.FraudScore = clampInt(int(math.Round(composite)))
	result.RiskTier = riskTier(result.FraudScore, claim.ClaimedAmount)
	result.Indicators = emitIndicators(claim, sub)
	result.Patterns = DetectPatterns(history, now)
	result.TrustScore = claimTrustScore(result.FraudScore, profile)
	result.EvidenceStrength = evidenceStrength(claim, result.Indicators)
	result.RecommendedAction, result.ActionChecklist = recommend(result.FraudScore)

	return result
}

// customerPatternScore combines refund rate, refund count and refund cadence
func customerPatternScore(profile *behavior.Profile) float64 {
	score := 0.0

	// Refund rate (0-40 points)
	switch {
	case profile.RefundRate > 50:
		score += 40
	case profile.RefundRate > 30:
		score += 30
	case profile.RefundRate > 15:
		score += 20
	case profile.RefundRate > 5:
		score += 10
	}

	// Total refund count (0-30 points)
	switch {
	case profile.TotalRefundRequests > 10:
		score += 30
	case profile.TotalRefundRequests > 5:
		score += 20
	case profile.TotalRefundRequests > 3:
		score += 10
	}

	// Refund cadence (0-30 points)
	if profile.RefundFrequencyDays != nil {
		switch {
		case *profile.RefundFrequencyDays < 3:
			score += 30
		case *profile.RefundFrequencyDays < 7:
			score += 20
		case *profile.RefundFrequencyDays < 14:
			score += 10
		}
	}

	return clampFloat(score)
}

// timingScore flags claims filed implausibly soon after ordering or delivery
func timingScore(claim *claims.RefundClaim) float64 {
	score := 0.0

	score += proximityPoints(claim.ClaimTime.Sub(claim.OrderTime))
	if claim.DeliveryTime != nil {
		score += proximityPoints(claim.ClaimTime.Sub(*claim.DeliveryTime))
	}

	// Late-night orders (23:00-05:00) carry a small bonus
	hour := claim.OrderTime.Hour()
	if hour >= 23 || hour < 5 {
		score += 10
	}

	return clampFloat(score)
}

// proximityPoints tiers how quickly the claim followed the reference instant
func proximityPoints(gap time.Duration) float64 {
	if gap < 0 {
		return 0
	}
	switch {
	case gap < 2*time.Minute:
		return 40
	case gap < 5*time.Minute:
		return 30
	case gap < 10*time.Minute:
		return 25
	case gap < 15*time.Minute:
		return 20
	}
	return 0
}

// amountScore tiers the claimed amount absolutely, against the order total,
// and against the customer's historical average order value
func amountScore(claim *claims.RefundClaim, profile *behavior.Profile) float64 {
	score := 0.0

	switch {
	case claim.ClaimedAmount > 500:
		score += 30
	case claim.ClaimedAmount > 300:
		score += 20
	case claim.ClaimedAmount > 200:
		score += 10
	}

	ratio := claim.RefundRatio()
	switch {
	case ratio >= 0.999:
		score += 15
	case ratio > 0.8:
		score += 10
	}

	if profile != nil && profile.AvgOrderValue > 0 {
		multiple := claim.ClaimedAmount / profile.AvgOrderValue
		switch {
		case multiple > 2:
			score += 25
		case multiple > 1.5:
			score += 15
		}
	}

	return clampFloat(score)
}

// frequencyScore tiers the customer's recent refund counts and flags
// escalating amounts across the latest claims
func frequencyScore(history []*claims.RefundClaim, now time.Time) float64 {
	score := 0.0

	last7 := countSince(history, now.Add(-7*24*time.Hour), now)
	switch {
	case last7 >= 3:
		score += 40
	case last7 >= 2:
		score += 25
	}

	last30 := countSince(history, now.Add(-30*24*time.Hour), now)
	switch {
	case last30 >= 10:
		score += 40
	case last30 >= 5:
		score += 25
	case last30 >= 3:
		score += 15
	}

	if hasEscalatingAmounts(history) {
		score += 20
	}

	return clampFloat(score)
}

func countSince(history []*claims.RefundClaim, since, until time.Time) int {
	count := 0
	for _, c := range history {
		if !c.ClaimTime.Before(since) && !c.ClaimTime.After(until) {
			count++
		}
	}
	return count
}

// Generic complaint phrases that match the whole reason text
var genericPhrases = []string{
	"bad", "terrible", "awful", "horrible", "disgusting", "not good", "very bad",
}

// Specific defect terms whose absence makes a complaint vague
var defectTerms = []string{
	"cold", "burnt", "raw", "missing", "wrong", "late", "spilled", "damaged",
	"soggy", "stale", "undercooked", "leaked",
}

// behavioralScore looks at evidence quality and the customer's archetype
func behavioralScore(claim *claims.RefundClaim, profile *behavior.Profile) float64 {
	score := 0.0

	if !claim.Evidence.HasPhotos {
		score += 15
	}
	if len(claim.ReasonText) < 20 {
		score += 15
	}
	if isVagueComplaint(claim.ReasonText) {
		score += 10
	}

	if profile != nil {
		if profile.TotalOrders <= 2 && profile.TotalRefundRequests >= 1 {
			score += 25
		}
		switch profile.Classification {
		case behavior.ClassFraudSuspect:
			score += 40
		case behavior.ClassRepeatOffender:
			score += 30
		case behavior.ClassAngry:
			score += 10
		}
	}

	return clampFloat(score)
}

// isVagueComplaint reports boilerplate phrasing with no specific defect terms
func isVagueComplaint(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return true
	}
	for _, term := range defectTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	for _, phrase := range genericPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return len(lower) < 25
}

// claimQualityScore grades the claim text and evidence on their own
func claimQualityScore(claim *claims.RefundClaim) float64 {
	score := 0.0
	lower := strings.ToLower(strings.TrimSpace(claim.ReasonText))

	for _, phrase := range genericPhrases {
		if lower == phrase {
			score += 40
			break
		}
	}

	if len(lower) < 15 {
		score += 20
	}
	if !claim.Evidence.HasPhotos && !claim.Evidence.HasNotes {
		score += 20
	}
	if strings.Contains(lower, "cold") && strings.Contains(lower, "burnt") {
		score += 20
	}
	if claim.ReasonCode == claims.ReasonMissingItem && claim.RefundRatio() >= 0.999 {
		score += 15
	}

	return clampFloat(score)
}

// riskTier derives the tier from the score with amount-aware overrides.
// A mid score on a large claim escalates; this must never collapse to a pure
// function of the score.
func riskTier(score int, amount float64) RiskTier {
	switch {
	case score >= 85 || (score >= 70 && amount >= 400):
		return RiskCritical
	case score >= 70 || (score >= 50 && amount >= 300):
		return RiskHigh
	case score >= 50 || (score >= 30 && amount >= 200):
		return RiskMedium
	default:
		return RiskLow
	}
}

// emitIndicators produces structured indicators for each sub-score above its
// threshold, plus unconditional low-severity markers for missing photos and
// vague complaints.
func emitIndicators(claim *claims.RefundClaim, sub SubScores) []Indicator {
	indicators := make([]Indicator, 0)

	if sub.CustomerPattern >= thresholdCustomerPattern {
		indicators = append(indicators, Indicator{
			Type:        IndicatorCustomerPattern,
			Severity:    SeverityHigh,
			Description: "Customer refund history shows an abusive pattern",
			Score:       sub.CustomerPattern,
		})
	}
	if sub.Timing >= thresholdTiming {
		indicators = append(indicators, Indicator{
			Type:        IndicatorTiming,
			Severity:    SeverityHigh,
			Description: "Claim was filed implausibly soon after ordering or delivery",
			Score:       sub.Timing,
		})
	}
	if sub.Amount >= thresholdAmount {
		indicators = append(indicators, Indicator{
			Type:        IndicatorAmount,
			Severity:    SeverityMedium,
			Description: "Claimed amount is anomalous for this customer and order",
			Score:       sub.Amount,
		})
	}
	if sub.Frequency >= thresholdFrequency {
		indicators = append(indicators, Indicator{
			Type:        IndicatorFrequency,
			Severity:    SeverityHigh,
			Description: "Refund requests are arriving at an unusual rate",
			Score:       sub.Frequency,
		})
	}
	if sub.Behavioral >= thresholdBehavioral {
		indicators = append(indicators, Indicator{
			Type:        IndicatorBehavioral,
			Severity:    SeverityMedium,
			Description: "Claim carries multiple behavioral warning signs",
			Score:       sub.Behavioral,
		})
	}

	if !claim.Evidence.HasPhotos {
		indicators = append(indicators, Indicator{
			Type:        IndicatorNoPhoto,
			Severity:    SeverityLow,
			Description: "No photographic evidence was supplied",
			Score:       0,
		})
	}
	if isVagueComplaint(claim.ReasonText) {
		indicators = append(indicators, Indicator{
			Type:        IndicatorVagueComplaint,
			Severity:    SeverityLow,
			Description: "Complaint text is generic with no specific defect named",
			Score:       0,
		})
	}

	return indicators
}

// claimTrustScore inverts the fraud score and adds loyalty bonuses
func claimTrustScore(fraudScore int, profile *behavior.Profile) int {
	score := float64(100 - fraudScore)

	if profile != nil {
		switch {
		case profile.TotalOrders > 20 && profile.TotalRefundRequests == 0:
			score += 20
		case profile.TotalOrders > 10 && profile.TotalRefundRequests <= 1:
			score += 10
		}
		switch {
		case profile.TotalSpent > 5000:
			score += 10
		case profile.TotalSpent > 2000:
			score += 5
		}
	}

	return clampInt(int(math.Round(score)))
}

// evidenceStrength estimates how defensible a dispute would be
func evidenceStrength(claim *claims.RefundClaim, indicators []Indicator) int {
	strength := 10 * len(indicators)
	for _, ind := range indicators {
		if ind.Severity == SeverityHigh || ind.Severity == SeverityCritical {
			strength += 15
		}
	}

	if prep, ok := claim.PrepDuration(); ok {
		strength += 10
		if prep <= prepSLA {
			strength += 10
		}
	}
	if del, ok := claim.DeliveryDuration(); ok {
		strength += 10
		if del <= deliverySLA {
			strength += 10
		}
	}

	if strength > 100 {
		strength = 100
	}
	return strength
}

// recommend maps the fraud score to an action and its fixed checklist
func recommend(score int) (RecommendedAction, []string) {
	switch {
	case score >= 85:
		return ActionRejectAndInvestigate, []string{
			"Reject the refund request",
			"Open a fraud investigation case",
			"Freeze automatic approvals for this customer",
			"Preserve all order and delivery records",
		}
	case score >= 70:
		return ActionDisputeHard, []string{
			"File a hard objection with the platform",
			"Attach the full indicator report",
			"Request customer history review from the platform",
		}
	case score >= 50:
		return ActionDisputeStrong, []string{
			"File a strong objection with supporting evidence",
			"Flag the customer for monitoring",
		}
	case score >= 30:
		return ActionReviewCarefully, []string{
			"Queue for manual review",
			"Verify order timeline against courier records",
		}
	default:
		return ActionStandardReview, []string{
			"Process through the standard refund flow",
		}
	}
}

func clampFloat(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampInt(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// describeCount is shared by pattern descriptions
func describeCount(n int, what string) string {
	return fmt.Sprintf("%d %s", n, what)
}
