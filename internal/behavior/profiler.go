package behavior

import (
	"time"

	"github.com/richxcame/refund-analysis/internal/claims"
)

// BuildProfile computes a customer behavioral profile from the cumulative
// counters and claim history. Pure function: now is injected, output depends
// only on the inputs.
func BuildProfile(stats claims.CustomerStats, history []*claims.RefundClaim, now time.Time) *Profile {
	p := &Profile{
		CustomerID:          stats.CustomerID,
		Platform:            stats.Platform,
		TotalOrders:         stats.TotalOrders,
		TotalRefundRequests: stats.TotalRefundRequests,
		ApprovedRefunds:     stats.ApprovedRefunds,
		RejectedRefunds:     stats.RejectedRefunds,
		DisputedRefunds:     stats.DisputedRefunds,
		TotalSpent:          stats.TotalSpent,
		TotalRefunded:       stats.TotalRefunded,
		GeneratedAt:         now,
	}

	if stats.TotalOrders > 0 {
		p.RefundRate = float64(stats.TotalRefundRequests) / float64(stats.TotalOrders) * 100
		p.AvgOrderValue = stats.TotalSpent / float64(stats.TotalOrders)
	}
	if stats.TotalRefundRequests > 0 {
		p.ApprovalRate = float64(stats.ApprovedRefunds) / float64(stats.TotalRefundRequests) * 100
	}
	if stats.FirstOrderAt != nil {
		days := now.Sub(*stats.FirstOrderAt).Hours() / 24
		if days >= 1 {
			p.OrderFrequency = float64(stats.TotalOrders) / days
		}
	}
	p.RefundFrequencyDays = refundFrequencyDays(history)

	p.Classification = classify(p)
	p.BehaviorScore = behaviorScore(p)
	p.TrustScore = trustScore(p, stats.AccountCreatedAt, now)
	p.Traits = detectTraits(p, history)
	p.Recommendation = recommendationFor(p.Classification)
	p.Prediction = predict(p)

	return p
}

// refundFrequencyDays returns the mean gap between refunds, nil below 2 refunds
func refundFrequencyDays(history []*claims.RefundClaim) *float64 {
	if len(history) < 2 {
		return nil
	}

	first := history[0].ClaimTime
	last := history[0].ClaimTime
	for _, c := range history[1:] {
		if c.ClaimTime.Before(first) {
			first = c.ClaimTime
		}
		if c.ClaimTime.After(last) {
			last = c.ClaimTime
		}
	}

	days := last.Sub(first).Hours() / 24 / float64(len(history)-1)
	return &days
}

// classify assigns the customer archetype. First matching rule wins;
// the ladder runs from most to least suspicious.
func classify(p *Profile) Classification {
	switch {
	case p.RefundRate > 50 || (p.RefundRate > 30 && p.TotalRefundRequests > 10):
		return ClassFraudSuspect
	case p.RefundRate > 25 || p.TotalRefundRequests > 8:
		return ClassRepeatOffender
	case p.TotalSpent > 3000 && p.RefundRate < 10:
		return ClassHighValue
	case p.TotalSpent > 1500 && p.RefundRate > 10 && p.RefundRate < 20:
		return ClassSensitive
	case p.RejectedRefunds > p.ApprovedRefunds && p.TotalRefundRequests >= 3:
		return ClassAngry
	case p.TotalOrders < 3:
		return ClassNew
	default:
		return ClassNormal
	}
}

// behaviorScore starts at 50 and applies tiered bonuses and penalties
func behaviorScore(p *Profile) int {
	score := 50.0

	// Order volume (0-15 points)
	switch {
	case p.TotalOrders >= 50:
		score += 15
	case p.TotalOrders >= 20:
		score += 10
	case p.TotalOrders >= 10:
		score += 5
	}

	// Low refund rate (0-15 points)
	switch {
	case p.TotalOrders >= 5 && p.RefundRate < 5:
		score += 15
	case p.TotalOrders >= 5 && p.RefundRate < 10:
		score += 10
	}

	// Lifetime spend (0-10 points)
	switch {
	case p.TotalSpent > 3000:
		score += 10
	case p.TotalSpent > 1500:
		score += 5
	}

	// High refund rate (0-35 penalty)
	switch {
	case p.RefundRate > 50:
		score -= 35
	case p.RefundRate > 30:
		score -= 25
	case p.RefundRate > 15:
		score -= 10
	}

	// Refunds arriving close together (0-15 penalty)
	if p.RefundFrequencyDays != nil {
		switch {
		case *p.RefundFrequencyDays < 3:
			score -= 15
		case *p.RefundFrequencyDays < 7:
			score -= 10
		}
	}

	// Absolute refund count (0-15 penalty)
	switch {
	case p.TotalRefundRequests > 10:
		score -= 15
	case p.TotalRefundRequests > 5:
		score -= 8
	}

	return clampScore(score)
}

// trustScore starts at 100 and subtracts penalties mirroring the refund profile
func trustScore(p *Profile, accountCreatedAt *time.Time, now time.Time) int {
	score := 100.0

	// Refund rate (0-60 penalty)
	switch {
	case p.RefundRate > 50:
		score -= 60
	case p.RefundRate > 30:
		score -= 40
	case p.RefundRate > 20:
		score -= 25
	case p.RefundRate > 10:
		score -= 10
	}

	// Refund count (0-20 penalty)
	switch {
	case p.TotalRefundRequests > 10:
		score -= 20
	case p.TotalRefundRequests > 5:
		score -= 10
	}

	// Long clean history (0-10 bonus)
	if p.TotalOrders >= 20 && p.RefundRate < 5 {
		score += 10
	}

	// Lifetime spend (0-10 bonus)
	switch {
	case p.TotalSpent > 5000:
		score += 10
	case p.TotalSpent > 2000:
		score += 5
	}

	// Account age (0-10 bonus)
	if accountCreatedAt != nil {
		age := now.Sub(*accountCreatedAt)
		switch {
		case age > 365*24*time.Hour:
			score += 10
		case age > 180*24*time.Hour:
			score += 5
		}
	}

	return clampScore(score)
}

// traitCheck emits a trait when its condition holds. The catalog is evaluated
// in declaration order so trait output is reproducible.
type traitCheck struct {
	name        string
	description string
	impact      string
	applies     func(p *Profile, history []*claims.RefundClaim) bool
}

var traitCatalog = []traitCheck{
	{
		name:        "big_spender",
		description: "Lifetime spend above 3000",
		impact:      "positive",
		applies: func(p *Profile, _ []*claims.RefundClaim) bool {
			return p.TotalSpent > 3000
		},
	},
	{
		name:        "budget_conscious",
		description: "Average order value under 50",
		impact:      "neutral",
		applies: func(p *Profile, _ []*claims.RefundClaim) bool {
			return p.TotalOrders > 0 && p.AvgOrderValue < 50
		},
	},
	{
		name:        "frequent_orderer",
		description: "Orders more than three times per week",
		impact:      "positive",
		applies: func(p *Profile, _ []*claims.RefundClaim) bool {
			return p.OrderFrequency > 3.0/7.0
		},
	},
	{
		name:        "serial_refunder",
		description: "Five or more refund requests on record",
		impact:      "negative",
		applies: func(p *Profile, _ []*claims.RefundClaim) bool {
			return p.TotalRefundRequests >= 5
		},
	},
	{
		name:        "zero_complaints",
		description: "Ordered at least five times without a single refund",
		impact:      "positive",
		applies: func(p *Profile, _ []*claims.RefundClaim) bool {
			return p.TotalOrders >= 5 && p.TotalRefundRequests == 0
		},
	},
	{
		name:        "loyal_customer",
		description: "Twenty or more orders with a refund rate under 10 percent",
		impact:      "positive",
		applies: func(p *Profile, _ []*claims.RefundClaim) bool {
			return p.TotalOrders >= 20 && p.RefundRate < 10
		},
	},
	{
		name:        "platform_hopper",
		description: "Refund claims filed across three or more platforms",
		impact:      "negative",
		applies: func(_ *Profile, history []*claims.RefundClaim) bool {
			return distinctPlatforms(history) >= 3
		},
	},
}

func detectTraits(p *Profile, history []*claims.RefundClaim) []Trait {
	traits := make([]Trait, 0)
	for _, check := range traitCatalog {
		if check.applies(p, history) {
			traits = append(traits, Trait{
				Name:        check.name,
				Description: check.description,
				Impact:      check.impact,
			})
		}
	}
	return traits
}

func distinctPlatforms(history []*claims.RefundClaim) int {
	seen := make(map[string]struct{})
	for _, c := range history {
		seen[c.Platform] = struct{}{}
	}
	return len(seen)
}

// recommendationFor maps a classification to handling guidance
func recommendationFor(class Classification) Recommendation {
	switch class {
	case ClassFraudSuspect:
		return Recommendation{
			ShouldApprove:   false,
			ObjectionLevel:  "aggressive",
			Tone:            "formal",
			SpecialHandling: []string{"escalate_to_fraud_team", "collect_full_evidence"},
		}
	case ClassRepeatOffender:
		return Recommendation{
			ShouldApprove:   false,
			ObjectionLevel:  "hard",
			Tone:            "firm",
			SpecialHandling: []string{"review_full_history"},
		}
	case ClassHighValue:
		return Recommendation{
			ShouldApprove:   true,
			ObjectionLevel:  "light",
			Tone:            "warm",
			SpecialHandling: []string{"prioritize_resolution", "offer_goodwill_gesture"},
		}
	case ClassSensitive:
		return Recommendation{
			ShouldApprove:  true,
			ObjectionLevel: "moderate",
			Tone:           "empathetic",
		}
	case ClassAngry:
		return Recommendation{
			ShouldApprove:   false,
			ObjectionLevel:  "moderate",
			Tone:            "calm",
			SpecialHandling: []string{"avoid_escalation"},
		}
	case ClassNew:
		return Recommendation{
			ShouldApprove:  true,
			ObjectionLevel: "light",
			Tone:           "welcoming",
		}
	default:
		return Recommendation{
			ShouldApprove:  true,
			ObjectionLevel: "moderate",
			Tone:           "neutral",
		}
	}
}

// predict bands the refund-recurrence probability by refund rate
func predict(p *Profile) Prediction {
	var probability int
	switch {
	case p.RefundRate > 40:
		probability = 90
	case p.RefundRate > 25:
		probability = 70
	case p.RefundRate > 15:
		probability = 50
	case p.RefundRate > 5:
		probability = 30
	default:
		probability = 10
	}

	risk := "low"
	switch {
	case p.RejectedRefunds > p.ApprovedRefunds && p.TotalRefundRequests >= 2:
		risk = "high"
	case p.RefundRate > 25:
		risk = "high"
	case p.RefundRate > 15:
		risk = "medium"
	}

	return Prediction{
		RecurrenceProbability: probability,
		RetentionRisk:         risk,
	}
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(score + 0.5)
}
