package dispute

import (
	"fmt"
	"sort"
	"time"

	"github.com/richxcame/refund-analysis/internal/behavior"
	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/fraud"
	"github.com/richxcame/refund-analysis/internal/platform"
)

// defaultEvidenceWeight applies when no platform profile supplies a weight map
const defaultEvidenceWeight = 0.5

// SelectLevel picks the escalation level from the fraud score, the customer's
// refund rate and the claimed amount. Total and deterministic: every input
// maps to exactly one level.
func SelectLevel(fraudScore int, refundRate float64, amount float64) Level {
	switch {
	case fraudScore >= 80 || (refundRate >= 60 && fraudScore >= 60):
		return LevelAggressive
	case fraudScore >= 65 || (amount > 300 && fraudScore >= 50):
		return LevelHard
	case fraudScore >= 45 || refundRate >= 30:
		return LevelStrong
	case fraudScore >= 25 || amount > 100:
		return LevelModerate
	default:
		return LevelLight
	}
}

// Generate renders a dispute objection for the claim. An empty level triggers
// auto-selection; profile and plat may be nil. The text is pure template
// filling over the supplied inputs, so identical inputs yield identical output.
func Generate(claim *claims.RefundClaim, analysis *fraud.Result, profile *behavior.Profile, level Level, plat *platform.Profile, now time.Time) *Objection {
	if level == "" {
		refundRate := 0.0
		if profile != nil {
			refundRate = profile.RefundRate
		}
		level = SelectLevel(analysis.FraudScore, refundRate, claim.ClaimedAmount)
	}

	refs := buildEvidenceRefs(claim, analysis, plat)

	o := &Objection{
		ClaimID:      claim.ID,
		Platform:     claim.Platform,
		Level:        level,
		Text:         render(level, claim, analysis, refs),
		Confidence:   confidence(analysis, plat),
		EvidenceRefs: refs,
		Alternatives: alternatives(level, claim),
		GeneratedAt:  now,
	}

	if plat != nil {
		optimizeForPlatform(o, plat)
	}

	return o
}

// buildEvidenceRefs collects every evidence item the records support, weighted
// by the platform's preferences and sorted strongest first
func buildEvidenceRefs(claim *claims.RefundClaim, analysis *fraud.Result, plat *platform.Profile) []EvidenceRef {
	weight := func(kind string) float64 {
		if plat != nil {
			if w, ok := plat.EvidenceWeights[kind]; ok {
				return w
			}
		}
		return defaultEvidenceWeight
	}

	refs := make([]EvidenceRef, 0, 4)

	if del, ok := claim.DeliveryDuration(); ok {
		refs = append(refs, EvidenceRef{
			Kind:        "delivery_timing",
			Description: fmt.Sprintf("Courier records show the order was delivered %.0f minutes after kitchen handoff", del.Minutes()),
			Weight:      weight("delivery_timing"),
		})
	}
	if claim.Evidence.HasPhotos {
		refs = append(refs, EvidenceRef{
			Kind:        "photos",
			Description: "Customer-supplied photos are on file and were reviewed against the order contents",
			Weight:      weight("photos"),
		})
	}
	if claim.Evidence.HasNotes {
		refs = append(refs, EvidenceRef{
			Kind:        "notes",
			Description: "The customer's written notes were compared against the kitchen and courier records",
			Weight:      weight("notes"),
		})
	}
	if len(analysis.Patterns) > 0 || analysis.FraudScore >= 50 {
		refs = append(refs, EvidenceRef{
			Kind:        "order_history",
			Description: fmt.Sprintf("The customer's claim history was analyzed (fraud score %d, evidence strength %d)", analysis.FraudScore, analysis.EvidenceStrength),
			Weight:      weight("order_history"),
		})
	}

	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Weight != refs[j].Weight {
			return refs[i].Weight > refs[j].Weight
		}
		return refs[i].Kind < refs[j].Kind
	})

	return refs
}

// confidence estimates the chance the objection succeeds: evidence strength
// carries more weight than the raw fraud score, with a small bonus for
// platforms that historically side with merchants
func confidence(analysis *fraud.Result, plat *platform.Profile) int {
	c := (analysis.EvidenceStrength*6 + analysis.FraudScore*4) / 10
	if plat != nil {
		c += int(plat.SuccessRate * 10)
	}
	if c > 100 {
		c = 100
	}
	if c < 0 {
		c = 0
	}
	return c
}

// alternatives previews the four non-selected levels for reviewer comparison
func alternatives(selected Level, claim *claims.RefundClaim) []AlternativePreview {
	previews := make([]AlternativePreview, 0, len(Levels)-1)
	for _, l := range Levels {
		if l == selected {
			continue
		}
		previews = append(previews, AlternativePreview{
			Level:    l,
			Opening:  openingPreview(l, claim),
			Guidance: levelGuidance(l),
		})
	}
	return previews
}

// optimizeForPlatform adjusts the tone label and flags (never truncates) a
// length overrun against the platform's configured maximum
func optimizeForPlatform(o *Objection, plat *platform.Profile) {
	o.Tone = plat.Tone
	if plat.MaxLength > 0 && len(o.Text) > plat.MaxLength {
		o.LengthWarning = true
	}
}
