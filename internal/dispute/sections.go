package dispute

import (
	"fmt"
	"strings"

	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/fraud"
)

// Each level assembles the same five sections (greeting, evidence, policy,
// demands, closing) with strictly increasing assertiveness and evidence
// density. All content is deterministic template filling; nothing free-form.

func greeting(level Level, claim *claims.RefundClaim) string {
	ref := fmt.Sprintf("order %s placed %s", claim.ID, claim.OrderTime.Format("2006-01-02 15:04"))

	switch level {
	case LevelLight:
		return fmt.Sprintf("Hello,\n\nWe reviewed the refund request for %s and would like to share our side before a decision is made.", ref)
	case LevelModerate:
		return fmt.Sprintf("Hello,\n\nWe are writing to contest the refund request for %s. Our records do not support the claim as submitted.", ref)
	case LevelStrong:
		return fmt.Sprintf("To the review team,\n\nWe formally object to the refund request for %s. The claim is inconsistent with our operational records, detailed below.", ref)
	case LevelHard:
		return fmt.Sprintf("To the review team,\n\nWe firmly reject the refund request for %s and request that it be denied. The claim contradicts documented facts on multiple points.", ref)
	default: // aggressive
		return fmt.Sprintf("To the dispute resolution team,\n\nWe categorically reject the refund request for %s and demand its immediate denial. The evidence below indicates a pattern consistent with refund abuse.", ref)
	}
}

// evidenceSection cites the evidence refs, escalating density with level:
// light quotes the single strongest item, moderate the top two, strong and
// above cite everything, hard adds triggered indicators, aggressive adds
// detected cross-claim patterns.
func evidenceSection(level Level, refs []EvidenceRef, analysis *fraud.Result) string {
	if len(refs) == 0 && level == LevelLight {
		return "Our order records for this delivery are complete and available on request."
	}

	cited := refs
	switch level {
	case LevelLight:
		if len(cited) > 1 {
			cited = cited[:1]
		}
	case LevelModerate:
		if len(cited) > 2 {
			cited = cited[:2]
		}
	}

	var b strings.Builder
	b.WriteString("Supporting records:\n")
	for _, ref := range cited {
		fmt.Fprintf(&b, "- %s\n", ref.Description)
	}

	if level == LevelHard || level == LevelAggressive {
		for _, ind := range analysis.Indicators {
			if ind.Severity == fraud.SeverityHigh || ind.Severity == fraud.SeverityCritical {
				fmt.Fprintf(&b, "- Review flag: %s\n", ind.Description)
			}
		}
	}

	if level == LevelAggressive {
		for _, p := range analysis.Patterns {
			fmt.Fprintf(&b, "- Historical pattern (%d%% confidence): %s\n", p.Confidence, p.Description)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// policySection is omitted below the strong level; the lighter documents rely
// on goodwill rather than terms of service.
func policySection(level Level, claim *claims.RefundClaim) string {
	switch level {
	case LevelLight, LevelModerate:
		return ""
	case LevelStrong:
		return fmt.Sprintf("Under the platform's refund policy, a claim of %.2f against an order of %.2f requires verifiable supporting evidence from the customer. That standard has not been met here.",
			claim.ClaimedAmount, claim.OrderAmount)
	case LevelHard:
		return fmt.Sprintf("The platform's refund policy places the burden of proof on the claimant. For a claim of %.2f against an order of %.2f, no verifiable evidence has been provided, and our records directly contradict the stated reason.",
			claim.ClaimedAmount, claim.OrderAmount)
	default: // aggressive
		return fmt.Sprintf("We remind the platform of its obligations to merchants under the refund policy and the partner agreement. Approving a claim of %.2f on this record would constitute payment against an unsubstantiated and pattern-matched claim, and we reserve the right to escalate through the formal partner channels.",
			claim.ClaimedAmount)
	}
}

func demands(level Level, claim *claims.RefundClaim, analysis *fraud.Result) string {
	switch level {
	case LevelLight:
		return "We kindly ask that our records be taken into account before the refund is finalized."
	case LevelModerate:
		return fmt.Sprintf("We request that the refund of %.2f be declined, or at minimum reduced to reflect the documented facts.", claim.ClaimedAmount)
	case LevelStrong:
		return fmt.Sprintf("We request that the refund of %.2f be declined in full and the claim closed.", claim.ClaimedAmount)
	case LevelHard:
		return fmt.Sprintf("We require that the refund of %.2f be denied in full, the claim closed, and the decision communicated to us in writing.", claim.ClaimedAmount)
	default:
		return fmt.Sprintf("We demand that the refund of %.2f be denied in full, that this customer's claim history (risk tier: %s) be flagged for platform-side review, and that we receive written confirmation of both actions.",
			claim.ClaimedAmount, analysis.RiskTier)
	}
}

func closing(level Level) string {
	switch level {
	case LevelLight:
		return "Thank you for your time and consideration."
	case LevelModerate:
		return "Thank you for reviewing the matter; we are available for any follow-up questions."
	case LevelStrong:
		return "We expect a reasoned decision that weighs the evidence above."
	case LevelHard:
		return "We await your written decision and retain all records cited above."
	default:
		return "Absent a satisfactory resolution, we will pursue this through every escalation channel available to partners."
	}
}

// render assembles the final document, skipping empty sections
func render(level Level, claim *claims.RefundClaim, analysis *fraud.Result, refs []EvidenceRef) string {
	sections := []string{
		greeting(level, claim),
		evidenceSection(level, refs, analysis),
		policySection(level, claim),
		demands(level, claim, analysis),
		closing(level),
	}

	kept := sections[:0]
	for _, s := range sections {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}

// openingPreview is the first line of a level's greeting, used for
// alternative-level previews
func openingPreview(level Level, claim *claims.RefundClaim) string {
	g := greeting(level, claim)
	if i := strings.Index(g, "\n"); i >= 0 {
		lines := strings.Split(g, "\n")
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				return line
			}
		}
		return lines[0]
	}
	return g
}

// levelGuidance is static reviewer guidance shown with each alternative preview
func levelGuidance(level Level) string {
	switch level {
	case LevelLight:
		return "Use when the claim is likely legitimate and the customer relationship matters more than the amount."
	case LevelModerate:
		return "Use when the facts are mixed and a polite but firm objection is appropriate."
	case LevelStrong:
		return "Use when records clearly contradict the claim and a full decline is the goal."
	case LevelHard:
		return "Use when evidence is strong and the amount or customer history justifies a formal rejection."
	default:
		return "Use only for high-confidence fraud with documented patterns; burns goodwill with the platform if overused."
	}
}
