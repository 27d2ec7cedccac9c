package fraud

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/refund-analysis/internal/claims"
)

// Fixed per-type confidence values
const (
	confidenceSerialRefunder     = 75
	confidenceRepeatedExcuse     = 80
	confidenceTimeBased          = 70
	confidenceEscalatingAmounts  = 85
	confidencePlatformHopping    = 65
	confidenceRapidSuccession    = 70
	confidencePotentialCollusion = 90
)

// Detection thresholds
const (
	serialRefunderMinClaims  = 5
	repeatedExcuseMinCount   = 3
	timeBasedMinRecurrence   = 4
	escalatingMinClaims      = 3
	escalatingWindow         = 5 // First N claims sorted by time
	platformHoppingMinCount  = 3
	rapidSuccessionMinClaims = 2
	collusionMinSharedDriver = 3
)

// DetectPatterns scans the customer's full historical claim set for
// cross-record signals. Pure function; now anchors the rapid-succession window.
func DetectPatterns(history []*claims.RefundClaim, now time.Time) []Pattern {
	patterns := make([]Pattern, 0)
	if len(history) == 0 {
		return patterns
	}

	if len(history) >= serialRefunderMinClaims {
		patterns = append(patterns, Pattern{
			Type:        PatternSerialRefunder,
			Severity:    SeverityHigh,
			Confidence:  confidenceSerialRefunder,
			Description: describeCount(len(history), "refund claims on record"),
		})
	}

	if count, text := mostRepeatedReason(history); count >= repeatedExcuseMinCount {
		patterns = append(patterns, Pattern{
			Type:        PatternRepeatedExcuse,
			Severity:    SeverityMedium,
			Confidence:  confidenceRepeatedExcuse,
			Description: fmt.Sprintf("Same complaint text used %d times: %q", count, text),
		})
	}

	if count, hour := mostRecurrentOrderHour(history); count >= timeBasedMinRecurrence {
		patterns = append(patterns, Pattern{
			Type:        PatternTimeBased,
			Severity:    SeverityMedium,
			Confidence:  confidenceTimeBased,
			Description: fmt.Sprintf("%d claims against orders placed at %02d:00", count, hour),
		})
	}

	if hasEscalatingAmounts(history) {
		patterns = append(patterns, Pattern{
			Type:        PatternEscalatingAmounts,
			Severity:    SeverityHigh,
			Confidence:  confidenceEscalatingAmounts,
			Description: "Claimed amounts never decrease across successive claims",
		})
	}

	if n := distinctPlatforms(history); n >= platformHoppingMinCount {
		patterns = append(patterns, Pattern{
			Type:        PatternPlatformHopping,
			Severity:    SeverityMedium,
			Confidence:  confidencePlatformHopping,
			Description: describeCount(n, "distinct platforms used for refund claims"),
		})
	}

	if count := countSince(history, now.Add(-24*time.Hour), now); count >= rapidSuccessionMinClaims {
		patterns = append(patterns, Pattern{
			Type:        PatternRapidSuccession,
			Severity:    SeverityHigh,
			Confidence:  confidenceRapidSuccession,
			Description: describeCount(count, "claims filed within the last 24 hours"),
		})
	}

	if count, driver := mostSharedDriver(history); count >= collusionMinSharedDriver {
		patterns = append(patterns, Pattern{
			Type:        PatternPotentialCollusion,
			Severity:    SeverityCritical,
			Confidence:  confidencePotentialCollusion,
			Description: fmt.Sprintf("%d claims share driver %s", count, driver),
		})
	}

	return patterns
}

// mostRepeatedReason returns the most frequent normalized complaint text
func mostRepeatedReason(history []*claims.RefundClaim) (int, string) {
	counts := make(map[string]int)
	for _, c := range history {
		text := strings.ToLower(strings.TrimSpace(c.ReasonText))
		if text == "" {
			continue
		}
		counts[text]++
	}

	best, bestText := 0, ""
	for text, count := range counts {
		if count > best || (count == best && text < bestText) {
			best, bestText = count, text
		}
	}
	return best, bestText
}

// mostRecurrentOrderHour returns the most common order hour across claims
func mostRecurrentOrderHour(history []*claims.RefundClaim) (int, int) {
	counts := make(map[int]int)
	for _, c := range history {
		counts[c.OrderTime.Hour()]++
	}

	best, bestHour := 0, 0
	for hour, count := range counts {
		if count > best || (count == best && hour < bestHour) {
			best, bestHour = count, hour
		}
	}
	return best, bestHour
}

// hasEscalatingAmounts reports monotonic non-decrease across the first
// escalatingWindow claims sorted by submission time, with at least
// escalatingMinClaims on record.
func hasEscalatingAmounts(history []*claims.RefundClaim) bool {
	if len(history) < escalatingMinClaims {
		return false
	}

	sorted := make([]*claims.RefundClaim, len(history))
	copy(sorted, history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ClaimTime.Before(sorted[j].ClaimTime)
	})

	if len(sorted) > escalatingWindow {
		sorted = sorted[:escalatingWindow]
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].ClaimedAmount < sorted[i-1].ClaimedAmount {
			return false
		}
	}
	return true
}

func distinctPlatforms(history []*claims.RefundClaim) int {
	seen := make(map[string]struct{})
	for _, c := range history {
		seen[c.Platform] = struct{}{}
	}
	return len(seen)
}

// mostSharedDriver returns the driver appearing on the most claims
func mostSharedDriver(history []*claims.RefundClaim) (int, uuid.UUID) {
	counts := make(map[uuid.UUID]int)
	for _, c := range history {
		if c.DriverID != nil {
			counts[*c.DriverID]++
		}
	}

	best := 0
	var bestDriver uuid.UUID
	for driver, count := range counts {
		if count > best || (count == best && driver.String() < bestDriver.String()) {
			best, bestDriver = count, driver
		}
	}
	return best, bestDriver
}
