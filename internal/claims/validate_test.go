package claims

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/refund-analysis/pkg/validation"
)

func validTestClaim() *RefundClaim {
	orderTime := time.Date(2026, 3, 15, 19, 0, 0, 0, time.UTC)
	return &RefundClaim{
		ID:            uuid.New(),
		Platform:      "getir",
		CustomerID:    uuid.New(),
		OrderTime:     orderTime,
		ClaimTime:     orderTime.Add(time.Hour),
		ReasonCode:    ReasonMissingItem,
		ReasonText:    "the fries were not in the bag",
		ClaimedAmount: 30,
		OrderAmount:   95,
	}
}

func TestValidateAcceptsSparseOptionalData(t *testing.T) {
	claim := validTestClaim()
	// No driver, no branch, no ready/delivery times, no evidence
	assert.NoError(t, Validate(claim))

	claim.ReasonText = ""
	assert.NoError(t, Validate(claim), "empty reason text is sparse data, not a contract violation")
}

func TestValidateRejectsMissingIdentifiers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RefundClaim)
	}{
		{"missing id", func(c *RefundClaim) { c.ID = uuid.Nil }},
		{"missing platform", func(c *RefundClaim) { c.Platform = "" }},
		{"missing customer", func(c *RefundClaim) { c.CustomerID = uuid.Nil }},
		{"unknown reason code", func(c *RefundClaim) { c.ReasonCode = "feeling_lucky" }},
		{"zero claimed amount", func(c *RefundClaim) { c.ClaimedAmount = 0 }},
		{"negative order amount", func(c *RefundClaim) { c.OrderAmount = -10 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim := validTestClaim()
			tt.mutate(claim)

			err := Validate(claim)
			require.Error(t, err)

			var verr *validation.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestValidateRejectsBrokenTimestamps(t *testing.T) {
	claim := validTestClaim()
	claim.OrderTime = time.Time{}
	assert.Error(t, Validate(claim))

	claim = validTestClaim()
	claim.ClaimTime = time.Time{}
	assert.Error(t, Validate(claim))

	claim = validTestClaim()
	claim.ClaimTime = claim.OrderTime.Add(-time.Minute)
	assert.Error(t, Validate(claim), "claim cannot precede the order")
}

func TestClaimDurations(t *testing.T) {
	claim := validTestClaim()

	_, ok := claim.PrepDuration()
	assert.False(t, ok)
	_, ok = claim.DeliveryDuration()
	assert.False(t, ok)

	ready := claim.OrderTime.Add(25 * time.Minute)
	delivered := ready.Add(35 * time.Minute)
	claim.ReadyTime = &ready
	claim.DeliveryTime = &delivered

	prep, ok := claim.PrepDuration()
	require.True(t, ok)
	assert.Equal(t, 25*time.Minute, prep)

	del, ok := claim.DeliveryDuration()
	require.True(t, ok)
	assert.Equal(t, 35*time.Minute, del)
}

func TestRefundRatioGuardsZeroOrderAmount(t *testing.T) {
	claim := validTestClaim()
	assert.InDelta(t, 30.0/95.0, claim.RefundRatio(), 0.0001)

	claim.OrderAmount = 0
	assert.Zero(t, claim.RefundRatio())
}
