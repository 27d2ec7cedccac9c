package claims

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/richxcame/refund-analysis/pkg/validation"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	_ = v.RegisterValidation("refund_reason", func(fl validator.FieldLevel) bool {
		switch ReasonCode(fl.Field().String()) {
		case ReasonLateDelivery, ReasonWrongItem, ReasonMissingItem, ReasonQuality,
			ReasonColdFood, ReasonDamaged, ReasonCancelled, ReasonOther:
			return true
		}
		return false
	})

	return v
}

// claimRules mirrors the claim fields the engine cannot score without
type claimRules struct {
	ID            uuid.UUID `validate:"required"`
	Platform      string    `validate:"required"`
	CustomerID    uuid.UUID `validate:"required"`
	ReasonCode    string    `validate:"required,refund_reason"`
	ClaimedAmount float64   `validate:"gt=0"`
	OrderAmount   float64   `validate:"gt=0"`
}

// Validate fails fast on structurally invalid claims before any scoring begins.
// Sparse optional data (no driver, no delivery time, empty reason text) is not an error.
func Validate(c *RefundClaim) error {
	rules := claimRules{
		ID:            c.ID,
		Platform:      c.Platform,
		CustomerID:    c.CustomerID,
		ReasonCode:    string(c.ReasonCode),
		ClaimedAmount: c.ClaimedAmount,
		OrderAmount:   c.OrderAmount,
	}

	err := validate.Struct(rules)
	if err == nil {
		// Timestamps are required identifiers for the timing sub-score
		verr := &validation.ValidationError{}
		if c.OrderTime.IsZero() {
			verr.AddError("OrderTime", "OrderTime is required")
		}
		if c.ClaimTime.IsZero() {
			verr.AddError("ClaimTime", "ClaimTime is required")
		}
		if c.ClaimTime.Before(c.OrderTime) {
			verr.AddError("ClaimTime", "ClaimTime must not precede OrderTime")
		}
		if verr.HasErrors() {
			return verr
		}
		return nil
	}

	if verrs, ok := err.(validator.ValidationErrors); ok {
		return validation.NewValidationError(verrs)
	}
	return err
}
