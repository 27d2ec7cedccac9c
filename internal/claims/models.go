package claims

import (
	"time"

	"github.com/google/uuid"
)

// ReasonCode classifies the customer's stated refund reason
type ReasonCode string

const (
	ReasonLateDelivery ReasonCode = "late_delivery" // Order arrived late
	ReasonWrongItem    ReasonCode = "wrong_item"    // Incorrect item delivered
	ReasonMissingItem  ReasonCode = "missing_item"  // Item absent from the bag
	ReasonQuality      ReasonCode = "quality"       // Bad, burnt or raw food
	ReasonColdFood     ReasonCode = "cold_food"     // Temperature complaint
	ReasonDamaged      ReasonCode = "damaged"       // Spilled or crushed packaging
	ReasonCancelled    ReasonCode = "cancelled"     // Order cancelled or item unavailable
	ReasonOther        ReasonCode = "other"
)

// LineItem is a single claimed order line
type LineItem struct {
	Name     string  `json:"name" db:"name"`
	Quantity int     `json:"quantity" db:"quantity"`
	Price    float64 `json:"price" db:"price"`
}

// Evidence captures what the customer attached to the claim
type Evidence struct {
	HasPhotos bool   `json:"has_photos" db:"has_photos"`
	HasNotes  bool   `json:"has_notes" db:"has_notes"`
	Notes     string `json:"notes,omitempty" db:"notes"`
}

// RefundClaim represents a refund claim filed against the merchant.
// Claims are immutable once received; a reopened complaint is a new claim.
type RefundClaim struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	Platform   string     `json:"platform" db:"platform"`
	CustomerID uuid.UUID  `json:"customer_id" db:"customer_id"`
	DriverID   *uuid.UUID `json:"driver_id,omitempty" db:"driver_id"`
	BranchID   *uuid.UUID `json:"branch_id,omitempty" db:"branch_id"`

	OrderTime    time.Time  `json:"order_time" db:"order_time"`
	ReadyTime    *time.Time `json:"ready_time,omitempty" db:"ready_time"`       // Kitchen handoff, when known
	DeliveryTime *time.Time `json:"delivery_time,omitempty" db:"delivery_time"` // Courier drop-off, when known
	ClaimTime    time.Time  `json:"claim_time" db:"claim_time"`

	ReasonCode ReasonCode `json:"reason_code" db:"reason_code"`
	ReasonText string     `json:"reason_text" db:"reason_text"`

	ClaimedAmount float64    `json:"claimed_amount" db:"claimed_amount"`
	OrderAmount   float64    `json:"order_amount" db:"order_amount"`
	Items         []LineItem `json:"items,omitempty" db:"-"`

	Evidence Evidence `json:"evidence" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CustomerStats holds the customer's cumulative counters as supplied by
// the platform's data layer. Rates are derived from these, never stored.
type CustomerStats struct {
	CustomerID          uuid.UUID  `json:"customer_id"`
	Platform            string     `json:"platform"`
	TotalOrders         int        `json:"total_orders"`
	TotalRefundRequests int        `json:"total_refund_requests"`
	ApprovedRefunds     int        `json:"approved_refunds"`
	RejectedRefunds     int        `json:"rejected_refunds"`
	DisputedRefunds     int        `json:"disputed_refunds"`
	TotalSpent          float64    `json:"total_spent"`
	TotalRefunded       float64    `json:"total_refunded"`
	FirstOrderAt        *time.Time `json:"first_order_at,omitempty"`
	AccountCreatedAt    *time.Time `json:"account_created_at,omitempty"`
}

// PrepDuration returns kitchen preparation time when the handoff timestamp is known
func (c *RefundClaim) PrepDuration() (time.Duration, bool) {
	if c.ReadyTime == nil {
		return 0, false
	}
	return c.ReadyTime.Sub(c.OrderTime), true
}

// DeliveryDuration returns courier time when both handoff and drop-off are known
func (c *RefundClaim) DeliveryDuration() (time.Duration, bool) {
	if c.ReadyTime == nil || c.DeliveryTime == nil {
		return 0, false
	}
	return c.DeliveryTime.Sub(*c.ReadyTime), true
}

// RefundRatio returns claimed amount over order amount, 0 when the order amount is 0
func (c *RefundClaim) RefundRatio() float64 {
	if c.OrderAmount <= 0 {
		return 0
	}
	return c.ClaimedAmount / c.OrderAmount
}
