package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/richxcame/refund-analysis/internal/anomaly"
	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/dispute"
	"github.com/richxcame/refund-analysis/internal/fraud"
)

// ClaimsRepositoryInterface defines the claim persistence operations the service needs
type ClaimsRepositoryInterface interface {
	CreateClaim(ctx context.Context, claim *claims.RefundClaim) error
	GetClaimByID(ctx context.Context, id uuid.UUID) (*claims.RefundClaim, error)
	GetCustomerClaims(ctx context.Context, customerID uuid.UUID, before time.Time) ([]*claims.RefundClaim, error)
	GetDriverClaims(ctx context.Context, driverID uuid.UUID, before time.Time) ([]*claims.RefundClaim, error)
}

// RepositoryInterface defines the analysis persistence operations
type RepositoryInterface interface {
	SaveResult(ctx context.Context, result *fraud.Result) error
	SaveObjection(ctx context.Context, objection *dispute.Objection) error
	UpsertCustomerStats(ctx context.Context, stats *claims.CustomerStats) error
	GetCustomerStats(ctx context.Context, customerID uuid.UUID, platform string) (*claims.CustomerStats, error)
}

// AlertPublisherInterface pushes anomaly records to downstream alerting
type AlertPublisherInterface interface {
	Publish(records []anomaly.Record) error
}
