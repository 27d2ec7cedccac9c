package analysis

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/richxcame/refund-analysis/internal/claims"
	"github.com/richxcame/refund-analysis/internal/dispute"
	"github.com/richxcame/refund-analysis/internal/fraud"
)

// Repository persists analysis outputs and customer stat snapshots
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new analysis repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveResult stores a fraud analysis snapshot. The full result is kept as
// jsonb; the indexed columns cover the dashboard queries.
func (r *Repository) SaveResult(ctx context.Context, result *fraud.Result) error {
	details, err := json.Marshal(result)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO analysis_results (claim_id, customer_id, fraud_score, risk_tier, recommended_action, details, analyzed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (claim_id) DO UPDATE SET
			fraud_score = EXCLUDED.fraud_score,
			risk_tier = EXCLUDED.risk_tier,
			recommended_action = EXCLUDED.recommended_action,
			details = EXCLUDED.details,
			analyzed_at = EXCLUDED.analyzed_at
	`

	_, err = r.db.Exec(ctx, query,
		result.ClaimID,
		result.CustomerID,
		result.FraudScore,
		result.RiskTier,
		result.RecommendedAction,
		details,
		result.AnalyzedAt,
	)
	return err
}

// SaveObjection stores a generated dispute objection
func (r *Repository) SaveObjection(ctx context.Context, objection *dispute.Objection) error {
	details, err := json.Marshal(objection)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO dispute_objections (claim_id, platform, level, confidence, body, details, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = r.db.Exec(ctx, query,
		objection.ClaimID,
		objection.Platform,
		objection.Level,
		objection.Confidence,
		objection.Text,
		details,
		objection.GeneratedAt,
	)
	return err
}

// UpsertCustomerStats stores the latest counter snapshot supplied with a claim
func (r *Repository) UpsertCustomerStats(ctx context.Context, stats *claims.CustomerStats) error {
	query := `
		INSERT INTO customer_stats (
			customer_id, platform, total_orders, total_refund_requests,
			approved_refunds, rejected_refunds, disputed_refunds,
			total_spent, total_refunded, first_order_at, account_created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (customer_id, platform) DO UPDATE SET
			total_orders = EXCLUDED.total_orders,
			total_refund_requests = EXCLUDED.total_refund_requests,
			approved_refunds = EXCLUDED.approved_refunds,
			rejected_refunds = EXCLUDED.rejected_refunds,
			disputed_refunds = EXCLUDED.disputed_refunds,
			total_spent = EXCLUDED.total_spent,
			total_refunded = EXCLUDED.total_refunded,
			first_order_at = EXCLUDED.first_order_at,
			account_created_at = EXCLUDED.account_created_at
	`

	_, err := r.db.Exec(ctx, query,
		stats.CustomerID,
		stats.Platform,
		stats.TotalOrders,
		stats.TotalRefundRequests,
		stats.ApprovedRefunds,
		stats.RejectedRefunds,
		stats.DisputedRefunds,
		stats.TotalSpent,
		stats.TotalRefunded,
		stats.FirstOrderAt,
		stats.AccountCreatedAt,
	)
	return err
}

// GetCustomerStats retrieves the latest counter snapshot for a customer
func (r *Repository) GetCustomerStats(ctx context.Context, customerID uuid.UUID, platform string) (*claims.CustomerStats, error) {
	query := `
		SELECT customer_id, platform, total_orders, total_refund_requests,
		       approved_refunds, rejected_refunds, disputed_refunds,
		       total_spent, total_refunded, first_order_at, account_created_at
		FROM customer_stats
		WHERE customer_id = $1 AND platform = $2
	`

	var stats claims.CustomerStats
	err := r.db.QueryRow(ctx, query, customerID, platform).Scan(
		&stats.CustomerID,
		&stats.Platform,
		&stats.TotalOrders,
		&stats.TotalRefundRequests,
		&stats.ApprovedRefunds,
		&stats.RejectedRefunds,
		&stats.DisputedRefunds,
		&stats.TotalSpent,
		&stats.TotalRefunded,
		&stats.FirstOrderAt,
		&stats.AccountCreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
