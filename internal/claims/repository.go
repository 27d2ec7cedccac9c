package claims

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles refund claim persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new claims repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// CreateClaim stores a newly received claim
func (r *Repository) CreateClaim(ctx context.Context, claim *RefundClaim) error {
	itemsJSON, err := json.Marshal(claim.Items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO refund_claims (
			id, platform, customer_id, driver_id, branch_id,
			order_time, ready_time, delivery_time, claim_time,
			reason_code, reason_text, claimed_amount, order_amount,
			items, has_photos, has_notes, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = r.db.Exec(ctx, query,
		claim.ID,
		claim.Platform,
		claim.CustomerID,
		claim.DriverID,
		claim.BranchID,
		claim.OrderTime,
		claim.ReadyTime,
		claim.DeliveryTime,
		claim.ClaimTime,
		claim.ReasonCode,
		claim.ReasonText,
		claim.ClaimedAmount,
		claim.OrderAmount,
		itemsJSON,
		claim.Evidence.HasPhotos,
		claim.Evidence.HasNotes,
		claim.Evidence.Notes,
		claim.CreatedAt,
	)

	return err
}

// GetClaimByID retrieves a claim by ID
func (r *Repository) GetClaimByID(ctx context.Context, id uuid.UUID) (*RefundClaim, error) {
	query := selectClaims + ` WHERE id = $1`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, pgx.ErrNoRows
	}
	return scanClaim(rows)
}

// GetCustomerClaims retrieves a customer's claim history ordered by submission time
func (r *Repository) GetCustomerClaims(ctx context.Context, customerID uuid.UUID, before time.Time) ([]*RefundClaim, error) {
	query := selectClaims + `
		WHERE customer_id = $1 AND claim_time <= $2
		ORDER BY claim_time ASC
	`
	return r.queryClaims(ctx, query, customerID, before)
}

// GetDriverClaims retrieves claims sharing a driver, for collusion detection
func (r *Repository) GetDriverClaims(ctx context.Context, driverID uuid.UUID, before time.Time) ([]*RefundClaim, error) {
	query := selectClaims + `
		WHERE driver_id = $1 AND claim_time <= $2
		ORDER BY claim_time ASC
	`
	return r.queryClaims(ctx, query, driverID, before)
}

const selectClaims = `
	SELECT id, platform, customer_id, driver_id, branch_id,
	       order_time, ready_time, delivery_time, claim_time,
	       reason_code, reason_text, claimed_amount, order_amount,
	       items, has_photos, has_notes, notes, created_at
	FROM refund_claims
`

func (r *Repository) queryClaims(ctx context.Context, query string, args ...interface{}) ([]*RefundClaim, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*RefundClaim, 0)
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			continue
		}
		result = append(result, claim)
	}

	return result, rows.Err()
}

func scanClaim(rows pgx.Rows) (*RefundClaim, error) {
	var claim RefundClaim
	var itemsJSON []byte

	err := rows.Scan(
		&claim.ID,
		&claim.Platform,
		&claim.CustomerID,
		&claim.DriverID,
		&claim.BranchID,
		&claim.OrderTime,
		&claim.ReadyTime,
		&claim.DeliveryTime,
		&claim.ClaimTime,
		&claim.ReasonCode,
		&claim.ReasonText,
		&claim.ClaimedAmount,
		&claim.OrderAmount,
		&itemsJSON,
		&claim.Evidence.HasPhotos,
		&claim.Evidence.HasNotes,
		&claim.Evidence.Notes,
		&claim.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &claim.Items); err != nil {
			claim.Items = nil
		}
	}

	return &claim, nil
}
