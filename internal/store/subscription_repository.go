/**
 * @description
 * Data access layer for seller subscriptions. Contains all SQL for reading
 * and mutating subscription records.
 */
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centralpay/marketplace-service/internal/domain"
)

// SubscriptionRepository handles database operations for seller subscriptions.
type SubscriptionRepository struct {
	db *pgxpool.Pool
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetLatestQualifying retrieves the most recently created subscription for a
// seller whose status still belongs to the active lineage. Inactive and
// canceled records never qualify.
func (r *SubscriptionRepository) GetLatestQualifying(ctx context.Context, sellerID int64) (*domain.SellerSubscription, error) {
	var sub domain.SellerSubscription
	query := `
        SELECT id, seller_id, gateway_subscription_id, plan_name, value, status, next_due_date, created_at, updated_at
        FROM seller_subscriptions
        WHERE seller_id = $1 AND status IN ('active', 'overdue', 'pending')
        ORDER BY created_at DESC
        LIMIT 1
    `
	err := r.db.QueryRow(ctx, query, sellerID).Scan(
		&sub.ID,
		&sub.SellerID,
		&sub.GatewaySubscriptionID,
		&sub.PlanName,
		&sub.Value,
		&sub.Status,
		&sub.NextDueDate,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// Insert persists a new subscription record and returns it with generated fields.
func (r *SubscriptionRepository) Insert(ctx context.Context, sub *domain.SellerSubscription) (*domain.SellerSubscription, error) {
	var created domain.SellerSubscription
	query := `
        INSERT INTO seller_subscriptions (seller_id, gateway_subscription_id, plan_name, value, status, next_due_date)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, seller_id, gateway_subscription_id, plan_name, value, status, next_due_date, created_at, updated_at
    `
	err := r.db.QueryRow(ctx, query,
		sub.SellerID,
		sub.GatewaySubscriptionID,
		sub.PlanName,
		sub.Value,
		sub.Status,
		sub.NextDueDate,
	).Scan(
		&created.ID,
		&created.SellerID,
		&created.GatewaySubscriptionID,
		&created.PlanName,
		&created.Value,
		&created.Status,
		&created.NextDueDate,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStatusByGatewayID updates the status of the record tied to a gateway
// subscription, optionally advancing its next due date.
func (r *SubscriptionRepository) UpdateStatusByGatewayID(ctx context.Context, gatewaySubscriptionID, status string, nextDueDate *time.Time) error {
	query := `
        UPDATE seller_subscriptions
        SET status = $2,
            next_due_date = COALESCE($3, next_due_date),
            updated_at = NOW()
        WHERE gateway_subscription_id = $1
    `
	tag, err := r.db.Exec(ctx, query, gatewaySubscriptionID, status, nextDueDate)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// UpdateStatusBySellerID updates the newest qualifying record for a seller.
func (r *SubscriptionRepository) UpdateStatusBySellerID(ctx context.Context, sellerID int64, status string) error {
	query := `
        UPDATE seller_subscriptions
        SET status = $2, updated_at = NOW()
        WHERE id = (
            SELECT id FROM seller_subscriptions
            WHERE seller_id = $1 AND status IN ('active', 'overdue', 'pending')
            ORDER BY created_at DESC
            LIMIT 1
        )
    `
	tag, err := r.db.Exec(ctx, query, sellerID, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

// ListByStatuses returns subscriptions in any of the given statuses, oldest
// first, capped at limit. Used by the nightly gateway sync.
func (r *SubscriptionRepository) ListByStatuses(ctx context.Context, statuses []string, limit int) ([]domain.SellerSubscription, error) {
	query := `
        SELECT id, seller_id, gateway_subscription_id, plan_name, value, status, next_due_date, created_at, updated_at
        FROM seller_subscriptions
        WHERE status = ANY($1)
        ORDER BY updated_at ASC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, statuses, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.SellerSubscription
	for rows.Next() {
		var sub domain.SellerSubscription
		if err := rows.Scan(
			&sub.ID,
			&sub.SellerID,
			&sub.GatewaySubscriptionID,
			&sub.PlanName,
			&sub.Value,
			&sub.Status,
			&sub.NextDueDate,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
