/**
 * @description
 * Data access layer for sellers.
 */
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/centralpay/marketplace-service/internal/domain"
)

// SellerRepository handles database operations for sellers.
type SellerRepository struct {
	db *pgxpool.Pool
}

// NewSellerRepository creates a new seller repository.
func NewSellerRepository(db *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{db: db}
}

const sellerColumns = `id, store_id, name, email, tax_id, gateway_customer_id, gateway_account_id, wallet_id, created_at, updated_at, deleted_at`

// GetByStoreID retrieves a seller by its e-commerce store ID.
func (r *SellerRepository) GetByStoreID(ctx context.Context, storeID int64) (*domain.Seller, error) {
	query := `
        SELECT ` + sellerColumns + `
        FROM sellers
        WHERE store_id = $1 AND deleted_at IS NULL
    `
	return r.scanSeller(r.db.QueryRow(ctx, query, storeID))
}

// GetByID retrieves a seller by its primary key.
func (r *SellerRepository) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	query := `
        SELECT ` + sellerColumns + `
        FROM sellers
        WHERE id = $1 AND deleted_at IS NULL
    `
	return r.scanSeller(r.db.QueryRow(ctx, query, id))
}

// List returns all non-deleted sellers, newest first.
func (r *SellerRepository) List(ctx context.Context, limit int) ([]domain.Seller, error) {
	query := `
        SELECT ` + sellerColumns + `
        FROM sellers
        WHERE deleted_at IS NULL
        ORDER BY created_at DESC
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []domain.Seller
	for rows.Next() {
		var s domain.Seller
		if err := rows.Scan(
			&s.ID, &s.StoreID, &s.Name, &s.Email, &s.TaxID,
			&s.GatewayCustomerID, &s.GatewayAccountID, &s.WalletID,
			&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
		); err != nil {
			return nil, err
		}
		sellers = append(sellers, s)
	}
	return sellers, rows.Err()
}

// UpdateWallet records the gateway ids assigned to a seller during
// onboarding: the subaccount, its paying customer and the payout wallet.
func (r *SellerRepository) UpdateWallet(ctx context.Context, storeID int64, accountID, customerID, walletID string) error {
	query := `
        UPDATE sellers
        SET gateway_account_id = $2, gateway_customer_id = $3, wallet_id = $4, updated_at = NOW()
        WHERE store_id = $1 AND deleted_at IS NULL
    `
	tag, err := r.db.Exec(ctx, query, storeID, accountID, customerID, walletID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSellerNotFound
	}
	return nil
}

func (r *SellerRepository) scanSeller(row pgx.Row) (*domain.Seller, error) {
	var s domain.Seller
	err := row.Scan(
		&s.ID, &s.StoreID, &s.Name, &s.Email, &s.TaxID,
		&s.GatewayCustomerID, &s.GatewayAccountID, &s.WalletID,
		&s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSellerNotFound
		}
		return nil, err
	}
	return &s, nil
}
