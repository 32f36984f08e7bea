/**
 * @description
 * This file defines the core domain models for sellers registered on the
 * marketplace. A seller is a store on the e-commerce platform that has been
 * onboarded into the payment gateway as a subaccount.
 */
package domain

import "time"

// Seller represents a marketplace seller persisted in the database.
type Seller struct {
	ID                string     `json:"id"`
	StoreID           int64      `json:"store_id"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	TaxID             *string    `json:"tax_id,omitempty"`
	GatewayCustomerID *string    `json:"gateway_customer_id,omitempty"`
	GatewayAccountID  *string    `json:"gateway_account_id,omitempty"`
	WalletID          string     `json:"wallet_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty"`
}

// HasWallet reports whether the seller has a payout wallet configured at
// the gateway. Sellers without a wallet cannot receive split payments.
func (s *Seller) HasWallet() bool {
	return s != nil && s.WalletID != ""
}
