/**
 * @description
 * Narrow read models for the e-commerce platform API. Only the fields the
 * marketplace needs are mapped; the full object graph (variants, images,
 * fulfillment) stays on the platform side.
 */
package domain

import "time"

// StoreOrder is an order placed on a seller's storefront.
type StoreOrder struct {
	ID            int64     `json:"id"`
	StoreID       int64     `json:"store_id"`
	Number        int       `json:"number"`
	Total         string    `json:"total"`
	Currency      string    `json:"currency"`
	PaymentStatus string    `json:"payment_status"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// StoreProduct is a product listed on a seller's storefront.
type StoreProduct struct {
	ID        int64             `json:"id"`
	StoreID   int64             `json:"store_id"`
	Name      map[string]string `json:"name"`
	Published bool              `json:"published"`
	CreatedAt time.Time         `json:"created_at"`
}
