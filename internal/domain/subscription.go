/**
 * @description
 * This file defines the domain models for seller subscriptions. A seller
 * subscription is the persisted record that governs whether a seller may use
 * gated marketplace features. Its lifecycle is driven by payment-gateway
 * webhooks; this service reads the newest record per seller and classifies it.
 */
package domain

import "time"

// Subscription statuses mirrored from the payment gateway lifecycle.
const (
	SubscriptionStatusPending  = "pending"
	SubscriptionStatusActive   = "active"
	SubscriptionStatusOverdue  = "overdue"
	SubscriptionStatusInactive = "inactive"
	SubscriptionStatusCanceled = "canceled"
)

// SellerSubscription represents a seller's subscription record in the database.
type SellerSubscription struct {
	ID                    string    `json:"id"`
	SellerID              int64     `json:"seller_id"`
	GatewaySubscriptionID string    `json:"gateway_subscription_id"`
	PlanName              string    `json:"plan_name"`
	Value                 float64   `json:"value"`
	Status                string    `json:"status"`
	NextDueDate           time.Time `json:"next_due_date"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// SubscriptionCheck is the result of validating a seller's subscription.
// On success it carries the matched record; on failure it carries a
// user-facing error with the HTTP status the caller should respond with.
type SubscriptionCheck struct {
	Success      bool                `json:"success"`
	Subscription *SellerSubscription `json:"subscription,omitempty"`
	Err          *RequestError       `json:"error,omitempty"`
}
