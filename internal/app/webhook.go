/**
 * @description
 * Processing of payment-gateway webhook events. Events drive the subscription
 * lifecycle: confirmed payments activate, overdue payments flag, and deletion
 * or inactivation events close out the record. Each processed event is
 * republished on the internal exchange for downstream consumers.
 */
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/centralpay/marketplace-service/internal/domain"
)

// Gateway webhook event names we act on.
const (
	EventPaymentConfirmed        = "PAYMENT_CONFIRMED"
	EventPaymentReceived         = "PAYMENT_RECEIVED"
	EventPaymentOverdue          = "PAYMENT_OVERDUE"
	EventSubscriptionDeleted     = "SUBSCRIPTION_DELETED"
	EventSubscriptionInactivated = "SUBSCRIPTION_INACTIVATED"
)

// SubscriptionUpdater defines the mutation the webhook processor needs.
type SubscriptionUpdater interface {
	UpdateStatusByGatewayID(ctx context.Context, gatewaySubscriptionID, status string, nextDueDate *time.Time) error
}

// WebhookProcessor applies gateway webhook events to subscription records.
type WebhookProcessor struct {
	subscriptions SubscriptionUpdater
	publisher     EventPublisher
}

// NewWebhookProcessor creates a new webhook processor.
func NewWebhookProcessor(subscriptions SubscriptionUpdater, publisher EventPublisher) WebhookProcessor {
	return WebhookProcessor{subscriptions: subscriptions, publisher: publisher}
}

// Process maps a gateway event onto a subscription status change. Events that
// do not reference a subscription, or whose event name is not one we track,
// are acknowledged without action.
func (p WebhookProcessor) Process(ctx context.Context, event domain.GatewayWebhookEvent) error {
	if event.Payment.Subscription == "" {
		log.Printf("Ignoring webhook event %s without subscription reference", event.Event)
		return nil
	}

	status, advanceDueDate := mapEventToStatus(event.Event)
	if status == "" {
		log.Printf("Ignoring unhandled webhook event %s", event.Event)
		return nil
	}

	var nextDue *time.Time
	if advanceDueDate && event.Payment.DueDate != "" {
		if parsed, err := time.Parse(gatewayDateLayout, event.Payment.DueDate); err == nil {
			// A confirmed payment covers one cycle; the record's due date
			// moves to the following one.
			next := parsed.AddDate(0, 1, 0)
			nextDue = &next
		}
	}

	if err := p.subscriptions.UpdateStatusByGatewayID(ctx, event.Payment.Subscription, status, nextDue); err != nil {
		return fmt.Errorf("failed to apply webhook event %s to subscription %s: %w",
			event.Event, event.Payment.Subscription, err)
	}

	p.publishStatusEvent(ctx, event, status)

	return nil
}

func mapEventToStatus(event string) (status string, advanceDueDate bool) {
	switch event {
	case EventPaymentConfirmed, EventPaymentReceived:
		return domain.SubscriptionStatusActive, true
	case EventPaymentOverdue:
		return domain.SubscriptionStatusOverdue, false
	case EventSubscriptionDeleted:
		return domain.SubscriptionStatusCanceled, false
	case EventSubscriptionInactivated:
		return domain.SubscriptionStatusInactive, false
	default:
		return "", false
	}
}

type subscriptionStatusEvent struct {
	GatewaySubscriptionID string    `json:"gateway_subscription_id"`
	GatewayEvent          string    `json:"gateway_event"`
	Status                string    `json:"status"`
	PaymentID             string    `json:"payment_id,omitempty"`
	Timestamp             time.Time `json:"timestamp"`
}

func (p WebhookProcessor) publishStatusEvent(ctx context.Context, event domain.GatewayWebhookEvent, status string) {
	if p.publisher == nil {
		return
	}

	payload := subscriptionStatusEvent{
		GatewaySubscriptionID: event.Payment.Subscription,
		GatewayEvent:          event.Event,
		Status:                status,
		PaymentID:             event.Payment.ID,
		Timestamp:             time.Now(),
	}

	if err := p.publisher.Publish(ctx, "marketplace.events", "subscription.status_changed", payload); err != nil {
		log.Printf("WARN: failed to publish subscription status event: %v", err)
	}
}
