/**
 * @description
 * Scheduled jobs for the marketplace service. The subscription sync job
 * reconciles pending and overdue records against the gateway, covering
 * webhooks that were missed or delivered out of order.
 */
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/centralpay/marketplace-service/internal/domain"
)

const syncBatchLimit = 200

// SyncRepository defines the subscription persistence the jobs need.
type SyncRepository interface {
	ListByStatuses(ctx context.Context, statuses []string, limit int) ([]domain.SellerSubscription, error)
	UpdateStatusByGatewayID(ctx context.Context, gatewaySubscriptionID, status string, nextDueDate *time.Time) error
}

// SyncGatewayClient defines the gateway read the jobs need.
type SyncGatewayClient interface {
	GetSubscription(ctx context.Context, subscriptionID string) (*domain.GatewaySubscriptionResponse, error)
}

// Jobs holds the scheduled job implementations.
type Jobs struct {
	subscriptions SyncRepository
	gateway       SyncGatewayClient
	logger        *slog.Logger
}

// NewJobs creates the job set.
func NewJobs(subscriptions SyncRepository, gateway SyncGatewayClient, logger *slog.Logger) *Jobs {
	return &Jobs{subscriptions: subscriptions, gateway: gateway, logger: logger}
}

// SyncSubscriptionStatuses pulls the gateway's view of every pending or
// overdue subscription and reconciles the local record.
func (j *Jobs) SyncSubscriptionStatuses() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	statuses := []string{domain.SubscriptionStatusPending, domain.SubscriptionStatusOverdue}
	subs, err := j.subscriptions.ListByStatuses(ctx, statuses, syncBatchLimit)
	if err != nil {
		j.logger.Error("subscription sync: failed to list candidates", "error", err)
		return
	}
	if len(subs) == 0 {
		j.logger.Info("subscription sync: nothing to reconcile")
		return
	}

	var updated, failed int
	for _, sub := range subs {
		remote, err := j.gateway.GetSubscription(ctx, sub.GatewaySubscriptionID)
		if err != nil {
			j.logger.Error("subscription sync: gateway lookup failed",
				"gateway_subscription_id", sub.GatewaySubscriptionID, "error", err)
			failed++
			continue
		}

		status := mapGatewayStatus(remote.Status, remote.Deleted)
		if status == "" || status == sub.Status {
			continue
		}

		var nextDue *time.Time
		if remote.NextDueDate != "" {
			if parsed, parseErr := time.Parse(gatewayDateLayout, remote.NextDueDate); parseErr == nil {
				nextDue = &parsed
			}
		}

		if err := j.subscriptions.UpdateStatusByGatewayID(ctx, sub.GatewaySubscriptionID, status, nextDue); err != nil {
			j.logger.Error("subscription sync: update failed",
				"gateway_subscription_id", sub.GatewaySubscriptionID, "error", err)
			failed++
			continue
		}
		updated++
	}

	j.logger.Info("subscription sync complete",
		"evaluated", len(subs), "updated", updated, "failed", failed)
}

// mapGatewayStatus translates the gateway's subscription status vocabulary
// into ours.
func mapGatewayStatus(gatewayStatus string, deleted bool) string {
	if deleted {
		return domain.SubscriptionStatusCanceled
	}
	switch gatewayStatus {
	case "ACTIVE":
		return domain.SubscriptionStatusActive
	case "OVERDUE":
		return domain.SubscriptionStatusOverdue
	case "INACTIVE":
		return domain.SubscriptionStatusInactive
	case "EXPIRED":
		return domain.SubscriptionStatusCanceled
	default:
		return ""
	}
}
