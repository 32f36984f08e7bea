/**
 * @description
 * Subscription validation for seller-scoped requests. Given a seller ID, the
 * validator loads the newest qualifying subscription record and decides
 * whether the seller may use gated functionality, producing a user-facing
 * reason and HTTP status when it may not.
 */
package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/centralpay/marketplace-service/internal/domain"
	"github.com/centralpay/marketplace-service/internal/store"
)

// SubscriptionReader defines the lookup the validator needs. It returns the
// most recently created record whose status is active, overdue or pending;
// inactive and canceled records are excluded from the lookup entirely.
type SubscriptionReader interface {
	GetLatestQualifying(ctx context.Context, sellerID int64) (*domain.SellerSubscription, error)
}

// SubscriptionValidator gates seller-scoped functionality on subscription state.
type SubscriptionValidator struct {
	repo SubscriptionReader
	now  func() time.Time
}

// NewSubscriptionValidator creates a validator backed by a subscription lookup.
func NewSubscriptionValidator(repo SubscriptionReader) SubscriptionValidator {
	return SubscriptionValidator{repo: repo, now: time.Now}
}

// ValidateSellerSubscription classifies the seller's current subscription.
// All business-rule rejections come back as results, never as errors;
// lookup failures are converted to a generic 500 result.
func (v SubscriptionValidator) ValidateSellerSubscription(ctx context.Context, sellerID int64) domain.SubscriptionCheck {
	if sellerID == 0 {
		return checkFailure(http.StatusBadRequest, "seller id is required")
	}

	sub, err := v.repo.GetLatestQualifying(ctx, sellerID)
	if err != nil {
		if errors.Is(err, store.ErrSubscriptionNotFound) {
			return checkFailure(http.StatusForbidden,
				"seller has no active subscription; an active subscription is required to use this service")
		}
		log.Printf("Error looking up subscription for seller %d: %v", sellerID, err)
		return checkFailure(http.StatusInternalServerError,
			"an unexpected error occurred while validating the subscription")
	}

	now := v.now()

	// A stale due date on an active record is not treated as overdue: active
	// subscriptions are trusted until the billing webhook marks them overdue.
	if sub.Status == domain.SubscriptionStatusOverdue ||
		(sub.NextDueDate.Before(now) && sub.Status != domain.SubscriptionStatusActive) {
		return checkFailure(http.StatusForbidden,
			"subscription is overdue; renew to continue using the service")
	}

	if sub.Status == domain.SubscriptionStatusPending {
		return checkFailure(http.StatusForbidden,
			"to use this service you must complete registration with a tax ID; visit settings to finish your data")
	}

	// Unreachable while the lookup excludes these statuses; retained in case
	// the query filter changes.
	if sub.Status == domain.SubscriptionStatusInactive || sub.Status == domain.SubscriptionStatusCanceled {
		return checkFailure(http.StatusForbidden,
			"subscription is inactive; activate your subscription to use this service")
	}

	return domain.SubscriptionCheck{Success: true, Subscription: sub}
}

// CheckSubscription is the guard-clause adapter used by HTTP middleware: it
// returns nil when the seller may proceed and the failure result otherwise.
func (v SubscriptionValidator) CheckSubscription(ctx context.Context, sellerID int64) *domain.SubscriptionCheck {
	result := v.ValidateSellerSubscription(ctx, sellerID)
	if result.Success {
		return nil
	}
	return &result
}

func checkFailure(status int, message string) domain.SubscriptionCheck {
	return domain.SubscriptionCheck{
		Success: false,
		Err:     &domain.RequestError{Message: message, StatusCode: status},
	}
}
