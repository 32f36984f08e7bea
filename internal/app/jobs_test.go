package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/centralpay/marketplace-service/internal/domain"
)

type syncRepoStub struct {
	subs      []domain.SellerSubscription
	listErr   error
	updates   map[string]string
	updateErr error
}

func (s *syncRepoStub) ListByStatuses(ctx context.Context, statuses []string, limit int) ([]domain.SellerSubscription, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.subs, nil
}

func (s *syncRepoStub) UpdateStatusByGatewayID(ctx context.Context, gatewaySubscriptionID, status string, nextDueDate *time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.updates == nil {
		s.updates = make(map[string]string)
	}
	s.updates[gatewaySubscriptionID] = status
	return nil
}

type syncGatewayStub struct {
	responses map[string]*domain.GatewaySubscriptionResponse
	err       error
}

func (s *syncGatewayStub) GetSubscription(ctx context.Context, subscriptionID string) (*domain.GatewaySubscriptionResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.responses[subscriptionID], nil
}

func newTestJobs(repo *syncRepoStub, gateway *syncGatewayStub) *Jobs {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJobs(repo, gateway, logger)
}

func TestSyncSubscriptionStatuses_ReconcilesChangedStatus(t *testing.T) {
	repo := &syncRepoStub{subs: []domain.SellerSubscription{{
		GatewaySubscriptionID: "gw-sub-1",
		Status:                domain.SubscriptionStatusPending,
	}}}
	gateway := &syncGatewayStub{responses: map[string]*domain.GatewaySubscriptionResponse{
		"gw-sub-1": {ID: "gw-sub-1", Status: "ACTIVE", NextDueDate: "2025-08-01"},
	}}

	newTestJobs(repo, gateway).SyncSubscriptionStatuses()

	if repo.updates["gw-sub-1"] != domain.SubscriptionStatusActive {
		t.Errorf("expected gw-sub-1 reconciled to active, got %v", repo.updates)
	}
}

func TestSyncSubscriptionStatuses_SkipsUnchangedStatus(t *testing.T) {
	repo := &syncRepoStub{subs: []domain.SellerSubscription{{
		GatewaySubscriptionID: "gw-sub-1",
		Status:                domain.SubscriptionStatusOverdue,
	}}}
	gateway := &syncGatewayStub{responses: map[string]*domain.GatewaySubscriptionResponse{
		"gw-sub-1": {ID: "gw-sub-1", Status: "OVERDUE"},
	}}

	newTestJobs(repo, gateway).SyncSubscriptionStatuses()

	if len(repo.updates) != 0 {
		t.Errorf("unchanged statuses must not be rewritten, got %v", repo.updates)
	}
}

func TestSyncSubscriptionStatuses_DeletedBecomesCanceled(t *testing.T) {
	repo := &syncRepoStub{subs: []domain.SellerSubscription{{
		GatewaySubscriptionID: "gw-sub-1",
		Status:                domain.SubscriptionStatusPending,
	}}}
	gateway := &syncGatewayStub{responses: map[string]*domain.GatewaySubscriptionResponse{
		"gw-sub-1": {ID: "gw-sub-1", Status: "ACTIVE", Deleted: true},
	}}

	newTestJobs(repo, gateway).SyncSubscriptionStatuses()

	if repo.updates["gw-sub-1"] != domain.SubscriptionStatusCanceled {
		t.Errorf("deleted gateway subscriptions must cancel the record, got %v", repo.updates)
	}
}

func TestSyncSubscriptionStatuses_GatewayErrorDoesNotUpdate(t *testing.T) {
	repo := &syncRepoStub{subs: []domain.SellerSubscription{{
		GatewaySubscriptionID: "gw-sub-1",
		Status:                domain.SubscriptionStatusPending,
	}}}
	gateway := &syncGatewayStub{err: errors.New("gateway unavailable")}

	newTestJobs(repo, gateway).SyncSubscriptionStatuses()

	if len(repo.updates) != 0 {
		t.Errorf("no updates expected when the gateway is unavailable, got %v", repo.updates)
	}
}

func TestSyncSubscriptionStatuses_ListFailureIsLoggedOnly(t *testing.T) {
	repo := &syncRepoStub{listErr: errors.New("db unavailable")}
	gateway := &syncGatewayStub{}

	// Must not panic; the job just logs and returns.
	newTestJobs(repo, gateway).SyncSubscriptionStatuses()
}
