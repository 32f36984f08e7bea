/**
 * @description
 * Core business logic for seller subscription management. The service wires
 * the split calculator into gateway subscription creation and keeps the local
 * subscription records in step with the gateway.
 */
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/centralpay/marketplace-service/internal/domain"
	"github.com/centralpay/marketplace-service/internal/store"
)

// Gateway subscription billing defaults.
const (
	defaultBillingType = "BOLETO"
	defaultCycle       = "MONTHLY"
	gatewayDateLayout  = "2006-01-02"
)

// SellerStore defines the seller persistence the service needs.
type SellerStore interface {
	GetByStoreID(ctx context.Context, storeID int64) (*domain.Seller, error)
	UpdateWallet(ctx context.Context, storeID int64, accountID, customerID, walletID string) error
}

// SubscriptionStore defines the subscription persistence the service needs.
type SubscriptionStore interface {
	GetLatestQualifying(ctx context.Context, sellerID int64) (*domain.SellerSubscription, error)
	Insert(ctx context.Context, sub *domain.SellerSubscription) (*domain.SellerSubscription, error)
	UpdateStatusBySellerID(ctx context.Context, sellerID int64, status string) error
}

// GatewayClient defines the payment-gateway operations the service needs.
type GatewayClient interface {
	CreateAccount(ctx context.Context, req domain.GatewayCreateAccountRequest) (*domain.GatewayAccountResponse, error)
	CreateCustomer(ctx context.Context, req domain.GatewayCreateCustomerRequest) (*domain.GatewayCustomerResponse, error)
	CreateSubscription(ctx context.Context, req domain.GatewayCreateSubscriptionRequest) (*domain.GatewaySubscriptionResponse, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
}

// EventPublisher defines the interface for publishing internal events.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}

// SellerService provides the business logic for seller subscriptions.
type SellerService struct {
	sellers       SellerStore
	subscriptions SubscriptionStore
	gateway       GatewayClient
	calculator    SplitCalculator
	validator     SubscriptionValidator
	publisher     EventPublisher
}

// NewSellerService creates a new seller service.
func NewSellerService(
	sellers SellerStore,
	subscriptions SubscriptionStore,
	gateway GatewayClient,
	calculator SplitCalculator,
	validator SubscriptionValidator,
	publisher EventPublisher,
) SellerService {
	return SellerService{
		sellers:       sellers,
		subscriptions: subscriptions,
		gateway:       gateway,
		calculator:    calculator,
		validator:     validator,
		publisher:     publisher,
	}
}

// OnboardRequest carries the inputs for onboarding a seller at the gateway.
// Fields left empty fall back to the stored seller record.
type OnboardRequest struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	TaxID       string `json:"tax_id,omitempty"`
	MobilePhone string `json:"mobile_phone,omitempty"`
}

// OnboardSeller creates the seller's subaccount and paying customer at the
// gateway and records the returned wallet as the seller's split target.
// A seller that already holds a wallet is rejected rather than re-onboarded.
func (s SellerService) OnboardSeller(ctx context.Context, storeID int64, req OnboardRequest) (*domain.Seller, *domain.RequestError, error) {
	seller, err := s.sellers.GetByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, store.ErrSellerNotFound) {
			return nil, &domain.RequestError{
				Message:    "seller not found",
				StatusCode: http.StatusNotFound,
			}, nil
		}
		return nil, nil, fmt.Errorf("failed to load seller %d: %w", storeID, err)
	}

	if seller.HasWallet() {
		return nil, &domain.RequestError{
			Message:    "seller already has a configured wallet",
			StatusCode: http.StatusConflict,
		}, nil
	}

	name := req.Name
	if name == "" {
		name = seller.Name
	}
	email := req.Email
	if email == "" {
		email = seller.Email
	}
	taxID := req.TaxID
	if taxID == "" && seller.TaxID != nil {
		taxID = *seller.TaxID
	}
	if taxID == "" {
		return nil, &domain.RequestError{
			Message:    "a tax ID is required to onboard a seller at the gateway",
			StatusCode: http.StatusBadRequest,
		}, nil
	}

	account, err := s.gateway.CreateAccount(ctx, domain.GatewayCreateAccountRequest{
		Name:        name,
		Email:       email,
		CpfCnpj:     taxID,
		MobilePhone: req.MobilePhone,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gateway account: %w", err)
	}
	if account.WalletID == "" {
		return nil, nil, fmt.Errorf("gateway account %s carries no wallet", account.ID)
	}

	customer, err := s.gateway.CreateCustomer(ctx, domain.GatewayCreateCustomerRequest{
		Name:              name,
		Email:             email,
		CpfCnpj:           taxID,
		ExternalReference: fmt.Sprintf("store-%d", storeID),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gateway customer: %w", err)
	}

	if err := s.sellers.UpdateWallet(ctx, storeID, account.ID, customer.ID, account.WalletID); err != nil {
		return nil, nil, fmt.Errorf("failed to persist gateway ids for seller %d: %w", storeID, err)
	}

	seller.GatewayAccountID = &account.ID
	seller.GatewayCustomerID = &customer.ID
	seller.WalletID = account.WalletID
	return seller, nil, nil
}

// SubscriptionRequest carries the inputs for creating a seller subscription.
type SubscriptionRequest struct {
	PlanName    string  `json:"plan_name"`
	Value       float64 `json:"value"`
	NextDueDate string  `json:"next_due_date,omitempty"`
	CustomerID  string  `json:"customer_id,omitempty"`
}

// CreateSellerSubscription validates the seller, computes the split and
// creates the recurring charge at the gateway, persisting a pending record.
// Business-rule rejections come back as a *domain.RequestError; only
// infrastructure failures are returned as Go errors.
func (s SellerService) CreateSellerSubscription(ctx context.Context, storeID int64, req SubscriptionRequest) (*domain.SellerSubscription, *domain.RequestError, error) {
	seller, err := s.sellers.GetByStoreID(ctx, storeID)
	if err != nil && !errors.Is(err, store.ErrSellerNotFound) {
		return nil, nil, fmt.Errorf("failed to load seller %d: %w", storeID, err)
	}
	if errors.Is(err, store.ErrSellerNotFound) {
		seller = nil
	}

	if reqErr := s.calculator.ValidateSellerForSplit(seller); reqErr != nil {
		return nil, reqErr, nil
	}

	split := s.calculator.CalculateSplit(req.Value, seller.WalletID)
	if !split.Success {
		return nil, split.Err, nil
	}

	var nextDue time.Time
	dueDate := req.NextDueDate
	if dueDate == "" {
		nextDue = time.Now().AddDate(0, 1, 0)
		dueDate = nextDue.Format(gatewayDateLayout)
	} else {
		parsed, parseErr := time.Parse(gatewayDateLayout, dueDate)
		if parseErr != nil {
			return nil, &domain.RequestError{
				Message:    fmt.Sprintf("next due date %q must use the YYYY-MM-DD format", dueDate),
				StatusCode: http.StatusBadRequest,
			}, nil
		}
		nextDue = parsed
	}

	customerID := req.CustomerID
	if customerID == "" && seller.GatewayCustomerID != nil {
		customerID = *seller.GatewayCustomerID
	}

	gatewayReq := domain.GatewayCreateSubscriptionRequest{
		Customer:          customerID,
		BillingType:       defaultBillingType,
		Value:             req.Value,
		NextDueDate:       dueDate,
		Cycle:             defaultCycle,
		Description:       fmt.Sprintf("Marketplace plan %s", req.PlanName),
		ExternalReference: fmt.Sprintf("seller-%d-%s", storeID, uuid.NewString()),
		Split:             split.Allocations,
	}

	gatewaySub, err := s.gateway.CreateSubscription(ctx, gatewayReq)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create subscription at gateway: %w", err)
	}

	// Prefer the gateway's own due date; the validated request date already
	// backs nextDue if the gateway returns something unparseable.
	if parsed, parseErr := time.Parse(gatewayDateLayout, gatewaySub.NextDueDate); parseErr == nil {
		nextDue = parsed
	}

	record := &domain.SellerSubscription{
		SellerID:              storeID,
		GatewaySubscriptionID: gatewaySub.ID,
		PlanName:              req.PlanName,
		Value:                 req.Value,
		Status:                domain.SubscriptionStatusPending,
		NextDueDate:           nextDue,
	}

	created, err := s.subscriptions.Insert(ctx, record)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist subscription record: %w", err)
	}

	s.publishEvent(ctx, "subscription.created", created)

	return created, nil, nil
}

// CancelSellerSubscription cancels the seller's newest qualifying
// subscription at the gateway and marks the local record canceled.
func (s SellerService) CancelSellerSubscription(ctx context.Context, sellerID int64) (*domain.RequestError, error) {
	sub, err := s.subscriptions.GetLatestQualifying(ctx, sellerID)
	if err != nil {
		if errors.Is(err, store.ErrSubscriptionNotFound) {
			return &domain.RequestError{
				Message:    "seller has no active subscription; an active subscription is required to use this service",
				StatusCode: http.StatusForbidden,
			}, nil
		}
		return nil, fmt.Errorf("failed to load subscription for seller %d: %w", sellerID, err)
	}

	if err := s.gateway.CancelSubscription(ctx, sub.GatewaySubscriptionID); err != nil {
		return nil, fmt.Errorf("failed to cancel subscription at gateway: %w", err)
	}

	if err := s.subscriptions.UpdateStatusBySellerID(ctx, sellerID, domain.SubscriptionStatusCanceled); err != nil {
		return nil, fmt.Errorf("failed to mark subscription canceled: %w", err)
	}

	sub.Status = domain.SubscriptionStatusCanceled
	s.publishEvent(ctx, "subscription.canceled", sub)

	return nil, nil
}

// GetSellerSubscriptionStatus returns the validator's view of the seller's
// subscription for the public status endpoint.
func (s SellerService) GetSellerSubscriptionStatus(ctx context.Context, sellerID int64) domain.SubscriptionCheck {
	return s.validator.ValidateSellerSubscription(ctx, sellerID)
}

type subscriptionEvent struct {
	SellerID              int64     `json:"seller_id"`
	GatewaySubscriptionID string    `json:"gateway_subscription_id"`
	PlanName              string    `json:"plan_name"`
	Value                 float64   `json:"value"`
	Status                string    `json:"status"`
	NextDueDate           time.Time `json:"next_due_date"`
	Timestamp             time.Time `json:"timestamp"`
}

func (s SellerService) publishEvent(ctx context.Context, routingKey string, sub *domain.SellerSubscription) {
	if s.publisher == nil {
		return
	}

	payload := subscriptionEvent{
		SellerID:              sub.SellerID,
		GatewaySubscriptionID: sub.GatewaySubscriptionID,
		PlanName:              sub.PlanName,
		Value:                 sub.Value,
		Status:                sub.Status,
		NextDueDate:           sub.NextDueDate,
		Timestamp:             time.Now(),
	}

	if err := s.publisher.Publish(ctx, "marketplace.events", routingKey, payload); err != nil {
		log.Printf("WARN: failed to publish subscription event %s: %v", routingKey, err)
	}
}
