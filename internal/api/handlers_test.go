package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/centralpay/marketplace-service/internal/app"
	"github.com/centralpay/marketplace-service/internal/domain"
	"github.com/centralpay/marketplace-service/internal/store"
)

type storePlatformStub struct {
	orders   []domain.StoreOrder
	order    *domain.StoreOrder
	products []domain.StoreProduct
	product  *domain.StoreProduct
	err      error
}

func (s *storePlatformStub) ListOrders(ctx context.Context, storeID int64) ([]domain.StoreOrder, error) {
	return s.orders, s.err
}

func (s *storePlatformStub) GetOrder(ctx context.Context, storeID, orderID int64) (*domain.StoreOrder, error) {
	return s.order, s.err
}

func (s *storePlatformStub) ListProducts(ctx context.Context, storeID int64) ([]domain.StoreProduct, error) {
	return s.products, s.err
}

func (s *storePlatformStub) GetProduct(ctx context.Context, storeID, productID int64) (*domain.StoreProduct, error) {
	return s.product, s.err
}

type sellerDirectoryStub struct {
	sellers []domain.Seller
	seller  *domain.Seller
}

func (s *sellerDirectoryStub) List(ctx context.Context, limit int) ([]domain.Seller, error) {
	return s.sellers, nil
}

func (s *sellerDirectoryStub) GetByID(ctx context.Context, id string) (*domain.Seller, error) {
	if s.seller == nil {
		return nil, store.ErrSellerNotFound
	}
	return s.seller, nil
}

type handlerSellerStoreStub struct {
	seller        *domain.Seller
	savedWalletID string
}

func (s *handlerSellerStoreStub) GetByStoreID(ctx context.Context, storeID int64) (*domain.Seller, error) {
	if s.seller == nil {
		return nil, store.ErrSellerNotFound
	}
	return s.seller, nil
}

func (s *handlerSellerStoreStub) UpdateWallet(ctx context.Context, storeID int64, accountID, customerID, walletID string) error {
	s.savedWalletID = walletID
	return nil
}

type handlerSubscriptionStoreStub struct{}

func (s *handlerSubscriptionStoreStub) GetLatestQualifying(ctx context.Context, sellerID int64) (*domain.SellerSubscription, error) {
	return nil, store.ErrSubscriptionNotFound
}

func (s *handlerSubscriptionStoreStub) Insert(ctx context.Context, sub *domain.SellerSubscription) (*domain.SellerSubscription, error) {
	return sub, nil
}

func (s *handlerSubscriptionStoreStub) UpdateStatusBySellerID(ctx context.Context, sellerID int64, status string) error {
	return nil
}

type handlerGatewayStub struct{}

func (g *handlerGatewayStub) CreateAccount(ctx context.Context, req domain.GatewayCreateAccountRequest) (*domain.GatewayAccountResponse, error) {
	return &domain.GatewayAccountResponse{ID: "acc-1", WalletID: "W-new"}, nil
}

func (g *handlerGatewayStub) CreateCustomer(ctx context.Context, req domain.GatewayCreateCustomerRequest) (*domain.GatewayCustomerResponse, error) {
	return &domain.GatewayCustomerResponse{ID: "cus-1"}, nil
}

func (g *handlerGatewayStub) CreateSubscription(ctx context.Context, req domain.GatewayCreateSubscriptionRequest) (*domain.GatewaySubscriptionResponse, error) {
	return &domain.GatewaySubscriptionResponse{ID: "gw-sub-1", NextDueDate: req.NextDueDate}, nil
}

func (g *handlerGatewayStub) CancelSubscription(ctx context.Context, subscriptionID string) error {
	return nil
}

type policyStub struct {
	percent float64
	fee     float64
}

func (p policyStub) SystemPercent() float64  { return p.percent }
func (p policyStub) SystemFixedFee() float64 { return p.fee }

func newTestRouter(sellers *handlerSellerStoreStub, stores *storePlatformStub, directory *sellerDirectoryStub) *chi.Mux {
	gateStub := &gateReaderStub{sub: &domain.SellerSubscription{
		ID:          "sub-1",
		SellerID:    42,
		Status:      domain.SubscriptionStatusActive,
		NextDueDate: time.Now().AddDate(0, 1, 0),
	}}
	validator := app.NewSubscriptionValidator(gateStub)
	calc := app.NewSplitCalculator(policyStub{fee: 2.00})
	service := app.NewSellerService(sellers, &handlerSubscriptionStoreStub{}, &handlerGatewayStub{}, calc, validator, nil)

	h := NewHandler(service, stores, directory, nil)
	webhook := NewWebhookHandler(app.NewWebhookProcessor(&webhookUpdaterStub{}, nil), nil, webhookTestSecret)
	return NewRouter(h, webhook, validator, "", "admin-secret")
}

func TestGetOrderRoute(t *testing.T) {
	stores := &storePlatformStub{order: &domain.StoreOrder{ID: 7, StoreID: 42, Status: "open"}}
	router := newTestRouter(&handlerSellerStoreStub{}, stores, &sellerDirectoryStub{})

	req := httptest.NewRequest("GET", "/sellers/42/orders/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":7`) {
		t.Errorf("expected the order in the response, got %s", rec.Body.String())
	}
}

func TestGetProductRoute_MalformedID(t *testing.T) {
	router := newTestRouter(&handlerSellerStoreStub{}, &storePlatformStub{}, &sellerDirectoryStub{})

	req := httptest.NewRequest("GET", "/sellers/42/products/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOnboardingRoute_PersistsWallet(t *testing.T) {
	taxID := "12345678900"
	sellers := &handlerSellerStoreStub{seller: &domain.Seller{
		StoreID: 42,
		Name:    "Loja da Ana",
		Email:   "ana@example.com",
		TaxID:   &taxID,
	}}
	router := newTestRouter(sellers, &storePlatformStub{}, &sellerDirectoryStub{})

	req := httptest.NewRequest("POST", "/internal/sellers/42/onboarding", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if sellers.savedWalletID != "W-new" {
		t.Errorf("expected the gateway wallet persisted, got %q", sellers.savedWalletID)
	}
}

func TestAdminGetSellerRoute(t *testing.T) {
	directory := &sellerDirectoryStub{seller: &domain.Seller{ID: "seller-1", StoreID: 42, WalletID: "W1"}}
	router := newTestRouter(&handlerSellerStoreStub{}, &storePlatformStub{}, directory)

	req := httptest.NewRequest("GET", "/admin/sellers/seller-1", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin-secret"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"seller-1"`) {
		t.Errorf("expected the seller in the response, got %s", rec.Body.String())
	}
}

func TestAdminGetSellerRoute_NotFound(t *testing.T) {
	router := newTestRouter(&handlerSellerStoreStub{}, &storePlatformStub{}, &sellerDirectoryStub{})

	req := httptest.NewRequest("GET", "/admin/sellers/missing", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken(t, "admin-secret"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
