/**
 * @description
 * HTTP handlers for the marketplace service.
 */
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/centralpay/marketplace-service/internal/app"
	"github.com/centralpay/marketplace-service/internal/domain"
	"github.com/centralpay/marketplace-service/internal/store"
)

// StorePlatform defines the e-commerce reads the handlers proxy.
type StorePlatform interface {
	ListOrders(ctx context.Context, storeID int64) ([]domain.StoreOrder, error)
	GetOrder(ctx context.Context, storeID, orderID int64) (*domain.StoreOrder, error)
	ListProducts(ctx context.Context, storeID int64) ([]domain.StoreProduct, error)
	GetProduct(ctx context.Context, storeID, productID int64) (*domain.StoreProduct, error)
}

// SellerDirectory defines the admin seller reads the handlers need.
type SellerDirectory interface {
	List(ctx context.Context, limit int) ([]domain.Seller, error)
	GetByID(ctx context.Context, id string) (*domain.Seller, error)
}

// Handler holds the application services that handlers interact with.
type Handler struct {
	service app.SellerService
	stores  StorePlatform
	sellers SellerDirectory
	jobs    *app.Jobs
}

// NewHandler creates a new Handler.
func NewHandler(service app.SellerService, stores StorePlatform, sellers SellerDirectory, jobs *app.Jobs) *Handler {
	return &Handler{service: service, stores: stores, sellers: sellers, jobs: jobs}
}

func (h *Handler) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	var req app.SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	sub, reqErr, err := h.service.CreateSellerSubscription(r.Context(), sellerID, req)
	if err != nil {
		log.Printf("Error creating subscription for seller %d: %v", sellerID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if reqErr != nil {
		respondWithJSON(w, reqErr.StatusCode, map[string]interface{}{
			"success": false,
			"error":   reqErr,
		})
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success":      true,
		"subscription": sub,
	})
}

func (h *Handler) handleCancelSubscription(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	reqErr, err := h.service.CancelSellerSubscription(r.Context(), sellerID)
	if err != nil {
		log.Printf("Error canceling subscription for seller %d: %v", sellerID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if reqErr != nil {
		respondWithJSON(w, reqErr.StatusCode, map[string]interface{}{
			"success": false,
			"error":   reqErr,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) handleGetSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	result := h.service.GetSellerSubscriptionStatus(r.Context(), sellerID)
	if !result.Success {
		respondWithJSON(w, result.Err.StatusCode, result)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	orders, err := h.stores.ListOrders(r.Context(), sellerID)
	if err != nil {
		log.Printf("Error listing orders for seller %d: %v", sellerID, err)
		http.Error(w, "Failed to fetch orders", http.StatusBadGateway)
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
	if err != nil || orderID <= 0 {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := h.stores.GetOrder(r.Context(), sellerID, orderID)
	if err != nil {
		log.Printf("Error fetching order %d for seller %d: %v", orderID, sellerID, err)
		http.Error(w, "Failed to fetch order", http.StatusBadGateway)
		return
	}

	respondWithJSON(w, http.StatusOK, order)
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	products, err := h.stores.ListProducts(r.Context(), sellerID)
	if err != nil {
		log.Printf("Error listing products for seller %d: %v", sellerID, err)
		http.Error(w, "Failed to fetch products", http.StatusBadGateway)
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *Handler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil || productID <= 0 {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := h.stores.GetProduct(r.Context(), sellerID, productID)
	if err != nil {
		log.Printf("Error fetching product %d for seller %d: %v", productID, sellerID, err)
		http.Error(w, "Failed to fetch product", http.StatusBadGateway)
		return
	}

	respondWithJSON(w, http.StatusOK, product)
}

func (h *Handler) handleOnboardSeller(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := SellerIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Seller ID is required", http.StatusBadRequest)
		return
	}

	var req app.OnboardRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
			return
		}
	}

	seller, reqErr, err := h.service.OnboardSeller(r.Context(), sellerID, req)
	if err != nil {
		log.Printf("Error onboarding seller %d: %v", sellerID, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if reqErr != nil {
		respondWithJSON(w, reqErr.StatusCode, map[string]interface{}{
			"success": false,
			"error":   reqErr,
		})
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"seller":  seller,
	})
}

func (h *Handler) handleListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.sellers.List(r.Context(), 100)
	if err != nil {
		log.Printf("Error listing sellers: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, sellers)
}

func (h *Handler) handleGetSeller(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	seller, err := h.sellers.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrSellerNotFound) {
			http.Error(w, "Seller not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching seller %s: %v", id, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	respondWithJSON(w, http.StatusOK, seller)
}

func (h *Handler) handleSyncSubscriptions(w http.ResponseWriter, r *http.Request) {
	h.jobs.SyncSubscriptionStatuses()
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// respondWithJSON writes JSON responses.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
