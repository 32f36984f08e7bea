/**
 * @description
 * HTTP router setup for the marketplace service using go-chi/chi.
 */
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/centralpay/marketplace-service/internal/app"
)

// NewRouter creates a new Chi router and registers all routes.
func NewRouter(h *Handler, webhook *WebhookHandler, validator app.SubscriptionValidator, internalKey, adminJWTSecret string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Internal-API-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Marketplace service is healthy"))
	})

	r.Method("POST", "/webhooks/gateway", webhook)

	r.Route("/sellers/{sellerID}", func(r chi.Router) {
		r.Use(SellerIDMiddleware)

		// Subscription management stays reachable without a valid
		// subscription; everything else is gated on one.
		r.Post("/subscription", h.handleCreateSubscription)
		r.Delete("/subscription", h.handleCancelSubscription)
		r.Get("/subscription/status", h.handleGetSubscriptionStatus)

		r.Group(func(r chi.Router) {
			r.Use(SubscriptionGateMiddleware(validator))
			r.Get("/orders", h.handleListOrders)
			r.Get("/orders/{orderID}", h.handleGetOrder)
			r.Get("/products", h.handleListProducts)
			r.Get("/products/{productID}", h.handleGetProduct)
		})
	})

	r.Route("/internal", func(r chi.Router) {
		r.Use(InternalAuthMiddleware(internalKey))
		r.Post("/subscriptions/sync", h.handleSyncSubscriptions)
		r.With(SellerIDMiddleware).Post("/sellers/{sellerID}/onboarding", h.handleOnboardSeller)
	})

	r.Group(func(r chi.Router) {
		r.Use(AdminAuthMiddleware(adminJWTSecret))
		r.Get("/admin/sellers", h.handleListSellers)
		r.Get("/admin/sellers/{id}", h.handleGetSeller)
	})

	return r
}
