/**
 * @description
 * Authentication and gating middleware for the marketplace service.
 * Seller-scoped routes are gated on subscription state; internal routes on a
 * shared API key; admin routes on an HS256 bearer token.
 */
package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/centralpay/marketplace-service/internal/app"
)

type contextKey string

// SellerIDContextKey is the key used to store the seller ID in the request context.
const SellerIDContextKey = contextKey("sellerID")

// SellerIDFromContext retrieves the seller ID from the request context.
func SellerIDFromContext(ctx context.Context) (int64, bool) {
	sellerID, ok := ctx.Value(SellerIDContextKey).(int64)
	return sellerID, ok
}

// SellerIDMiddleware parses the {sellerID} URL parameter and injects it into
// the request context. A missing or malformed ID is rejected up front.
func SellerIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "sellerID")
		sellerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || sellerID <= 0 {
			http.Error(w, "Invalid seller ID", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), SellerIDContextKey, sellerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SubscriptionGateMiddleware blocks seller-scoped requests unless the seller
// holds a valid subscription. A failed check is rendered directly as the
// response: its status code and message are echoed verbatim.
func SubscriptionGateMiddleware(validator app.SubscriptionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sellerID, ok := SellerIDFromContext(r.Context())
			if !ok {
				http.Error(w, "Seller ID is required", http.StatusBadRequest)
				return
			}

			if result := validator.CheckSubscription(r.Context(), sellerID); result != nil {
				respondWithJSON(w, result.Err.StatusCode, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// InternalAuthMiddleware validates the internal API key for server-to-server calls.
func InternalAuthMiddleware(requiredKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiredKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get("X-Internal-API-Key")
			if provided == "" || provided != requiredKey {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminAuthMiddleware validates HS256 bearer tokens issued to platform
// operators. An unset secret closes the admin surface entirely; unlike the
// internal key, admin routes never run open.
func AdminAuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "Admin access is not configured", http.StatusUnauthorized)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Invalid Authorization header format", http.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
