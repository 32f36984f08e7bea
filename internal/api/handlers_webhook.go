/**
 * @description
 * This file contains the HTTP handler for processing incoming webhooks from
 * the payment gateway. It is the entry point for all payment lifecycle
 * notifications driving the subscription state machine.
 *
 * Key features:
 * - Security: validates the HMAC signature of incoming webhooks.
 * - Dedupe: skips events already processed recently.
 * - Rate limiting: bounds how often a single source can hit the endpoint.
 */
package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/centralpay/marketplace-service/internal/app"
	"github.com/centralpay/marketplace-service/internal/domain"
)

const (
	webhookRateLimit  = 120
	webhookRateWindow = time.Minute
)

// WebhookHandler processes incoming webhooks from the payment gateway.
type WebhookHandler struct {
	processor       app.WebhookProcessor
	limiter         *app.RedisWebhookRateLimiter
	secret          string
	processedEvents map[string]time.Time
	mutex           sync.Mutex
}

// NewWebhookHandler creates a new handler for the webhook endpoint.
func NewWebhookHandler(processor app.WebhookProcessor, limiter *app.RedisWebhookRateLimiter, secret string) *WebhookHandler {
	return &WebhookHandler{
		processor:       processor,
		limiter:         limiter,
		secret:          secret,
		processedEvents: make(map[string]time.Time),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = fmt.Sprintf("req_%d", time.Now().UnixNano())
	}

	if retryAfter, limited := h.isRateLimited(r); limited {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
		http.Error(w, "Too many requests", http.StatusTooManyRequests)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("[%s] Error reading webhook body: %v", requestID, err)
		http.Error(w, "Cannot read request body", http.StatusBadRequest)
		return
	}

	if !h.isValidSignature(r.Header.Get("x-gateway-signature"), body) {
		log.Printf("[%s] Error: Invalid webhook signature", requestID)
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	var event domain.GatewayWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[%s] Error decoding webhook JSON: %v", requestID, err)
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if event.Event == "" {
		log.Printf("[%s] Webhook missing event field. Raw payload: %s", requestID, string(body))
		http.Error(w, "Missing event field", http.StatusBadRequest)
		return
	}

	log.Printf("[%s] Received webhook event: %s for payment %s", requestID, event.Event, event.Payment.ID)

	if h.isDuplicateEvent(event.ID, event.Event) {
		log.Printf("[%s] Skipping duplicate event %s (%s)", requestID, event.ID, event.Event)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Webhook received"))
		return
	}

	if err := h.processor.Process(r.Context(), event); err != nil {
		log.Printf("[%s] Error processing webhook event %s: %v", requestID, event.Event, err)
		// Non-OK makes the gateway redeliver. The event is only marked
		// processed on success, so a redelivery retries it.
		http.Error(w, "Failed to process event", http.StatusInternalServerError)
		return
	}
	h.markEventProcessed(event.ID, event.Event)

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhook received"))
}

// isValidSignature validates the HMAC-SHA256 signature of the webhook. The
// gateway signs the raw body; the header carries the digest hex- or
// base64-encoded.
func (h *WebhookHandler) isValidSignature(signatureHeader string, body []byte) bool {
	if h.secret == "" {
		log.Println("Warning: GATEWAY_WEBHOOK_SECRET is not set. Skipping signature validation.")
		return true
	}

	header := strings.TrimSpace(signatureHeader)
	if header == "" {
		log.Println("Missing x-gateway-signature header")
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	if decoded, err := hex.DecodeString(header); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	if decoded, err := base64.StdEncoding.DecodeString(header); err == nil && hmac.Equal(decoded, expected) {
		return true
	}

	return false
}

// isDuplicateEvent checks if we've already processed this event recently.
func (h *WebhookHandler) isDuplicateEvent(eventID, eventType string) bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	// Drop entries older than an hour so the map stays bounded.
	cutoff := time.Now().Add(-1 * time.Hour)
	for id, timestamp := range h.processedEvents {
		if timestamp.Before(cutoff) {
			delete(h.processedEvents, id)
		}
	}

	eventKey := fmt.Sprintf("%s:%s", eventID, eventType)
	if timestamp, exists := h.processedEvents[eventKey]; exists {
		if time.Since(timestamp) < 5*time.Minute {
			return true
		}
	}
	return false
}

// markEventProcessed records a successfully processed event so redeliveries
// inside the dedupe window are absorbed. Failed events are never recorded;
// the gateway's redelivery must reach the processor again.
func (h *WebhookHandler) markEventProcessed(eventID, eventType string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.processedEvents[fmt.Sprintf("%s:%s", eventID, eventType)] = time.Now()
}

func (h *WebhookHandler) isRateLimited(r *http.Request) (retryAfter int, limited bool) {
	if h.limiter == nil {
		return 0, false
	}

	source, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		source = r.RemoteAddr
	}

	count, retryAfterSeconds, err := h.limiter.ConsumeRateLimit(r.Context(), "webhook", source, webhookRateLimit, webhookRateWindow)
	if err != nil {
		// Limiter outages must not drop webhooks.
		log.Printf("WARN: webhook rate limiter unavailable: %v", err)
		return 0, false
	}
	if count > webhookRateLimit {
		return retryAfterSeconds, true
	}
	return 0, false
}
