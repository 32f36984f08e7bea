/**
 * @description
 * This package provides a client for interacting with the payment gateway
 * API. It encapsulates the logic for making authenticated HTTP requests,
 * handling request/response bodies, and managing errors from the API.
 *
 * @notes
 * - The client includes a default HTTP client with a timeout to prevent
 *   requests from hanging indefinitely.
 * - Error handling returns a formatted error string that includes the status
 *   code and response body for easier debugging.
 */
package gatewayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/centralpay/marketplace-service/internal/domain"
)

// Client is a client for interacting with the payment gateway API.
type Client struct {
	BaseURL    string
	APIKey     string
	httpClient *http.Client
}

// NewClient creates a new gateway API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateAccount creates a seller subaccount at the gateway. The response
// carries the wallet ID used as the seller's split target.
func (c *Client) CreateAccount(ctx context.Context, req domain.GatewayCreateAccountRequest) (*domain.GatewayAccountResponse, error) {
	var resp domain.GatewayAccountResponse
	if err := c.post(ctx, "/api/v3/accounts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateCustomer creates a paying customer at the gateway.
func (c *Client) CreateCustomer(ctx context.Context, req domain.GatewayCreateCustomerRequest) (*domain.GatewayCustomerResponse, error) {
	var resp domain.GatewayCustomerResponse
	if err := c.post(ctx, "/api/v3/customers", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateSubscription creates a recurring charge, including its split.
func (c *Client) CreateSubscription(ctx context.Context, req domain.GatewayCreateSubscriptionRequest) (*domain.GatewaySubscriptionResponse, error) {
	var resp domain.GatewaySubscriptionResponse
	if err := c.post(ctx, "/api/v3/subscriptions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetSubscription fetches the gateway's current view of a subscription.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*domain.GatewaySubscriptionResponse, error) {
	url := fmt.Sprintf("%s/api/v3/subscriptions/%s", c.BaseURL, subscriptionID)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create http request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var subResp domain.GatewaySubscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&subResp); err != nil {
		return nil, fmt.Errorf("failed to decode successful response: %w", err)
	}
	return &subResp, nil
}

// CancelSubscription deletes a subscription at the gateway, stopping all
// future charges.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	url := fmt.Sprintf("%s/api/v3/subscriptions/%s", c.BaseURL, subscriptionID)

	httpReq, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, reqBody, respBody interface{}) error {
	url := fmt.Sprintf("%s%s", c.BaseURL, path)
	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create http request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request to gateway: %w", err)
	}
	defer resp.Body.Close()

	// Both 200 OK and 201 Created are valid
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("failed to decode successful response: %w", err)
	}
	return nil
}

// setHeaders adds the necessary authentication and content-type headers.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access_token", c.APIKey)
}

// handleErrorResponse reads the body of a failed API call and returns a
// formatted error.
func (c *Client) handleErrorResponse(resp *http.Response) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Failed to read error response body: %v", err)
		return fmt.Errorf("gateway API error with status %d, but failed to read response body", resp.StatusCode)
	}
	return fmt.Errorf("gateway API request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
}
