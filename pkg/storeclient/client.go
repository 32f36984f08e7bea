/**
 * @description
 * This package provides a client for the e-commerce platform API. The
 * marketplace proxies narrow, read-only order and product lookups through it
 * for seller-scoped endpoints.
 */
package storeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/centralpay/marketplace-service/internal/domain"
)

// Client provides read access to the e-commerce platform API.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient creates a new store platform client.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ListOrders retrieves the orders of a store.
func (c *Client) ListOrders(ctx context.Context, storeID int64) ([]domain.StoreOrder, error) {
	var orders []domain.StoreOrder
	path := fmt.Sprintf("/v1/%d/orders", storeID)
	if err := c.get(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder retrieves a single order of a store.
func (c *Client) GetOrder(ctx context.Context, storeID, orderID int64) (*domain.StoreOrder, error) {
	var order domain.StoreOrder
	path := fmt.Sprintf("/v1/%d/orders/%d", storeID, orderID)
	if err := c.get(ctx, path, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListProducts retrieves the products of a store.
func (c *Client) ListProducts(ctx context.Context, storeID int64) ([]domain.StoreProduct, error) {
	var products []domain.StoreProduct
	path := fmt.Sprintf("/v1/%d/products", storeID)
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct retrieves a single product of a store.
func (c *Client) GetProduct(ctx context.Context, storeID, productID int64) (*domain.StoreProduct, error) {
	var product domain.StoreProduct
	path := fmt.Sprintf("/v1/%d/products/%d", storeID, productID)
	if err := c.get(ctx, path, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	url := fmt.Sprintf("%s%s", c.baseURL, path)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authentication", fmt.Sprintf("bearer %s", c.accessToken))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Error calling store platform: %v", err)
		return fmt.Errorf("failed to call store platform: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Store platform returned status %d: %s", resp.StatusCode, string(body))
		return fmt.Errorf("store platform returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
