package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/terraviva/backend/internal/config"
)

// Client talks to the headless commerce platform. The platform owns
// carts, checkout and payment processing; this backend only reads
// products, builds carts and triggers subscription charges, and treats
// the rest as opaque.
type Client struct {
	baseURL         string
	adminToken      string
	storefrontToken string
	httpClient      *http.Client
}

// NewClient creates a commerce client from configuration
func NewClient(cfg config.CommerceConfig) *Client {
	return &Client{
		baseURL:         cfg.APIURL,
		adminToken:      cfg.AdminToken,
		storefrontToken: cfg.StorefrontToken,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Product is a commerce platform product with its default variant
type Product struct {
	ID       string  `json:"id"`
	Handle   string  `json:"handle"`
	Title    string  `json:"title"`
	Variant  string  `json:"variant_id"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"image_url"`
}

// CartLine is one line to add to a cart
type CartLine struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// Cart is a priced cart returned by the platform
type Cart struct {
	ID          string     `json:"id"`
	Lines       []CartLine `json:"lines"`
	Subtotal    float64    `json:"subtotal"`
	CheckoutURL string     `json:"checkout_url"`
}

// ChargeResult is the outcome of a subscription charge
type ChargeResult struct {
	Status     string  `json:"status"` // paid, failed
	Reference  string  `json:"reference"`
	Amount     float64 `json:"amount"`
	InvoiceURL string  `json:"invoice_url"`
}

// Order is a commerce platform order, used to refresh the order cache
type Order struct {
	ID          string                   `json:"id"`
	OrderNumber string                   `json:"order_number"`
	CustomerID  string                   `json:"customer_id"`
	Total       float64                  `json:"total"`
	Currency    string                   `json:"currency"`
	Status      string                   `json:"status"`
	PlacedAt    time.Time                `json:"placed_at"`
	Items       []map[string]interface{} `json:"items"`
}

// GetProduct fetches a product by its platform id
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/products/"+productID, nil, &product, c.storefrontToken); err != nil {
		return nil, fmt.Errorf("commerce: get product %s: %w", productID, err)
	}
	return &product, nil
}

// CreateCart creates a cart with the given lines
func (c *Client) CreateCart(ctx context.Context, lines []CartLine) (*Cart, error) {
	payload := map[string]interface{}{"lines": lines}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/carts", payload, &cart, c.storefrontToken); err != nil {
		return nil, fmt.Errorf("commerce: create cart: %w", err)
	}
	return &cart, nil
}

// AddCartLines appends lines to an existing cart and returns the
// repriced cart
func (c *Client) AddCartLines(ctx context.Context, cartID string, lines []CartLine) (*Cart, error) {
	payload := map[string]interface{}{"lines": lines}
	var cart Cart
	if err := c.do(ctx, http.MethodPost, "/carts/"+cartID+"/lines", payload, &cart, c.storefrontToken); err != nil {
		return nil, fmt.Errorf("commerce: add cart lines: %w", err)
	}
	return &cart, nil
}

// GetCheckoutURL returns the hosted checkout URL for a cart
func (c *Client) GetCheckoutURL(ctx context.Context, cartID string) (string, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/carts/"+cartID, nil, &cart, c.storefrontToken); err != nil {
		return "", fmt.Errorf("commerce: get cart %s: %w", cartID, err)
	}
	return cart.CheckoutURL, nil
}

// ChargeSubscription charges a customer's stored payment method for one
// subscription cycle. The reference deduplicates retried charges on the
// platform side.
func (c *Client) ChargeSubscription(ctx context.Context, commerceCustomerID string, amount float64, reference string) (*ChargeResult, error) {
	payload := map[string]interface{}{
		"customer_id": commerceCustomerID,
		"amount":      amount,
		"currency":    "EUR",
		"reference":   reference,
	}
	var result ChargeResult
	if err := c.do(ctx, http.MethodPost, "/subscription-charges", payload, &result, c.adminToken); err != nil {
		return nil, fmt.Errorf("commerce: charge subscription: %w", err)
	}
	return &result, nil
}

// GetOrder fetches an order by its platform id
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+orderID, nil, &order, c.adminToken); err != nil {
		return nil, fmt.Errorf("commerce: get order %s: %w", orderID, err)
	}
	return &order, nil
}

// do performs one JSON request against the platform API
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}, token string) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
