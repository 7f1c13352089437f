package commerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraviva/backend/internal/config"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(config.CommerceConfig{
		APIURL:          server.URL,
		AdminToken:      "admin-token",
		StorefrontToken: "storefront-token",
	})
	return client, server
}

func TestGetProduct(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/prod_123", r.URL.Path)
		assert.Equal(t, "Bearer storefront-token", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(Product{
			ID:      "prod_123",
			Title:   "Spring Boost",
			Variant: "var_456",
			Price:   89.90,
		})
	}))
	defer server.Close()

	product, err := client.GetProduct(context.Background(), "prod_123")
	require.NoError(t, err)
	assert.Equal(t, "Spring Boost", product.Title)
	assert.Equal(t, 89.90, product.Price)
}

func TestChargeSubscription(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscription-charges", r.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "cust_1", payload["customer_id"])
		assert.Equal(t, "BIL-20260829-3fa91c", payload["reference"])

		json.NewEncoder(w).Encode(ChargeResult{
			Status:    "paid",
			Reference: payload["reference"].(string),
			Amount:    payload["amount"].(float64),
		})
	}))
	defer server.Close()

	result, err := client.ChargeSubscription(context.Background(), "cust_1", 79.11, "BIL-20260829-3fa91c")
	require.NoError(t, err)
	assert.Equal(t, "paid", result.Status)
	assert.Equal(t, 79.11, result.Amount)
}

func TestErrorStatusSurfacesBody(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"card declined"}`))
	}))
	defer server.Close()

	_, err := client.ChargeSubscription(context.Background(), "cust_1", 79.11, "ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "402")
	assert.Contains(t, err.Error(), "card declined")
}

func TestCreateCart(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/carts", r.URL.Path)

		json.NewEncoder(w).Encode(Cart{
			ID:          "cart_1",
			Subtotal:    158.22,
			CheckoutURL: "https://commerce.example/checkout/cart_1",
		})
	}))
	defer server.Close()

	cart, err := client.CreateCart(context.Background(), []CartLine{{VariantID: "var_456", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, "cart_1", cart.ID)
	assert.NotEmpty(t, cart.CheckoutURL)
}
