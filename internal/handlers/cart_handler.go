package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraviva/backend/internal/services/commerce"
)

// CartHandler passes cart operations through to the commerce platform.
// Carts and checkout never live in this backend.
type CartHandler struct {
	commerce *commerce.Client
}

// NewCartHandler creates a new cart handler
func NewCartHandler(commerceClient *commerce.Client) *CartHandler {
	return &CartHandler{commerce: commerceClient}
}

// CartRequest is the payload for creating a cart or adding lines
type CartRequest struct {
	Lines []commerce.CartLine `json:"lines" binding:"required,min=1"`
}

// CreateCart creates a cart on the commerce platform
func (h *CartHandler) CreateCart(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.commerce.CreateCart(c.Request.Context(), req.Lines)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Commerce platform unavailable"})
		return
	}

	c.JSON(http.StatusCreated, cart)
}

// AddCartLines adds lines to an existing cart
func (h *CartHandler) AddCartLines(c *gin.Context) {
	var req CartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.commerce.AddCartLines(c.Request.Context(), c.Param("id"), req.Lines)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Commerce platform unavailable"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// GetCheckoutURL returns the hosted checkout URL for a cart
func (h *CartHandler) GetCheckoutURL(c *gin.Context) {
	url, err := h.commerce.GetCheckoutURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Commerce platform unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}
