package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/models"
)

// OrderHandler serves the cached order history for the account area
type OrderHandler struct {
	db *gorm.DB
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(db *gorm.DB) *OrderHandler {
	return &OrderHandler{db: db}
}

// ListOrders returns the authenticated customer's orders, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var orders []models.OrderCache
	err = h.db.
		Where("customer_id = ?", customerID).
		Order("placed_at DESC").
		Find(&orders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
