package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terraviva/backend/internal/services/locator"
)

// StoreHandler serves the retail store locator
type StoreHandler struct {
	locator *locator.Service
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(locatorService *locator.Service) *StoreHandler {
	return &StoreHandler{locator: locatorService}
}

// ListStores returns all active retail stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	stores, err := h.locator.ListStores()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// Nearby returns the stores closest to a position
func (h *StoreHandler) Nearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng query parameters are required"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	stores, err := h.locator.Nearby(lat, lng, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stores"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stores": stores})
}
