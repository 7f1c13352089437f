package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/services/subscriptions"
	"github.com/terraviva/backend/internal/subscription"
)

// SubscriptionHandler serves the subscription lifecycle and pricing API
type SubscriptionHandler struct {
	subs *subscriptions.Service
}

// NewSubscriptionHandler creates a new subscription handler
func NewSubscriptionHandler(subsService *subscriptions.Service) *SubscriptionHandler {
	return &SubscriptionHandler{subs: subsService}
}

// frequencyResponse is one frequency option with prices computed for an
// optional base price
type frequencyResponse struct {
	subscription.FrequencyOption
	SubscriptionPrice *float64 `json:"subscription_price,omitempty"`
	AnnualSavings     *float64 `json:"annual_savings,omitempty"`
}

// ListFrequencies returns the delivery cadence catalog. With a
// base_price query parameter it also computes the discounted price and
// annual savings per option, so the storefront renders the frequency
// picker from one call.
func (h *SubscriptionHandler) ListFrequencies(c *gin.Context) {
	basePrice, _ := strconv.ParseFloat(c.Query("base_price"), 64)

	options := make([]frequencyResponse, 0, len(subscription.FrequencyOptions))
	for _, opt := range subscription.FrequencyOptions {
		entry := frequencyResponse{FrequencyOption: opt}
		if basePrice > 0 {
			price, err := subscription.CalculateSubscriptionPrice(basePrice, opt.Days)
			if err == nil {
				savings, _ := subscription.CalculateAnnualSavings(basePrice, price, opt.Days, 1)
				entry.SubscriptionPrice = &price
				entry.AnnualSavings = &savings
			}
		}
		options = append(options, entry)
	}

	c.JSON(http.StatusOK, gin.H{"frequencies": options})
}

// CreateSubscriptionRequest is the payload for creating a subscription
type CreateSubscriptionRequest struct {
	Frequency int                     `json:"frequency" binding:"required"`
	Items     []subscriptions.NewItem `json:"items" binding:"required,min=1,dive"`
}

// Create creates a pending subscription for the authenticated customer
func (h *SubscriptionHandler) Create(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subs.Create(customerID, req.Frequency, req.Items)
	if err != nil {
		if errors.Is(err, subscription.ErrInvalidFrequency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported delivery frequency"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription"})
		return
	}

	c.JSON(http.StatusCreated, h.withTotals(sub))
}

// List returns the authenticated customer's subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	subs, err := h.subs.ListByCustomer(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs})
}

// Get returns one subscription with items, history and derived totals
func (h *SubscriptionHandler) Get(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.subs.Get(customerID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withTotals(sub))
}

// Pause pauses an active subscription
func (h *SubscriptionHandler) Pause(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.subs.Pause(customerID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// Resume reactivates a paused subscription
func (h *SubscriptionHandler) Resume(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sub, err := h.subs.Resume(customerID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// CancelRequest is the payload for cancelling a subscription
type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Cancel cancels a subscription; the transition is terminal
func (h *SubscriptionHandler) Cancel(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subs.Cancel(customerID, c.Param("id"), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// UpdateFrequencyRequest is the payload for a cadence change
type UpdateFrequencyRequest struct {
	Frequency int `json:"frequency" binding:"required"`
}

// UpdateFrequency changes a subscription's cadence and reprices it
func (h *SubscriptionHandler) UpdateFrequency(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateFrequencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.subs.UpdateFrequency(customerID, c.Param("id"), req.Frequency)
	if err != nil {
		if errors.Is(err, subscription.ErrInvalidFrequency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported delivery frequency"})
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.withTotals(sub))
}

// Loyalty returns the loyalty standing of a subscription
func (h *SubscriptionHandler) Loyalty(c *gin.Context) {
	customerID, err := customerIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.subs.Loyalty(customerID, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// ListCancellationReasons returns the reasons shown in the cancel flow
func (h *SubscriptionHandler) ListCancellationReasons(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reasons": subscription.CancellationReasons})
}

// RetentionOffer returns the counter-offer for a cancellation reason,
// or 204 when the reason carries none
func (h *SubscriptionHandler) RetentionOffer(c *gin.Context) {
	offer, ok := subscription.RetentionOfferFor(c.Param("reason"))
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, offer)
}

// withTotals attaches the derived cost summary to a subscription payload
func (h *SubscriptionHandler) withTotals(sub *models.CustomerSubscription) gin.H {
	response := gin.H{"subscription": sub}
	if totals, err := subscriptions.CalculateTotals(sub); err == nil {
		response["totals"] = totals
	}
	return response
}

// writeError maps service errors to HTTP responses
func (h *SubscriptionHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, subscriptions.ErrSubscriptionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
	case errors.Is(err, subscriptions.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
