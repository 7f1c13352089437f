package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/terraviva/backend/internal/subscription"
)

// RecommendationHandler serves the smart recommendation flow: a lawn
// profile goes in, a frequency, product bundle and annual projection
// come out.
type RecommendationHandler struct {
	engine *subscription.Engine
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(engine *subscription.Engine) *RecommendationHandler {
	return &RecommendationHandler{engine: engine}
}

// RecommendationRequest is the payload for generating a recommendation.
// Preference is optional; when present it is applied on top of the
// algorithm's result.
type RecommendationRequest struct {
	Lawn       subscription.LawnData    `json:"lawn" binding:"required"`
	Preference *subscription.Preference `json:"preference,omitempty"`
}

// RecommendationResponse bundles the recommendation with its sanity
// check so the storefront can show caveats without a second call
type RecommendationResponse struct {
	Recommendation *subscription.SmartRecommendation `json:"recommendation"`
	Reasoning      string                            `json:"reasoning"`
	Validation     subscription.ValidationResult     `json:"validation"`
}

// Generate produces a recommendation for a lawn profile
func (h *RecommendationHandler) Generate(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Lawn.Area <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lawn area must be positive"})
		return
	}

	rec, err := h.engine.GenerateRecommendation(req.Lawn)
	if err != nil {
		if errors.Is(err, subscription.ErrProductTypeMissing) {
			c.JSON(http.StatusConflict, gin.H{"error": "Catalog is missing a product for this lawn profile"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate recommendation"})
		return
	}

	if req.Preference != nil {
		rec, err = subscription.AdjustRecommendationByPreference(rec, *req.Preference)
		if err != nil {
			if errors.Is(err, subscription.ErrInvalidFrequency) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported delivery frequency"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply preferences"})
			return
		}
	}

	c.JSON(http.StatusOK, RecommendationResponse{
		Recommendation: rec,
		Reasoning:      rec.Reasoning(),
		Validation:     subscription.ValidateRecommendation(rec),
	})
}

// AdjustRequest is the payload for re-applying preferences to an
// already generated recommendation
type AdjustRequest struct {
	Recommendation subscription.SmartRecommendation `json:"recommendation" binding:"required"`
	Preference     subscription.Preference          `json:"preference" binding:"required"`
}

// Adjust applies customer preferences to a previously generated
// recommendation, so the storefront's sliders do not regenerate from
// the lawn profile on every change
func (h *RecommendationHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := subscription.AdjustRecommendationByPreference(&req.Recommendation, req.Preference)
	if err != nil {
		if errors.Is(err, subscription.ErrInvalidFrequency) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported delivery frequency"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply preferences"})
		return
	}

	c.JSON(http.StatusOK, RecommendationResponse{
		Recommendation: rec,
		Reasoning:      rec.Reasoning(),
		Validation:     subscription.ValidateRecommendation(rec),
	})
}
