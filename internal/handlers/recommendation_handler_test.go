package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terraviva/backend/internal/subscription"
)

type fakeCatalog struct {
	products map[subscription.ProductType]subscription.CatalogProduct
}

func (f *fakeCatalog) ProductByType(t subscription.ProductType) (*subscription.CatalogProduct, error) {
	product, ok := f.products[t]
	if !ok {
		return nil, fmt.Errorf("no product for type %s: %w", t, subscription.ErrProductTypeMissing)
	}
	return &product, nil
}

func newRecommendationRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := &fakeCatalog{products: map[subscription.ProductType]subscription.CatalogProduct{
		subscription.ProductTypeMaintenance: {
			ProductID:    "prod-maintenance",
			Name:         "All-Season Maintenance",
			BasePrice:    89.90,
			CoverageArea: 100,
		},
		subscription.ProductTypeEstablishment: {
			ProductID:    "prod-starter",
			Name:         "Starter Boost",
			BasePrice:    94.90,
			CoverageArea: 100,
		},
	}}

	handler := NewRecommendationHandler(subscription.NewEngine(catalog))
	router := gin.New()
	router.POST("/recommendations", handler.Generate)
	router.POST("/recommendations/adjust", handler.Adjust)
	return router
}

func TestGenerateRecommendation(t *testing.T) {
	router := newRecommendationRouter(t)

	body, _ := json.Marshal(RecommendationRequest{
		Lawn: subscription.LawnData{
			Area:             150,
			CurrentCondition: subscription.ConditionEstablished,
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 45, resp.Recommendation.Frequency)
	assert.True(t, resp.Validation.Valid)
	assert.NotEmpty(t, resp.Reasoning)
}

func TestGenerateRecommendationWithPreference(t *testing.T) {
	router := newRecommendationRouter(t)

	preferred := 90
	body, _ := json.Marshal(RecommendationRequest{
		Lawn: subscription.LawnData{
			Area:             150,
			CurrentCondition: subscription.ConditionEstablished,
		},
		Preference: &subscription.Preference{PreferredFrequency: &preferred},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp RecommendationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 90, resp.Recommendation.Frequency)
	assert.Equal(t, subscription.ConfidenceMedium, resp.Recommendation.Confidence)
}

func TestGenerateRecommendationRejectsZeroArea(t *testing.T) {
	router := newRecommendationRouter(t)

	body, _ := json.Marshal(RecommendationRequest{
		Lawn: subscription.LawnData{CurrentCondition: subscription.ConditionEstablished},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateRecommendationMissingCatalogProduct(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRecommendationHandler(subscription.NewEngine(&fakeCatalog{
		products: map[subscription.ProductType]subscription.CatalogProduct{},
	}))
	router := gin.New()
	router.POST("/recommendations", handler.Generate)

	body, _ := json.Marshal(RecommendationRequest{
		Lawn: subscription.LawnData{
			Area:             150,
			CurrentCondition: subscription.ConditionNew,
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recommendations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdjustRecommendationInvalidFrequency(t *testing.T) {
	router := newRecommendationRouter(t)

	preferred := 40
	body, _ := json.Marshal(AdjustRequest{
		Recommendation: subscription.SmartRecommendation{
			Frequency:  45,
			Confidence: subscription.ConfidenceHigh,
		},
		Preference: subscription.Preference{PreferredFrequency: &preferred},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/recommendations/adjust", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
