package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecommendationAcceptsHealthyOutput(t *testing.T) {
	engine := NewEngineWithClock(testCatalog(), fixedClock("2026-05-01"))
	rec, err := engine.GenerateRecommendation(LawnData{
		Area:             150,
		CurrentCondition: ConditionEstablished,
	})
	require.NoError(t, err)

	result := ValidateRecommendation(rec)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestValidateRecommendationFlagsEmptyBundle(t *testing.T) {
	rec := &SmartRecommendation{
		Frequency:  45,
		Confidence: ConfidenceHigh,
		AnnualPlan: AnnualPlan{TotalCost: 0, Savings: 0, Deliveries: 8},
	}

	result := ValidateRecommendation(rec)
	assert.False(t, result.Valid)
	assert.Contains(t, result.Warnings, "recommendation contains no products")
}

func TestValidateRecommendationFlagsImplausibleDeliveries(t *testing.T) {
	tests := []struct {
		name       string
		deliveries int
		wantValid  bool
	}{
		{"zero deliveries", 0, false},
		{"one delivery", 1, true},
		{"thirteen deliveries", 13, true},
		{"weekly cadence slipped in", 52, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &SmartRecommendation{
				Products:   []RecommendedProduct{{Quantity: 1}},
				AnnualPlan: AnnualPlan{Savings: 50, Deliveries: tt.deliveries},
			}
			result := ValidateRecommendation(rec)
			assert.Equal(t, tt.wantValid, result.Valid)
		})
	}
}

func TestValidateRecommendationFlagsMissingSavings(t *testing.T) {
	rec := &SmartRecommendation{
		Products:   []RecommendedProduct{{Quantity: 1}},
		AnnualPlan: AnnualPlan{Savings: 0, Deliveries: 8},
	}

	result := ValidateRecommendation(rec)
	assert.False(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no savings")
}
