package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func baseRecommendation(t *testing.T) *SmartRecommendation {
	t.Helper()
	engine := NewEngineWithClock(testCatalog(), fixedClock("2026-05-01"))
	rec, err := engine.GenerateRecommendation(LawnData{
		Area:             250,
		CurrentCondition: ConditionEstablished,
	})
	require.NoError(t, err)
	require.Equal(t, ConfidenceHigh, rec.Confidence)
	return rec
}

func TestPreferredFrequencyAlwaysDowngradesConfidence(t *testing.T) {
	rec := baseRecommendation(t)

	adjusted, err := AdjustRecommendationByPreference(rec, Preference{
		PreferredFrequency: intPtr(60),
	})
	require.NoError(t, err)

	assert.Equal(t, 60, adjusted.Frequency)
	assert.Equal(t, ConfidenceMedium, adjusted.Confidence)
	assert.Equal(t, 6, adjusted.AnnualPlan.Deliveries)
}

func TestPreferredFrequencyMustBeInCatalog(t *testing.T) {
	rec := baseRecommendation(t)

	_, err := AdjustRecommendationByPreference(rec, Preference{
		PreferredFrequency: intPtr(75),
	})
	assert.ErrorIs(t, err, ErrInvalidFrequency)
}

func TestPrioritizeSavingsSelectsLongestRhythm(t *testing.T) {
	rec := baseRecommendation(t)

	adjusted, err := AdjustRecommendationByPreference(rec, Preference{
		PrioritizeSavings: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 90, adjusted.Frequency)
	assert.Equal(t, ConfidenceMedium, adjusted.Confidence)
	assert.Equal(t, 4, adjusted.AnnualPlan.Deliveries)
}

func TestBudgetStretchesRhythm(t *testing.T) {
	rec := baseRecommendation(t)

	// Bundle base total: 3 units x 89.90 = 269.70. At 30 days a delivery
	// costs 242.73, at 45 days 237.34; a 230 budget only fits from the
	// 15% discount (60 days, 229.25) upwards.
	adjusted, err := AdjustRecommendationByPreference(rec, Preference{
		MaxDeliveryBudget: floatPtr(230),
	})
	require.NoError(t, err)

	assert.Equal(t, 60, adjusted.Frequency)
	assert.Equal(t, ConfidenceMedium, adjusted.Confidence)
}

func TestBudgetFallsBackToLongestRhythm(t *testing.T) {
	rec := baseRecommendation(t)

	adjusted, err := AdjustRecommendationByPreference(rec, Preference{
		MaxDeliveryBudget: floatPtr(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 90, adjusted.Frequency)
}

func TestAdjustWithoutPreferencesKeepsConfidence(t *testing.T) {
	rec := baseRecommendation(t)

	adjusted, err := AdjustRecommendationByPreference(rec, Preference{})
	require.NoError(t, err)
	assert.Equal(t, rec.Frequency, adjusted.Frequency)
	assert.Equal(t, ConfidenceHigh, adjusted.Confidence)
}

func TestAdjustDoesNotMutateInput(t *testing.T) {
	rec := baseRecommendation(t)
	originalFrequency := rec.Frequency
	originalReasons := len(rec.Reasons)

	_, err := AdjustRecommendationByPreference(rec, Preference{
		PreferredFrequency: intPtr(90),
	})
	require.NoError(t, err)

	assert.Equal(t, originalFrequency, rec.Frequency)
	assert.Len(t, rec.Reasons, originalReasons)
	assert.Equal(t, ConfidenceHigh, rec.Confidence)
}
