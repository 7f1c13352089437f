package subscription

import "fmt"

// Preference carries explicit customer wishes that override the
// algorithm's own judgment.
type Preference struct {
	// PreferredFrequency forces a specific cadence in days.
	PreferredFrequency *int `json:"preferred_frequency,omitempty"`
	// MaxDeliveryBudget caps what one delivery may cost; the engine picks
	// the shortest cadence that still fits the cap.
	MaxDeliveryBudget *float64 `json:"max_delivery_budget,omitempty"`
	// PrioritizeSavings selects the longest cadence for the maximum
	// discount, regardless of the lawn profile.
	PrioritizeSavings bool `json:"prioritize_savings,omitempty"`
}

// AdjustRecommendationByPreference applies customer preferences to an
// existing recommendation and recomputes the financial projection. The
// input is not mutated. Whenever a preference replaces the algorithm's
// chosen frequency, confidence drops to medium: the result is no longer
// purely data-driven, and the caller should present it that way.
func AdjustRecommendationByPreference(rec *SmartRecommendation, pref Preference) (*SmartRecommendation, error) {
	adjusted := *rec
	adjusted.Products = append([]RecommendedProduct(nil), rec.Products...)
	adjusted.Reasons = append([]string(nil), rec.Reasons...)

	overridden := false

	if pref.PreferredFrequency != nil {
		if _, ok := FrequencyByDays(*pref.PreferredFrequency); !ok {
			return nil, fmt.Errorf("%w: %d days", ErrInvalidFrequency, *pref.PreferredFrequency)
		}
		adjusted.Frequency = *pref.PreferredFrequency
		adjusted.Reasons = append(adjusted.Reasons,
			fmt.Sprintf("Adjusted to your chosen %d-day rhythm.", adjusted.Frequency))
		overridden = true
	}

	if pref.MaxDeliveryBudget != nil {
		budgetFrequency, err := frequencyWithinBudget(adjusted.Products, *pref.MaxDeliveryBudget)
		if err != nil {
			return nil, err
		}
		if budgetFrequency != adjusted.Frequency {
			adjusted.Frequency = budgetFrequency
			adjusted.Reasons = append(adjusted.Reasons,
				fmt.Sprintf("Stretched to a %d-day rhythm to stay within your budget per delivery.", adjusted.Frequency))
		}
		overridden = true
	}

	if pref.PrioritizeSavings {
		adjusted.Frequency = MaxFrequency().Days
		adjusted.Reasons = append(adjusted.Reasons,
			fmt.Sprintf("Set to the %d-day rhythm for the maximum discount, as requested.", adjusted.Frequency))
		overridden = true
	}

	if overridden {
		adjusted.Confidence = ConfidenceMedium
	}

	if err := projectAnnualPlan(&adjusted); err != nil {
		return nil, err
	}
	return &adjusted, nil
}

// frequencyWithinBudget picks the shortest cadence whose per-delivery
// price fits the budget, falling back to the longest cadence (highest
// discount) when even that exceeds it.
func frequencyWithinBudget(products []RecommendedProduct, budget float64) (int, error) {
	var baseTotal float64
	for _, p := range products {
		baseTotal += p.Product.BasePrice * float64(p.Quantity)
	}
	for _, opt := range FrequencyOptions {
		price, err := CalculateSubscriptionPrice(baseTotal, opt.Days)
		if err != nil {
			return 0, err
		}
		if price <= budget {
			return opt.Days, nil
		}
	}
	return MaxFrequency().Days, nil
}
