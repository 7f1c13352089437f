package subscription

import "fmt"

// maxDeliveriesPerYear guards the projection against a future catalog
// change producing a nonsensical delivery count (13 is a 28-day cadence).
const maxDeliveriesPerYear = 13

// ValidationResult is the outcome of a recommendation sanity check.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}

// ValidateRecommendation sanity-checks a recommendation before it drives
// a purchase flow. It never fails hard: a recommendation with warnings
// may still be shown with a caveat, and that judgment belongs to the
// caller, not to this package.
func ValidateRecommendation(rec *SmartRecommendation) ValidationResult {
	var warnings []string

	if len(rec.Products) == 0 {
		warnings = append(warnings, "recommendation contains no products")
	}
	if rec.AnnualPlan.Savings <= 0 {
		warnings = append(warnings, "annual plan projects no savings over one-time purchases")
	}
	if rec.AnnualPlan.Deliveries < 1 || rec.AnnualPlan.Deliveries > maxDeliveriesPerYear {
		warnings = append(warnings, fmt.Sprintf("annual plan projects %d deliveries, expected between 1 and %d",
			rec.AnnualPlan.Deliveries, maxDeliveriesPerYear))
	}

	return ValidationResult{Valid: len(warnings) == 0, Warnings: warnings}
}
