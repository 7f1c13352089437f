package subscription

import "fmt"

// CalculateSubscriptionPrice returns the per-delivery price for a base
// price at the given cadence. The discount comes from the frequency
// catalog; an unknown cadence is an error, never a silent default, since
// defaulting a discount rate is a financial-correctness hazard.
func CalculateSubscriptionPrice(basePrice float64, frequencyDays int) (float64, error) {
	opt, ok := FrequencyByDays(frequencyDays)
	if !ok {
		return 0, fmt.Errorf("%w: %d days", ErrInvalidFrequency, frequencyDays)
	}
	return basePrice * (1 - float64(opt.DiscountPercent)/100), nil
}

// DeliveriesPerYear returns how many deliveries a cadence produces in a
// year. Floor, not round: the projection shown to the customer must never
// overstate how many deliveries (and how much saving) a year brings.
func DeliveriesPerYear(frequencyDays int) (int, error) {
	if _, ok := FrequencyByDays(frequencyDays); !ok {
		return 0, fmt.Errorf("%w: %d days", ErrInvalidFrequency, frequencyDays)
	}
	return 365 / frequencyDays, nil
}

// CalculateAnnualSavings returns the yearly saving of subscribing versus
// buying one-time, for a given quantity per delivery. Result is >= 0 as
// long as the subscription price does not exceed the base price.
func CalculateAnnualSavings(basePrice, subscriptionPrice float64, frequencyDays, quantity int) (float64, error) {
	deliveries, err := DeliveriesPerYear(frequencyDays)
	if err != nil {
		return 0, err
	}
	return (basePrice - subscriptionPrice) * float64(quantity) * float64(deliveries), nil
}
