package subscription

import "errors"

var (
	// ErrInvalidFrequency is returned when a delivery frequency is not one
	// of the cadences in the frequency catalog. Callers must treat this as
	// a programming or data error: a frequency must never reach the pricing
	// engine without having been checked against the catalog first.
	ErrInvalidFrequency = errors.New("invalid delivery frequency")

	// ErrProductTypeMissing is returned when the product catalog has no
	// active product for a type the recommendation engine requires. This is
	// a fatal configuration error, not a degraded-recommendation case.
	ErrProductTypeMissing = errors.New("no active product for type")
)
