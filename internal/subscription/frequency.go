package subscription

// FrequencyOption describes one allowed recurring-delivery cadence.
// The catalog is metadata: adding a cadence or changing a discount is a
// data change here, not a logic change anywhere else.
type FrequencyOption struct {
	Days            int    `json:"days"`
	Label           string `json:"label"`
	Description     string `json:"description"`
	DiscountPercent int    `json:"discount_percent"`
	Recommended     bool   `json:"recommended"`
}

// FrequencyOptions is the closed set of supported delivery cadences,
// ordered by interval. Discounts never decrease as the interval grows so
// a longer commitment is never priced worse than a shorter one.
var FrequencyOptions = []FrequencyOption{
	{
		Days:            30,
		Label:           "Every 30 days",
		Description:     "Intensive care for new or stressed lawns",
		DiscountPercent: 10,
	},
	{
		Days:            45,
		Label:           "Every 45 days",
		Description:     "Our most popular rhythm for established lawns",
		DiscountPercent: 12,
		Recommended:     true,
	},
	{
		Days:            60,
		Label:           "Every 60 days",
		Description:     "Relaxed schedule for small, healthy lawns",
		DiscountPercent: 15,
	},
	{
		Days:            90,
		Label:           "Every 90 days",
		Description:     "Seasonal top-up with the maximum discount",
		DiscountPercent: 20,
	},
}

// FrequencyByDays looks up a catalog entry by its interval in days.
func FrequencyByDays(days int) (FrequencyOption, bool) {
	for _, opt := range FrequencyOptions {
		if opt.Days == days {
			return opt, true
		}
	}
	return FrequencyOption{}, false
}

// MaxFrequency returns the longest interval in the catalog, which also
// carries the highest discount.
func MaxFrequency() FrequencyOption {
	return FrequencyOptions[len(FrequencyOptions)-1]
}
