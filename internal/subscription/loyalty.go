package subscription

// LoyaltyTier is one entry of the loyalty ladder. The additional discount
// stacks on top of the frequency discount and is applied by the billing
// layer, not by the pricing engine.
type LoyaltyTier struct {
	Name               string   `json:"name"`
	MinDeliveries      int      `json:"min_deliveries"`
	AdditionalDiscount int      `json:"additional_discount"`
	Benefits           []string `json:"benefits"`
	BadgeIcon          string   `json:"badge_icon"`
}

// LoyaltyTiers is ordered by ascending threshold; resolution picks the
// last tier a delivery count still qualifies for.
var LoyaltyTiers = []LoyaltyTier{
	{
		Name:               "bronze",
		MinDeliveries:      0,
		AdditionalDiscount: 0,
		Benefits: []string{
			"Free standard shipping on every delivery",
			"Access to the academy basics track",
		},
		BadgeIcon: "badge-bronze",
	},
	{
		Name:               "silver",
		MinDeliveries:      3,
		AdditionalDiscount: 2,
		Benefits: []string{
			"Additional 2% off every delivery",
			"Early access to seasonal products",
		},
		BadgeIcon: "badge-silver",
	},
	{
		Name:               "gold",
		MinDeliveries:      6,
		AdditionalDiscount: 5,
		Benefits: []string{
			"Additional 5% off every delivery",
			"Free soil analysis once per year",
			"Priority customer support",
		},
		BadgeIcon: "badge-gold",
	},
	{
		Name:               "platinum",
		MinDeliveries:      12,
		AdditionalDiscount: 8,
		Benefits: []string{
			"Additional 8% off every delivery",
			"Personal lawn care consultation",
			"Exclusive product previews",
			"Surprise gift in the anniversary box",
		},
		BadgeIcon: "badge-platinum",
	},
}

// ResolveTier maps a cumulative delivery count to a loyalty tier. Total:
// every count resolves to at least bronze.
func ResolveTier(deliveryCount int) LoyaltyTier {
	tier := LoyaltyTiers[0]
	for _, t := range LoyaltyTiers {
		if deliveryCount >= t.MinDeliveries {
			tier = t
		}
	}
	return tier
}
