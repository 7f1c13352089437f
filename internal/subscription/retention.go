package subscription

// OfferType classifies what a retention offer proposes.
type OfferType string

const (
	OfferDiscount  OfferType = "discount"
	OfferPause     OfferType = "pause"
	OfferFrequency OfferType = "frequency"
	OfferSupport   OfferType = "support"
)

// RetentionOffer is what we counter a cancellation with.
type RetentionOffer struct {
	Type            OfferType `json:"type"`
	DiscountPercent int       `json:"discount_percent,omitempty"`
	Message         string    `json:"message"`
}

// CancellationReason maps a reason a customer gives for cancelling to an
// optional retention offer. The presentation of the matched offer is the
// calling layer's job; this is pure data.
type CancellationReason struct {
	ID    string          `json:"id"`
	Label string          `json:"label"`
	Offer *RetentionOffer `json:"offer,omitempty"`
}

// CancellationReasons is the catalog of reasons shown in the cancel flow.
var CancellationReasons = []CancellationReason{
	{
		ID:    "too_expensive",
		Label: "The subscription is too expensive",
		Offer: &RetentionOffer{
			Type:            OfferDiscount,
			DiscountPercent: 15,
			Message:         "Stay with us and get 15% off your next three deliveries.",
		},
	},
	{
		ID:    "too_much_product",
		Label: "I have more product than I can use",
		Offer: &RetentionOffer{
			Type:    OfferFrequency,
			Message: "Switch to a longer delivery rhythm instead, with a bigger discount per delivery.",
		},
	},
	{
		ID:    "taking_a_break",
		Label: "My lawn does not need care right now",
		Offer: &RetentionOffer{
			Type:    OfferPause,
			Message: "Pause your subscription for up to three months and keep your loyalty tier.",
		},
	},
	{
		ID:    "moving",
		Label: "I am moving house",
		Offer: &RetentionOffer{
			Type:    OfferPause,
			Message: "Pause deliveries until you have settled in; your plan moves with you.",
		},
	},
	{
		ID:    "not_satisfied",
		Label: "The product did not work for my lawn",
		Offer: &RetentionOffer{
			Type:    OfferSupport,
			Message: "Let our lawn experts review your care plan free of charge before you go.",
		},
	},
	{
		ID:    "other",
		Label: "Another reason",
	},
}

// RetentionOfferFor looks up the offer for a cancellation reason id. The
// second return is false for unknown reasons and for reasons that carry
// no offer.
func RetentionOfferFor(reasonID string) (*RetentionOffer, bool) {
	for _, reason := range CancellationReasons {
		if reason.ID == reasonID {
			if reason.Offer == nil {
				return nil, false
			}
			return reason.Offer, true
		}
	}
	return nil, false
}
