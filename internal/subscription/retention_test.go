package subscription

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionOfferFor(t *testing.T) {
	offer, ok := RetentionOfferFor("too_expensive")
	require.True(t, ok)
	assert.Equal(t, OfferDiscount, offer.Type)
	assert.Equal(t, 15, offer.DiscountPercent)

	offer, ok = RetentionOfferFor("taking_a_break")
	require.True(t, ok)
	assert.Equal(t, OfferPause, offer.Type)

	offer, ok = RetentionOfferFor("too_much_product")
	require.True(t, ok)
	assert.Equal(t, OfferFrequency, offer.Type)
}

func TestRetentionOfferForUnknownOrBareReason(t *testing.T) {
	_, ok := RetentionOfferFor("does_not_exist")
	assert.False(t, ok)

	// "other" is a valid reason but deliberately carries no offer.
	_, ok = RetentionOfferFor("other")
	assert.False(t, ok)
}

func TestCancellationReasonCatalog(t *testing.T) {
	seen := make(map[string]bool)
	for _, reason := range CancellationReasons {
		assert.False(t, seen[reason.ID], "duplicate reason id %s", reason.ID)
		seen[reason.ID] = true
		assert.NotEmpty(t, reason.Label)
		if reason.Offer != nil {
			assert.NotEmpty(t, reason.Offer.Message)
		}
	}
}
