package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBillingReferenceIsDeterministic(t *testing.T) {
	subscriptionID := uuid.New()
	billingDate := time.Date(2026, 8, 29, 6, 0, 0, 0, time.UTC)

	first := BillingReference(subscriptionID, billingDate)
	second := BillingReference(subscriptionID, billingDate)

	assert.Equal(t, first, second)
	assert.Contains(t, first, subscriptionID.String())
	assert.Contains(t, first, "20260829")
}

func TestBillingReferenceChangesPerCycle(t *testing.T) {
	subscriptionID := uuid.New()
	first := BillingReference(subscriptionID, time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC))
	next := BillingReference(subscriptionID, time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC))

	assert.NotEqual(t, first, next)
}
