package utils

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BillingReference builds the reference for one billing cycle, e.g.
// "BIL-3fa91c52-…-20260829". The same subscription and billing date
// always produce the same reference, so a retried charge is
// deduplicated by the commerce platform and by the unique column on
// billing records instead of charging the customer twice.
func BillingReference(subscriptionID uuid.UUID, billingDate time.Time) string {
	return fmt.Sprintf("BIL-%s-%s", subscriptionID, billingDate.Format("20060102"))
}
