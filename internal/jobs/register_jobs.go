package jobs

import (
	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/queue"
	"github.com/terraviva/backend/internal/services/commerce"
	"github.com/terraviva/backend/internal/services/subscriptions"
)

// RegisterJobs wires all job handlers into the queue and returns the
// billing cycle job so the scheduler can trigger its daily check
func RegisterJobs(q queue.QueueInterface, db *gorm.DB, subs *subscriptions.Service, commerceClient *commerce.Client) *BillingCycleJob {
	billing := NewBillingCycleJob(q, subs, commerceClient)
	q.RegisterHandler(queue.JobTypeBillingCycleCheck, billing.CheckDueSubscriptions)
	q.RegisterHandler(queue.JobTypeProcessSubscriptionCycle, billing.ProcessSubscriptionCycle)

	orderSync := NewOrderSyncJob(db, commerceClient)
	q.RegisterHandler(queue.JobTypeSyncCommerceOrder, orderSync.SyncOrder)

	return billing
}
