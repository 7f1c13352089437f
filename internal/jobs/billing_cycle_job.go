package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/terraviva/backend/internal/queue"
	"github.com/terraviva/backend/internal/services/subscriptions"
)

// BillingCycleJob drives the recurring subscription billing: a daily
// check job finds subscriptions whose billing date has arrived and fans
// out one process job per subscription, so a single failing charge
// retries without blocking the rest of the batch.
type BillingCycleJob struct {
	queue  queue.QueueInterface
	subs   *subscriptions.Service
	biller subscriptions.Biller
}

// NewBillingCycleJob creates a new billing cycle job
func NewBillingCycleJob(q queue.QueueInterface, subs *subscriptions.Service, biller subscriptions.Biller) *BillingCycleJob {
	return &BillingCycleJob{queue: q, subs: subs, biller: biller}
}

// ProcessCyclePayload is the payload for a single-subscription cycle job
type ProcessCyclePayload struct {
	SubscriptionID string `json:"subscription_id"`
}

// CheckDueSubscriptions finds subscriptions due for billing and
// enqueues a process job for each
func (j *BillingCycleJob) CheckDueSubscriptions(ctx context.Context, job queue.Job) (interface{}, error) {
	ids, err := j.subs.DueForBilling(time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to find due subscriptions: %w", err)
	}

	enqueued := 0
	for _, id := range ids {
		_, err := j.queue.EnqueueJob(queue.JobTypeProcessSubscriptionCycle, ProcessCyclePayload{SubscriptionID: id})
		if err != nil {
			log.Printf("Failed to enqueue billing cycle for subscription %s: %v", id, err)
			continue
		}
		enqueued++
	}

	log.Printf("Billing cycle check: %d due, %d enqueued", len(ids), enqueued)
	return map[string]interface{}{"due": len(ids), "enqueued": enqueued}, nil
}

// ProcessSubscriptionCycle bills one subscription and advances its
// schedule. Errors are returned so the queue retries with backoff.
func (j *BillingCycleJob) ProcessSubscriptionCycle(ctx context.Context, job queue.Job) (interface{}, error) {
	var payload ProcessCyclePayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	if err := j.subs.AdvanceCycle(ctx, payload.SubscriptionID, j.biller); err != nil {
		return nil, err
	}

	return map[string]interface{}{"subscription_id": payload.SubscriptionID}, nil
}

// ScheduleCheck enqueues a billing cycle check, called by the scheduler
func (j *BillingCycleJob) ScheduleCheck() {
	if _, err := j.queue.EnqueueJob(queue.JobTypeBillingCycleCheck, nil); err != nil {
		log.Printf("Failed to enqueue billing cycle check: %v", err)
	}
}
