package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// JobType defines the type of job
type JobType string

const (
	// JobTypeBillingCycleCheck scans for subscriptions due for billing
	JobTypeBillingCycleCheck JobType = "billing_cycle_check"
	// JobTypeProcessSubscriptionCycle bills and schedules one subscription
	JobTypeProcessSubscriptionCycle JobType = "process_subscription_cycle"
	// JobTypeSyncCommerceOrder refreshes the local order cache from the
	// commerce platform
	JobTypeSyncCommerceOrder JobType = "sync_commerce_order"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job represents a background job persisted in the database
type Job struct {
	ID         uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	Type       JobType         `json:"type" gorm:"index"`
	Payload    json.RawMessage `json:"payload"`
	Status     JobStatus       `json:"status" gorm:"index"`
	RetryCount int             `json:"retry_count" gorm:"default:0"`
	MaxRetries int             `json:"max_retries" gorm:"default:3"`
	NextRetry  *time.Time      `json:"next_retry,omitempty"`
	Error      string          `json:"error,omitempty"`
	Result     json.RawMessage `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// JobHandler is a function that processes a job
type JobHandler func(ctx context.Context, job Job) (interface{}, error)

// QueueInterface defines the operations handlers and jobs need from the
// queue, so they can be tested against a mock
type QueueInterface interface {
	RegisterHandler(jobType JobType, handler JobHandler)
	EnqueueJob(jobType JobType, payload interface{}) (string, error)
	GetJobByID(id string) (*Job, error)
}

// Queue is a database-backed job queue
type Queue struct {
	db       *gorm.DB
	handlers map[JobType]JobHandler
	mu       sync.RWMutex
	quit     chan struct{}
	wg       sync.WaitGroup
}

// NewQueue creates a new queue
func NewQueue(db *gorm.DB) *Queue {
	return &Queue{
		db:       db,
		handlers: make(map[JobType]JobHandler),
		quit:     make(chan struct{}),
	}
}

// RegisterHandler registers a handler for a job type
func (q *Queue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = handler
}

// EnqueueJob adds a job to the queue
func (q *Queue) EnqueueJob(jobType JobType, payload interface{}) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := Job{
		ID:         uuid.New(),
		Type:       jobType,
		Payload:    payloadBytes,
		Status:     JobStatusPending,
		MaxRetries: 3,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := q.db.Create(&job).Error; err != nil {
		return "", err
	}

	return job.ID.String(), nil
}

// GetJobByID fetches a job by its id
func (q *Queue) GetJobByID(id string) (*Job, error) {
	var job Job
	if err := q.db.First(&job, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// ProcessJobs polls for pending jobs and dispatches them to their
// handlers until Stop is called. Run it in a goroutine.
func (q *Queue) ProcessJobs() {
	q.wg.Add(1)
	defer q.wg.Done()

	for {
		select {
		case <-q.quit:
			return
		default:
			if !q.processNext() {
				time.Sleep(500 * time.Millisecond)
			}
		}
	}
}

// Stop stops job processing
func (q *Queue) Stop() {
	close(q.quit)
	q.wg.Wait()
}

// processNext claims and runs one due job; returns false when the queue
// was empty.
func (q *Queue) processNext() bool {
	var job Job
	now := time.Now()

	// Claim inside a transaction so concurrent processors never pick up
	// the same job.
	err := q.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("status = ? AND (next_retry IS NULL OR next_retry <= ?)", JobStatusPending, now).
			Order("created_at").
			First(&job).Error; err != nil {
			return err
		}
		return tx.Model(&job).Updates(map[string]interface{}{
			"status":     JobStatusProcessing,
			"updated_at": now,
		}).Error
	})
	if err != nil {
		return false
	}

	q.mu.RLock()
	handler, ok := q.handlers[job.Type]
	q.mu.RUnlock()
	if !ok {
		log.Printf("No handler registered for job type %s", job.Type)
		q.markFailed(&job, fmt.Errorf("no handler for job type %s", job.Type))
		return true
	}

	result, err := handler(context.Background(), job)
	if err != nil {
		log.Printf("Job %s (%s) failed: %v", job.ID, job.Type, err)
		q.retryOrFail(&job, err)
		return true
	}

	resultBytes, _ := json.Marshal(result)
	q.db.Model(&job).Updates(map[string]interface{}{
		"status":     JobStatusCompleted,
		"result":     resultBytes,
		"updated_at": time.Now(),
	})
	return true
}

// retryOrFail reschedules a failed job with backoff or marks it failed
// once its retries are exhausted.
func (q *Queue) retryOrFail(job *Job, jobErr error) {
	if job.RetryCount >= job.MaxRetries {
		q.markFailed(job, jobErr)
		return
	}

	nextRetry := time.Now().Add(calculateBackoff(job.RetryCount))
	q.db.Model(job).Updates(map[string]interface{}{
		"status":      JobStatusPending,
		"retry_count": job.RetryCount + 1,
		"next_retry":  nextRetry,
		"error":       jobErr.Error(),
		"updated_at":  time.Now(),
	})
}

func (q *Queue) markFailed(job *Job, jobErr error) {
	q.db.Model(job).Updates(map[string]interface{}{
		"status":     JobStatusFailed,
		"error":      jobErr.Error(),
		"updated_at": time.Now(),
	})
}

// calculateBackoff returns an exponential backoff with jitter.
// Base 5 seconds, capped at 1 hour.
func calculateBackoff(retry int) time.Duration {
	backoff := float64(5*time.Second) * math.Pow(2, float64(retry))
	if backoff > float64(time.Hour) {
		backoff = float64(time.Hour)
	}
	jitter := rand.Float64() * 0.3 * backoff
	return time.Duration(backoff + jitter)
}
