package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/queue"
	"github.com/terraviva/backend/internal/services/commerce"
)

// OrderSyncJob refreshes the local order cache from the commerce
// platform after an order webhook. Fetching the full order here keeps
// the webhook handler fast and makes the sync retryable.
type OrderSyncJob struct {
	db       *gorm.DB
	commerce *commerce.Client
}

// NewOrderSyncJob creates a new order sync job
func NewOrderSyncJob(db *gorm.DB, commerceClient *commerce.Client) *OrderSyncJob {
	return &OrderSyncJob{db: db, commerce: commerceClient}
}

// OrderSyncPayload is the payload for an order sync job
type OrderSyncPayload struct {
	CommerceOrderID string `json:"commerce_order_id"`
}

// SyncOrder fetches an order from the commerce platform and upserts it
// into the local cache
func (j *OrderSyncJob) SyncOrder(ctx context.Context, job queue.Job) (interface{}, error) {
	var payload OrderSyncPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return nil, fmt.Errorf("invalid payload: %w", err)
	}

	order, err := j.commerce.GetOrder(ctx, payload.CommerceOrderID)
	if err != nil {
		return nil, err
	}

	var customer models.Customer
	if err := j.db.First(&customer, "commerce_id = ?", order.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Guest checkout, nothing to cache
			return map[string]interface{}{"skipped": "no local customer"}, nil
		}
		return nil, err
	}

	items := make(models.JSONArray, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, item)
	}

	cached := models.OrderCache{
		CustomerID:      customer.ID,
		CommerceOrderID: order.ID,
		OrderNumber:     order.OrderNumber,
		Total:           order.Total,
		Currency:        order.Currency,
		Status:          order.Status,
		PlacedAt:        order.PlacedAt,
		Items:           items,
	}

	var existing models.OrderCache
	err = j.db.First(&existing, "commerce_order_id = ?", order.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := j.db.Create(&cached).Error; err != nil {
			return nil, fmt.Errorf("failed to cache order: %w", err)
		}
		return map[string]interface{}{"commerce_order_id": order.ID, "created": true}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := j.db.Model(&existing).Updates(map[string]interface{}{
		"total":     order.Total,
		"status":    order.Status,
		"items":     items,
		"placed_at": order.PlacedAt,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to refresh cached order: %w", err)
	}
	return map[string]interface{}{"commerce_order_id": order.ID, "created": false}, nil
}
