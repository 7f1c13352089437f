package subscriptions

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/services/commerce"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Customer{},
		&models.CustomerSubscription{},
		&models.SubscriptionItem{},
		&models.BillingRecord{},
		&models.DeliveryRecord{},
	))
	return db
}

type stubBiller struct {
	err        error
	status     string
	references []string
}

func (b *stubBiller) ChargeSubscription(ctx context.Context, commerceCustomerID string, amount float64, reference string) (*commerce.ChargeResult, error) {
	b.references = append(b.references, reference)
	if b.err != nil {
		return nil, b.err
	}
	return &commerce.ChargeResult{Status: b.status, Reference: reference, Amount: amount}, nil
}

func seedDueSubscription(t *testing.T, db *gorm.DB) *models.CustomerSubscription {
	t.Helper()

	customer := models.Customer{Email: "kunde@example.com", Password: "x", CommerceID: "cust_1"}
	require.NoError(t, db.Create(&customer).Error)

	due := time.Now().Add(-time.Hour)
	delivery := due.AddDate(0, 0, deliveryLeadDays)
	sub := models.CustomerSubscription{
		CustomerID:       customer.ID,
		Status:           models.SubscriptionStatusPending,
		Frequency:        45,
		NextBillingDate:  &due,
		NextDeliveryDate: &delivery,
		Items: []models.SubscriptionItem{
			{ProductID: uuid.New(), Name: "All-Season Maintenance", BasePrice: 89.90, SubscriptionPrice: 79.11, Quantity: 2},
		},
	}
	require.NoError(t, db.Create(&sub).Error)
	return &sub
}

func TestAdvanceCycleKeepsFailedBillingRecord(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)
	biller := &stubBiller{err: errors.New("card declined")}

	err := service.AdvanceCycle(context.Background(), sub.ID.String(), biller)
	require.ErrorIs(t, err, ErrChargeFailed)

	var records []models.BillingRecord
	require.NoError(t, db.Where("subscription_id = ?", sub.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, models.BillingStatusFailed, records[0].Status)
	assert.InDelta(t, 158.22, records[0].Amount, 0.001)

	// The cycle must not advance on a failed charge
	var reloaded models.CustomerSubscription
	require.NoError(t, db.First(&reloaded, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusPending, reloaded.Status)
	assert.Equal(t, 0, reloaded.DeliveryCount)
	assert.True(t, reloaded.NextBillingDate.Before(time.Now()))
}

func TestAdvanceCycleDeclinedChargeKeepsFailedBillingRecord(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)
	biller := &stubBiller{status: "failed"}

	err := service.AdvanceCycle(context.Background(), sub.ID.String(), biller)
	require.ErrorIs(t, err, ErrChargeFailed)

	var record models.BillingRecord
	require.NoError(t, db.First(&record, "subscription_id = ?", sub.ID).Error)
	assert.Equal(t, models.BillingStatusFailed, record.Status)
}

func TestAdvanceCycleRetryReusesReference(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)
	biller := &stubBiller{err: errors.New("timeout")}

	require.Error(t, service.AdvanceCycle(context.Background(), sub.ID.String(), biller))
	require.Error(t, service.AdvanceCycle(context.Background(), sub.ID.String(), biller))

	require.Len(t, biller.references, 2)
	assert.Equal(t, biller.references[0], biller.references[1])

	// One record per cycle, not one per attempt
	var count int64
	require.NoError(t, db.Model(&models.BillingRecord{}).Where("subscription_id = ?", sub.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAdvanceCycleActivatesOnFirstPaidCharge(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)
	biller := &stubBiller{status: "paid"}

	require.NoError(t, service.AdvanceCycle(context.Background(), sub.ID.String(), biller))

	var reloaded models.CustomerSubscription
	require.NoError(t, db.First(&reloaded, "id = ?", sub.ID).Error)
	assert.Equal(t, models.SubscriptionStatusActive, reloaded.Status)
	assert.Equal(t, 1, reloaded.DeliveryCount)
	assert.True(t, reloaded.NextBillingDate.After(time.Now().AddDate(0, 0, 44)))

	var billing models.BillingRecord
	require.NoError(t, db.First(&billing, "subscription_id = ?", sub.ID).Error)
	assert.Equal(t, models.BillingStatusPaid, billing.Status)

	var delivery models.DeliveryRecord
	require.NoError(t, db.First(&delivery, "subscription_id = ?", sub.ID).Error)
	assert.Equal(t, models.DeliveryStatusScheduled, delivery.Status)
	assert.InDelta(t, 158.22, delivery.Total, 0.001)
}

func TestAdvanceCycleFailureThenSuccessUpdatesSameRecord(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)

	failing := &stubBiller{err: errors.New("timeout")}
	require.Error(t, service.AdvanceCycle(context.Background(), sub.ID.String(), failing))

	paying := &stubBiller{status: "paid"}
	require.NoError(t, service.AdvanceCycle(context.Background(), sub.ID.String(), paying))

	var records []models.BillingRecord
	require.NoError(t, db.Where("subscription_id = ?", sub.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.Equal(t, models.BillingStatusPaid, records[0].Status)
}

func TestAdvanceCycleSkipsAlreadyPaidCycle(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)
	originalDue := *sub.NextBillingDate

	biller := &stubBiller{status: "paid"}
	require.NoError(t, service.AdvanceCycle(context.Background(), sub.ID.String(), biller))
	require.Len(t, biller.references, 1)

	// A stale job for the same cycle must not charge again
	require.NoError(t, db.Model(&models.CustomerSubscription{}).
		Where("id = ?", sub.ID).
		Update("next_billing_date", originalDue).Error)

	require.NoError(t, service.AdvanceCycle(context.Background(), sub.ID.String(), biller))
	assert.Len(t, biller.references, 1)
}

func TestAdvanceCycleSkipsPausedSubscription(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)
	sub := seedDueSubscription(t, db)
	require.NoError(t, db.Model(&models.CustomerSubscription{}).
		Where("id = ?", sub.ID).
		Update("status", models.SubscriptionStatusPaused).Error)

	biller := &stubBiller{status: "paid"}
	require.NoError(t, service.AdvanceCycle(context.Background(), sub.ID.String(), biller))
	assert.Empty(t, biller.references)
}
