package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/services/commerce"
	"github.com/terraviva/backend/internal/subscription"
	"github.com/terraviva/backend/internal/utils"
)

var (
	// ErrSubscriptionNotFound is returned when a subscription does not
	// exist or belongs to another customer
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrInvalidTransition is returned for a status change the lifecycle
	// does not allow
	ErrInvalidTransition = errors.New("invalid subscription status transition")
	// ErrChargeFailed is returned when the commerce platform declines a
	// subscription charge
	ErrChargeFailed = errors.New("subscription charge failed")
)

// deliveryLeadDays is the gap between charging a cycle and the
// scheduled delivery date.
const deliveryLeadDays = 3

// Biller charges a customer for one subscription cycle. The commerce
// client satisfies it; tests substitute their own.
type Biller interface {
	ChargeSubscription(ctx context.Context, commerceCustomerID string, amount float64, reference string) (*commerce.ChargeResult, error)
}

// Service manages the subscription lifecycle: creation, pause, resume,
// cancellation, frequency changes and the recurring billing cycle.
type Service struct {
	db *gorm.DB
}

// NewService creates a new subscription service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// NewItem is one product line for a new subscription
type NewItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// Create creates a pending subscription. Item prices are derived from
// the catalog base price and the chosen frequency; the first billing
// activates the subscription.
func (s *Service) Create(customerID uuid.UUID, frequencyDays int, newItems []NewItem) (*models.CustomerSubscription, error) {
	if _, ok := subscription.FrequencyByDays(frequencyDays); !ok {
		return nil, subscription.ErrInvalidFrequency
	}
	if len(newItems) == 0 {
		return nil, errors.New("subscription requires at least one item")
	}

	now := time.Now()
	firstDelivery := now.AddDate(0, 0, deliveryLeadDays)

	sub := models.CustomerSubscription{
		CustomerID:       customerID,
		Status:           models.SubscriptionStatusPending,
		Frequency:        frequencyDays,
		NextBillingDate:  &now,
		NextDeliveryDate: &firstDelivery,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range newItems {
			var product models.Product
			if err := tx.First(&product, "id = ? AND active = ?", item.ProductID, true).Error; err != nil {
				return fmt.Errorf("product %s: %w", item.ProductID, err)
			}

			price, err := subscription.CalculateSubscriptionPrice(product.BasePrice, frequencyDays)
			if err != nil {
				return err
			}

			sub.Items = append(sub.Items, models.SubscriptionItem{
				ProductID:         product.ID,
				CommerceVariantID: product.CommerceVariantID,
				Name:              product.Name,
				ImageURL:          product.ImageURL,
				BasePrice:         product.BasePrice,
				SubscriptionPrice: price,
				Quantity:          item.Quantity,
			})
		}
		return tx.Create(&sub).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	return &sub, nil
}

// Get returns a customer's subscription with its items and history
func (s *Service) Get(customerID uuid.UUID, subscriptionID string) (*models.CustomerSubscription, error) {
	var sub models.CustomerSubscription
	err := s.db.
		Preload("Items").
		Preload("DeliveryHistory", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("BillingHistory", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		First(&sub, "id = ? AND customer_id = ?", subscriptionID, customerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// ListByCustomer returns all subscriptions of a customer, newest first
func (s *Service) ListByCustomer(customerID uuid.UUID) ([]models.CustomerSubscription, error) {
	var subs []models.CustomerSubscription
	err := s.db.
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// Pause pauses an active subscription. Billing and deliveries stop
// until the customer resumes.
func (s *Service) Pause(customerID uuid.UUID, subscriptionID string) (*models.CustomerSubscription, error) {
	return s.transition(customerID, subscriptionID, func(sub *models.CustomerSubscription) (map[string]interface{}, error) {
		if sub.Status != models.SubscriptionStatusActive {
			return nil, fmt.Errorf("%w: cannot pause a %s subscription", ErrInvalidTransition, sub.Status)
		}
		now := time.Now()
		return map[string]interface{}{
			"status":    models.SubscriptionStatusPaused,
			"paused_at": now,
		}, nil
	})
}

// Resume reactivates a paused subscription. The next billing date is
// pushed forward so the customer is not charged for the paused gap.
func (s *Service) Resume(customerID uuid.UUID, subscriptionID string) (*models.CustomerSubscription, error) {
	return s.transition(customerID, subscriptionID, func(sub *models.CustomerSubscription) (map[string]interface{}, error) {
		if sub.Status != models.SubscriptionStatusPaused {
			return nil, fmt.Errorf("%w: cannot resume a %s subscription", ErrInvalidTransition, sub.Status)
		}
		nextBilling := time.Now()
		nextDelivery := nextBilling.AddDate(0, 0, deliveryLeadDays)
		return map[string]interface{}{
			"status":             models.SubscriptionStatusActive,
			"paused_at":          nil,
			"next_billing_date":  nextBilling,
			"next_delivery_date": nextDelivery,
		}, nil
	})
}

// Cancel cancels a subscription. Cancellation is terminal; a cancelled
// subscription is never resurrected.
func (s *Service) Cancel(customerID uuid.UUID, subscriptionID, reason string) (*models.CustomerSubscription, error) {
	return s.transition(customerID, subscriptionID, func(sub *models.CustomerSubscription) (map[string]interface{}, error) {
		if sub.Status == models.SubscriptionStatusCancelled {
			return nil, fmt.Errorf("%w: subscription is already cancelled", ErrInvalidTransition)
		}
		now := time.Now()
		return map[string]interface{}{
			"status":             models.SubscriptionStatusCancelled,
			"cancelled_at":       now,
			"cancel_reason":      reason,
			"next_billing_date":  nil,
			"next_delivery_date": nil,
		}, nil
	})
}

// UpdateFrequency changes the delivery cadence and reprices every item
// from its base price at the new frequency
func (s *Service) UpdateFrequency(customerID uuid.UUID, subscriptionID string, frequencyDays int) (*models.CustomerSubscription, error) {
	if _, ok := subscription.FrequencyByDays(frequencyDays); !ok {
		return nil, subscription.ErrInvalidFrequency
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var sub models.CustomerSubscription
		if err := tx.Preload("Items").First(&sub, "id = ? AND customer_id = ?", subscriptionID, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubscriptionNotFound
			}
			return err
		}
		if sub.Status == models.SubscriptionStatusCancelled {
			return fmt.Errorf("%w: cannot change frequency of a cancelled subscription", ErrInvalidTransition)
		}

		for _, item := range sub.Items {
			price, err := subscription.CalculateSubscriptionPrice(item.BasePrice, frequencyDays)
			if err != nil {
				return err
			}
			if err := tx.Model(&models.SubscriptionItem{}).
				Where("id = ?", item.ID).
				Update("subscription_price", price).Error; err != nil {
				return err
			}
		}

		return tx.Model(&sub).Update("frequency", frequencyDays).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(customerID, subscriptionID)
}

// transition applies a guarded status change and returns the updated row
func (s *Service) transition(customerID uuid.UUID, subscriptionID string, change func(*models.CustomerSubscription) (map[string]interface{}, error)) (*models.CustomerSubscription, error) {
	var sub models.CustomerSubscription
	if err := s.db.First(&sub, "id = ? AND customer_id = ?", subscriptionID, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	updates, err := change(&sub)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&sub).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Get(customerID, subscriptionID)
}

// Totals is the derived cost summary of a subscription
type Totals struct {
	PerDelivery    float64 `json:"per_delivery"`
	MonthlyAverage float64 `json:"monthly_average"`
	AnnualSavings  float64 `json:"annual_savings"`
}

// CalculateTotals derives per-delivery, monthly and annual figures from
// a subscription's items. Never stored, always recomputed.
func CalculateTotals(sub *models.CustomerSubscription) (Totals, error) {
	deliveries, err := subscription.DeliveriesPerYear(sub.Frequency)
	if err != nil {
		return Totals{}, err
	}

	var perDelivery, annualSavings float64
	for _, item := range sub.Items {
		perDelivery += item.SubscriptionPrice * float64(item.Quantity)

		savings, err := subscription.CalculateAnnualSavings(item.BasePrice, item.SubscriptionPrice, sub.Frequency, item.Quantity)
		if err != nil {
			return Totals{}, err
		}
		annualSavings += savings
	}

	return Totals{
		PerDelivery:    roundCents(perDelivery),
		MonthlyAverage: roundCents(perDelivery * float64(deliveries) / 12),
		AnnualSavings:  roundCents(annualSavings),
	}, nil
}

// LoyaltyStatus describes a subscription's loyalty tier and how far the
// customer is from the next one
type LoyaltyStatus struct {
	Tier                subscription.LoyaltyTier  `json:"tier"`
	DeliveryCount       int                       `json:"delivery_count"`
	NextTier            *subscription.LoyaltyTier `json:"next_tier,omitempty"`
	DeliveriesUntilNext int                       `json:"deliveries_until_next,omitempty"`
}

// Loyalty resolves the loyalty standing of a subscription
func (s *Service) Loyalty(customerID uuid.UUID, subscriptionID string) (*LoyaltyStatus, error) {
	var sub models.CustomerSubscription
	if err := s.db.First(&sub, "id = ? AND customer_id = ?", subscriptionID, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}

	status := &LoyaltyStatus{
		Tier:          subscription.ResolveTier(sub.DeliveryCount),
		DeliveryCount: sub.DeliveryCount,
	}
	for i := range subscription.LoyaltyTiers {
		if subscription.LoyaltyTiers[i].MinDeliveries > sub.DeliveryCount {
			status.NextTier = &subscription.LoyaltyTiers[i]
			status.DeliveriesUntilNext = subscription.LoyaltyTiers[i].MinDeliveries - sub.DeliveryCount
			break
		}
	}
	return status, nil
}

// DueForBilling returns the ids of subscriptions whose next billing
// date has arrived. Pending subscriptions are included so their first
// charge can activate them.
func (s *Service) DueForBilling(now time.Time) ([]string, error) {
	var ids []string
	err := s.db.Model(&models.CustomerSubscription{}).
		Where("status IN ? AND next_billing_date IS NOT NULL AND next_billing_date <= ?",
			[]models.SubscriptionStatus{models.SubscriptionStatusPending, models.SubscriptionStatusActive}, now).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AdvanceCycle runs one billing cycle for a subscription: charge the
// customer, record the billing attempt, schedule the delivery and
// advance the dates. The billing reference is derived from the
// subscription and its billing date, so a retried cycle charges under
// the same reference and the commerce platform deduplicates it. The
// charge itself runs outside any transaction: a failed attempt must
// stay in the billing history even though the cycle does not advance.
func (s *Service) AdvanceCycle(ctx context.Context, subscriptionID string, biller Biller) error {
	var sub models.CustomerSubscription
	if err := s.db.Preload("Items").First(&sub, "id = ?", subscriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubscriptionNotFound
		}
		return err
	}

	if sub.Status != models.SubscriptionStatusPending && sub.Status != models.SubscriptionStatusActive {
		log.Printf("Skipping billing cycle for %s subscription %s", sub.Status, sub.ID)
		return nil
	}
	if sub.NextBillingDate == nil || sub.NextBillingDate.After(time.Now()) {
		return nil
	}

	reference := utils.BillingReference(sub.ID, *sub.NextBillingDate)

	// A cycle that was already paid, e.g. re-enqueued by an overlapping
	// check job, must not charge again.
	var alreadyPaid int64
	err := s.db.Model(&models.BillingRecord{}).
		Where("reference = ? AND status = ?", reference, models.BillingStatusPaid).
		Count(&alreadyPaid).Error
	if err != nil {
		return err
	}
	if alreadyPaid > 0 {
		return nil
	}

	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", sub.CustomerID).Error; err != nil {
		return fmt.Errorf("failed to load customer: %w", err)
	}

	amount := chargeAmount(&sub)
	now := time.Now()

	result, err := biller.ChargeSubscription(ctx, customer.CommerceID, amount, reference)
	if err != nil || result.Status != "paid" {
		s.recordBilling(models.BillingRecord{
			SubscriptionID: sub.ID,
			Date:           now,
			Amount:         amount,
			Status:         models.BillingStatusFailed,
			Reference:      reference,
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrChargeFailed, err)
		}
		return fmt.Errorf("%w: charge returned status %s", ErrChargeFailed, result.Status)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		billing := models.BillingRecord{
			SubscriptionID: sub.ID,
			Date:           now,
			Amount:         result.Amount,
			Status:         models.BillingStatusPaid,
			InvoiceURL:     result.InvoiceURL,
			Reference:      reference,
		}
		if err := upsertBilling(tx, &billing); err != nil {
			return err
		}

		deliveryDate := now.AddDate(0, 0, deliveryLeadDays)
		delivery := models.DeliveryRecord{
			SubscriptionID: sub.ID,
			Date:           deliveryDate,
			Status:         models.DeliveryStatusScheduled,
			Items:          snapshotItems(sub.Items),
			Total:          amount,
		}
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}

		nextBilling := now.AddDate(0, 0, sub.Frequency)
		nextDelivery := nextBilling.AddDate(0, 0, deliveryLeadDays)
		return tx.Model(&sub).Updates(map[string]interface{}{
			"status":             models.SubscriptionStatusActive,
			"delivery_count":     sub.DeliveryCount + 1,
			"next_billing_date":  nextBilling,
			"next_delivery_date": nextDelivery,
		}).Error
	})
}

// recordBilling upserts one billing attempt, logging instead of failing:
// losing the history row must not mask the charge error itself.
func (s *Service) recordBilling(record models.BillingRecord) {
	if err := upsertBilling(s.db, &record); err != nil {
		log.Printf("Failed to record billing attempt %s: %v", record.Reference, err)
	}
}

// upsertBilling writes one billing record per cycle reference. A retry
// after a failed attempt overwrites that attempt instead of tripping
// the unique index on the reference.
func upsertBilling(db *gorm.DB, record *models.BillingRecord) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "reference"}},
		DoUpdates: clause.AssignmentColumns([]string{"date", "amount", "status", "invoice_url"}),
	}).Create(record).Error
}

// chargeAmount sums the item lines and applies the loyalty tier's
// additional discount on top of the frequency discount
func chargeAmount(sub *models.CustomerSubscription) float64 {
	var total float64
	for _, item := range sub.Items {
		total += item.SubscriptionPrice * float64(item.Quantity)
	}

	tier := subscription.ResolveTier(sub.DeliveryCount)
	if tier.AdditionalDiscount > 0 {
		total *= 1 - float64(tier.AdditionalDiscount)/100
	}

	return roundCents(total)
}

// snapshotItems freezes the current item lines into the delivery record
func snapshotItems(items []models.SubscriptionItem) models.JSONArray {
	snapshot := make(models.JSONArray, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, map[string]interface{}{
			"product_id":         item.ProductID.String(),
			"name":               item.Name,
			"quantity":           item.Quantity,
			"subscription_price": item.SubscriptionPrice,
		})
	}
	return snapshot
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
