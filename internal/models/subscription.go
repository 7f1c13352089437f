package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionStatus represents the status of a customer subscription
type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// DeliveryStatus represents the status of a single delivery
type DeliveryStatus string

const (
	DeliveryStatusScheduled DeliveryStatus = "scheduled"
	DeliveryStatusInTransit DeliveryStatus = "in-transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// BillingStatus represents the status of a billing attempt
type BillingStatus string

const (
	BillingStatusPending  BillingStatus = "pending"
	BillingStatusPaid     BillingStatus = "paid"
	BillingStatusFailed   BillingStatus = "failed"
	BillingStatusRefunded BillingStatus = "refunded"
)

// CustomerSubscription is one recurring-delivery contract for one
// customer. It starts pending, becomes active on the first successful
// billing, may pause and resume any number of times, and cancellation is
// terminal: a cancelled subscription is never resurrected, a new one is
// created instead.
type CustomerSubscription struct {
	Base
	CustomerID       uuid.UUID          `gorm:"type:uuid;index" json:"customer_id"`
	Status           SubscriptionStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`
	Frequency        int                `gorm:"not null" json:"frequency"` // days between deliveries
	NextBillingDate  *time.Time         `json:"next_billing_date"`
	NextDeliveryDate *time.Time         `json:"next_delivery_date"`
	DeliveryCount    int                `gorm:"default:0" json:"delivery_count"`
	PausedAt         *time.Time         `json:"paused_at"`
	CancelledAt      *time.Time         `json:"cancelled_at"`
	CancelReason     string             `json:"cancel_reason"`

	// Relationships
	Items           []SubscriptionItem `gorm:"foreignKey:SubscriptionID" json:"items,omitempty"`
	DeliveryHistory []DeliveryRecord   `gorm:"foreignKey:SubscriptionID" json:"delivery_history,omitempty"`
	BillingHistory  []BillingRecord    `gorm:"foreignKey:SubscriptionID" json:"billing_history,omitempty"`
}

// SubscriptionItem is one product line inside a subscription. The
// subscription price is always derived from the base price and the
// subscription's frequency by the pricing engine, never set directly.
type SubscriptionItem struct {
	Base
	SubscriptionID    uuid.UUID `gorm:"type:uuid;index" json:"subscription_id"`
	ProductID         uuid.UUID `gorm:"type:uuid" json:"product_id"`
	CommerceVariantID string    `json:"commerce_variant_id"`
	Name              string    `json:"name"`
	ImageURL          string    `json:"image_url"`
	BasePrice         float64   `json:"base_price"`
	SubscriptionPrice float64   `json:"subscription_price"`
	Quantity          int       `gorm:"default:1" json:"quantity"`
}

// DeliveryRecord is an append-only historical entry. Items holds a
// snapshot of the products at delivery time so historical invoices stay
// accurate when catalog prices change later. Rows are never updated
// after creation, except the status/tracking transition reported by the
// carrier.
type DeliveryRecord struct {
	Base
	SubscriptionID uuid.UUID      `gorm:"type:uuid;index" json:"subscription_id"`
	Date           time.Time      `gorm:"not null" json:"date"`
	Status         DeliveryStatus `gorm:"type:varchar(20);not null" json:"status"`
	TrackingCode   string         `json:"tracking_code"`
	Items          JSONArray      `gorm:"type:jsonb" json:"items"`
	Total          float64        `json:"total"`
}

// BillingRecord is the historical entry for one billing cycle, keyed by
// its reference. A retried attempt for the same cycle overwrites its
// failed predecessor; distinct cycles always get distinct rows.
type BillingRecord struct {
	Base
	SubscriptionID uuid.UUID     `gorm:"type:uuid;index" json:"subscription_id"`
	Date           time.Time     `gorm:"not null" json:"date"`
	Amount         float64       `json:"amount"`
	Status         BillingStatus `gorm:"type:varchar(20);not null" json:"status"`
	PaymentMethod  string        `json:"payment_method"`
	InvoiceURL     string        `json:"invoice_url"`
	Reference      string        `gorm:"uniqueIndex" json:"reference"`
}
