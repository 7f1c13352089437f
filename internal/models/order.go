package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderCache is a local copy of an order placed on the commerce
// platform, so the account area can list orders without a round trip per
// page view. The platform remains the system of record; rows here are
// refreshed from its webhooks.
type OrderCache struct {
	Base
	CustomerID      uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`
	CommerceOrderID string    `gorm:"uniqueIndex" json:"commerce_order_id"`
	OrderNumber     string    `json:"order_number"`
	Total           float64   `json:"total"`
	Currency        string    `gorm:"default:EUR" json:"currency"`
	Status          string    `json:"status"`
	PlacedAt        time.Time `json:"placed_at"`
	Items           JSONArray `gorm:"type:jsonb" json:"items"`
}
