package models

import "github.com/terraviva/backend/internal/subscription"

// Product mirrors a commerce-platform product we sell, enriched with the
// lawn care attributes the recommendation engine needs. The commerce
// platform stays the system of record for pricing and stock; this row
// caches what the backend needs synchronously.
type Product struct {
	Base
	Slug              string                   `gorm:"uniqueIndex;not null" json:"slug"`
	Name              string                   `gorm:"not null" json:"name"`
	Description       string                   `json:"description"`
	Type              subscription.ProductType `gorm:"type:varchar(20);index" json:"type"`
	BasePrice         float64                  `json:"base_price"`
	CoverageArea      float64                  `json:"coverage_area"` // m² per unit
	ImageURL          string                   `json:"image_url"`
	CommerceProductID string                   `gorm:"index" json:"commerce_product_id"`
	CommerceVariantID string                   `json:"commerce_variant_id"`
	Active            bool                     `gorm:"default:true;index" json:"active"`
	Metadata          JSON                     `gorm:"type:jsonb" json:"metadata"`
}

// RetailStore is a brick-and-mortar store that stocks our products,
// served by the store locator.
type RetailStore struct {
	Base
	Name         string  `gorm:"not null" json:"name"`
	Street       string  `json:"street"`
	PostalCode   string  `gorm:"index" json:"postal_code"`
	City         string  `json:"city"`
	CountryCode  string  `gorm:"default:DE" json:"country_code"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Phone        string  `json:"phone"`
	OpeningHours JSON    `gorm:"type:jsonb" json:"opening_hours"`
	Active       bool    `gorm:"default:true" json:"active"`
}
