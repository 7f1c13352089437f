package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer represents a shop customer or back-office admin
type Customer struct {
	Base
	Email           string     `gorm:"uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"not null" json:"-"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	PhoneNumber     string     `json:"phone_number"`
	Street          string     `json:"street"`
	PostalCode      string     `json:"postal_code"`
	City            string     `json:"city"`
	CountryCode     string     `gorm:"default:DE" json:"country_code"`
	CommerceID      string     `gorm:"index" json:"commerce_id"` // customer id on the commerce platform
	IsAdmin         bool       `gorm:"default:false" json:"is_admin"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Subscriptions  []CustomerSubscription `json:"subscriptions,omitempty"`
	AcademyProfile *AcademyProfile        `json:"academy_profile,omitempty"`
	Orders         []OrderCache           `json:"orders,omitempty"`
}

// RefreshToken stores a customer's refresh token so sessions can be
// revoked server-side
type RefreshToken struct {
	Base
	CustomerID uuid.UUID  `gorm:"type:uuid;index" json:"customer_id"`
	Token      string     `gorm:"uniqueIndex" json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	RevokedAt  *time.Time `json:"revoked_at"`
}
