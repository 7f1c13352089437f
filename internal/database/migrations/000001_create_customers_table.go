package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateCustomersTable creates the customers table and session storage
func CreateCustomersTable() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_customers_table",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

				CREATE TABLE IF NOT EXISTS customers (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					email VARCHAR(255) NOT NULL UNIQUE,
					password VARCHAR(255) NOT NULL,
					first_name VARCHAR(255),
					last_name VARCHAR(255),
					phone_number VARCHAR(64),
					street VARCHAR(255),
					postal_code VARCHAR(16),
					city VARCHAR(255),
					country_code VARCHAR(2) DEFAULT 'DE',
					commerce_id VARCHAR(255),
					is_admin BOOLEAN DEFAULT FALSE,
					email_verified_at TIMESTAMP WITH TIME ZONE,
					last_login_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);
				CREATE INDEX IF NOT EXISTS idx_customers_commerce_id ON customers(commerce_id);

				CREATE TABLE IF NOT EXISTS refresh_tokens (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					customer_id UUID NOT NULL REFERENCES customers(id),
					token VARCHAR(512) NOT NULL UNIQUE,
					expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
					revoked_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP TABLE IF EXISTS refresh_tokens; DROP TABLE IF EXISTS customers;`).Error
		},
	}
}
