package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateSubscriptionTables creates the subscription contract, item and
// history tables
func CreateSubscriptionTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_subscription_tables",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS customer_subscriptions (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					customer_id UUID NOT NULL REFERENCES customers(id),
					status VARCHAR(20) NOT NULL DEFAULT 'pending',
					frequency INTEGER NOT NULL,
					next_billing_date TIMESTAMP WITH TIME ZONE,
					next_delivery_date TIMESTAMP WITH TIME ZONE,
					delivery_count INTEGER DEFAULT 0,
					paused_at TIMESTAMP WITH TIME ZONE,
					cancelled_at TIMESTAMP WITH TIME ZONE,
					cancel_reason VARCHAR(64),
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX IF NOT EXISTS idx_subscriptions_customer ON customer_subscriptions(customer_id);
				CREATE INDEX IF NOT EXISTS idx_subscriptions_due
					ON customer_subscriptions(status, next_billing_date);

				CREATE TABLE IF NOT EXISTS subscription_items (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					subscription_id UUID NOT NULL REFERENCES customer_subscriptions(id),
					product_id UUID NOT NULL,
					commerce_variant_id VARCHAR(255),
					name VARCHAR(255),
					image_url TEXT,
					base_price NUMERIC(10,2) NOT NULL,
					subscription_price NUMERIC(10,2) NOT NULL,
					quantity INTEGER DEFAULT 1,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE TABLE IF NOT EXISTS delivery_records (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					subscription_id UUID NOT NULL REFERENCES customer_subscriptions(id),
					date TIMESTAMP WITH TIME ZONE NOT NULL,
					status VARCHAR(20) NOT NULL,
					tracking_code VARCHAR(255),
					items JSONB,
					total NUMERIC(10,2),
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE TABLE IF NOT EXISTS billing_records (
					id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
					subscription_id UUID NOT NULL REFERENCES customer_subscriptions(id),
					date TIMESTAMP WITH TIME ZONE NOT NULL,
					amount NUMERIC(10,2) NOT NULL,
					status VARCHAR(20) NOT NULL,
					payment_method VARCHAR(64),
					invoice_url TEXT,
					reference VARCHAR(255) UNIQUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS billing_records;
				DROP TABLE IF EXISTS delivery_records;
				DROP TABLE IF EXISTS subscription_items;
				DROP TABLE IF EXISTS customer_subscriptions;
			`).Error
		},
	}
}
