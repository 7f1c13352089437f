package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// SeedRetailStores inserts the initial partner stores for the locator
func SeedRetailStores() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_seed_retail_stores",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`
				INSERT INTO retail_stores (id, name, street, postal_code, city, country_code, latitude, longitude, phone, active, created_at, updated_at)
				VALUES
					(uuid_generate_v4(), 'Gartencenter Brandt', 'Hauptstraße 12', '20095', 'Hamburg', 'DE', 53.5503, 10.0007, '+49 40 1234567', TRUE, NOW(), NOW()),
					(uuid_generate_v4(), 'Grünwelt Markt Süd', 'Lindenallee 48', '50667', 'Köln', 'DE', 50.9375, 6.9603, '+49 221 7654321', TRUE, NOW(), NOW()),
					(uuid_generate_v4(), 'Hof & Garten Meier', 'Am Anger 3', '80331', 'München', 'DE', 48.1351, 11.5820, '+49 89 9876543', TRUE, NOW(), NOW())
				ON CONFLICT DO NOTHING;
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DELETE FROM retail_stores;`).Error
		},
	}
}
