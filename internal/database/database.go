package database

import (
	"fmt"
	"time"

	"github.com/terraviva/backend/internal/config"
	"github.com/terraviva/backend/internal/models"
	"github.com/terraviva/backend/internal/queue"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB initializes the database connection with configuration
func InitDB(dbConfig config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dbConfig.URL), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdle)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// Customers and sessions
		&models.Customer{},
		&models.RefreshToken{},

		// Catalog
		&models.Product{},
		&models.RetailStore{},

		// Subscriptions
		&models.CustomerSubscription{},
		&models.SubscriptionItem{},
		&models.DeliveryRecord{},
		&models.BillingRecord{},

		// Academy
		&models.Course{},
		&models.Lesson{},
		&models.LessonProgress{},
		&models.AcademyProfile{},

		// Orders
		&models.OrderCache{},

		// Background jobs
		&queue.Job{},
	)
}
