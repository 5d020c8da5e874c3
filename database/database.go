package database

import (
	"fmt"

	"donation-app/internal/domain/campaigns"
	"donation-app/internal/domain/donations"
	"donation-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres connection and migrates all domain models.
// The handle is returned to the caller and threaded through the app
// explicitly; nothing in this codebase holds a package-level *gorm.DB.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Duplicate-key violations must come back as gorm.ErrDuplicatedKey
		// so the fulfillment dedup path can recognize them.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	fmt.Println("✅ Connected and migrated successfully")
	return db, nil
}

// Migrate is split out so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&campaigns.Campaign{},
		&donations.Donation{},
		&donations.Receipt{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
