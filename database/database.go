package database

import (
	"fmt"
	"log/slog"
	"time"

	"menu-app/internal/domain/activity"
	"menu-app/internal/domain/plans"
	"menu-app/internal/domain/restaurants"
	"menu-app/internal/domain/subscriptions"
	"menu-app/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	DB = db
	slog.Info("database connected and migrated")
	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// auth
		&users.User{},
		&users.UserProfile{},
		&users.VerificationToken{},

		// billing
		&plans.Plan{},
		&subscriptions.UserSubscription{},

		// menus
		&restaurants.Restaurant{},
		&restaurants.MenuCategory{},
		&restaurants.MenuItem{},

		&activity.Log{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
