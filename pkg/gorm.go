package pkg

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/activity-service/internal/config"
	"github.com/SAP-F-2025/activity-service/internal/models"
)

func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the activity and attempt tables
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Activity{}, &models.ActivityAttempt{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
