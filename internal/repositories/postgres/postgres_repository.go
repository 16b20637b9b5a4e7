package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/activity-service/internal/repositories"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db *gorm.DB

	activity repositories.ActivityRepository
	attempt  repositories.AttemptRepository
}

func NewPostgreSQLRepository(db *gorm.DB) repositories.Repository {
	return &PostgreSQLRepository{
		db:       db,
		activity: NewActivityPostgreSQL(db),
		attempt:  NewAttemptPostgreSQL(db),
	}
}

func (r *PostgreSQLRepository) Activity() repositories.ActivityRepository {
	return r.activity
}

func (r *PostgreSQLRepository) Attempt() repositories.AttemptRepository {
	return r.attempt
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
