package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/repositories"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.ActivityAttempt) error {
	return a.db.WithContext(ctx).Create(attempt).Error
}
