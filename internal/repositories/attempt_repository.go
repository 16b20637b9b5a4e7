package repositories

import (
	"context"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

// AttemptRepository stores finalized attempts
type AttemptRepository interface {
	Create(ctx context.Context, attempt *models.ActivityAttempt) error
}
