package repositories

import (
	"context"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

// ActivityRepository reads stored activity documents
type ActivityRepository interface {
	Create(ctx context.Context, activity *models.Activity) error
	GetByID(ctx context.Context, id string) (*models.Activity, error)
	GetByPublicSlug(ctx context.Context, slug string) (*models.Activity, error)

	// GetBySlugOrID resolves a shared link identifier: public slug first, then id
	GetBySlugOrID(ctx context.Context, identifier string) (*models.Activity, error)
}
