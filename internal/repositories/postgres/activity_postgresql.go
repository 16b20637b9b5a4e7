package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/repositories"
)

type ActivityPostgreSQL struct {
	db *gorm.DB
}

func NewActivityPostgreSQL(db *gorm.DB) repositories.ActivityRepository {
	return &ActivityPostgreSQL{db: db}
}

func (a *ActivityPostgreSQL) Create(ctx context.Context, activity *models.Activity) error {
	return a.db.WithContext(ctx).Create(activity).Error
}

func (a *ActivityPostgreSQL) GetByID(ctx context.Context, id string) (*models.Activity, error) {
	var activity models.Activity
	if err := a.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (a *ActivityPostgreSQL) GetByPublicSlug(ctx context.Context, slug string) (*models.Activity, error) {
	var activity models.Activity
	if err := a.db.WithContext(ctx).Where("public_slug = ?", slug).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func (a *ActivityPostgreSQL) GetBySlugOrID(ctx context.Context, identifier string) (*models.Activity, error) {
	if identifier == "" {
		return nil, repositories.ErrNotFound
	}

	// only generated slugs are looked up by slug
	if models.LooksLikePublicSlug(identifier) {
		activity, err := a.GetByPublicSlug(ctx, identifier)
		if err == nil {
			return activity, nil
		}
		if !repositories.IsNotFoundError(err) {
			return nil, err
		}
	}

	return a.GetByID(ctx, identifier)
}
