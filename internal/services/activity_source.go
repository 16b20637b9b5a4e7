package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/repositories"
	"github.com/SAP-F-2025/activity-service/internal/validator"
)

// ActivitySource loads attempt definitions from the activity store
type ActivitySource struct {
	repo      repositories.ActivityRepository
	validator *validator.Validator
	logger    *slog.Logger
}

func NewActivitySource(repo repositories.ActivityRepository, validator *validator.Validator, logger *slog.Logger) *ActivitySource {
	return &ActivitySource{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// LoadDefinition resolves a shared identifier. Content problems are logged but
// do not block the attempt.
func (s *ActivitySource) LoadDefinition(ctx context.Context, identifier string) (*models.ActivityDefinition, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrActivityNotFound
	}

	activity, err := s.repo.GetBySlugOrID(ctx, identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to load activity: %w", err)
	}

	def, err := activity.Definition()
	if err != nil {
		s.logger.Error("Stored activity data is not readable", "activity_id", activity.ID, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrActivityInvalid, err)
	}

	if errs := s.validator.Activity().ValidateDefinition(def); len(errs) > 0 {
		s.logger.Warn("Activity definition has content problems",
			"activity_id", def.ID,
			"problems", len(errs),
			"first", errs[0].Field)
	}
	return def, nil
}
