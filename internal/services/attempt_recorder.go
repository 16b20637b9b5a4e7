package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/activity-service/internal/events"
	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/repositories"
	"github.com/SAP-F-2025/activity-service/internal/validator"
)

// AttemptRecorder stores finalized attempts and announces them
type AttemptRecorder struct {
	repo      repositories.AttemptRepository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    *slog.Logger
}

func NewAttemptRecorder(repo repositories.AttemptRepository, publisher events.EventPublisher, validator *validator.Validator, logger *slog.Logger) *AttemptRecorder {
	return &AttemptRecorder{
		repo:      repo,
		publisher: publisher,
		validator: validator,
		logger:    logger,
	}
}

// RecordAttempt persists one attempt. The submitted event is best effort: a
// publish failure is logged and does not fail the save.
func (r *AttemptRecorder) RecordAttempt(ctx context.Context, activityID string, record models.AttemptRecord) error {
	if err := r.validator.ValidateStruct(record); err != nil {
		return err
	}

	answers, err := json.Marshal(record.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	attempt := &models.ActivityAttempt{
		ActivityID: activityID,
		Name:       record.StudentName,
		Answers:    answers,
		Correct:    record.Score,
		Total:      record.TotalItems,
		Percentage: record.Percentage,
		Type:       record.Kind,
		DurationMs: record.ElapsedMs,
	}
	if err := r.repo.Create(ctx, attempt); err != nil {
		return fmt.Errorf("failed to save attempt: %w", err)
	}

	r.logger.Info("Attempt saved",
		"attempt_id", attempt.ID,
		"activity_id", activityID,
		"correct", attempt.Correct,
		"total", attempt.Total)

	if r.publisher != nil {
		if err := r.publisher.Publish(ctx, events.NewAttemptSubmittedEvent(attempt)); err != nil {
			r.logger.Warn("Failed to publish attempt submitted event",
				"attempt_id", attempt.ID,
				"error", err)
		}
	}
	return nil
}
