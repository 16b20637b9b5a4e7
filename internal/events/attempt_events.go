package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

// EventType represents the kinds of activity events
type EventType string

const (
	EventAttemptStarted   EventType = "attempt.started"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

const (
	eventSource  = "activity-service"
	eventVersion = "1.0"
)

// ActivityEvent is the envelope of every published event
type ActivityEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

type AttemptStartedEvent struct {
	SessionID     string              `json:"session_id"`
	ActivityID    string              `json:"activity_id"`
	ActivityTitle string              `json:"activity_title"`
	Kind          models.ActivityKind `json:"type"`
	StudentName   string              `json:"student_name"`
	StartedAt     time.Time           `json:"started_at"`
}

type AttemptSubmittedEvent struct {
	AttemptID   uint                `json:"attempt_id"`
	ActivityID  string              `json:"activity_id"`
	Kind        models.ActivityKind `json:"type"`
	StudentName string              `json:"student_name"`
	Score       int                 `json:"score"`
	TotalItems  int                 `json:"total_items"`
	Percentage  int                 `json:"percentage"`
	DurationMs  *int64              `json:"duration_ms,omitempty"`
	SubmittedAt time.Time           `json:"submitted_at"`
}

func NewAttemptStartedEvent(sessionID string, def *models.ActivityDefinition, studentName string, startedAt time.Time) *ActivityEvent {
	return newEvent(EventAttemptStarted, AttemptStartedEvent{
		SessionID:     sessionID,
		ActivityID:    def.ID,
		ActivityTitle: def.Title,
		Kind:          def.Kind,
		StudentName:   studentName,
		StartedAt:     startedAt,
	})
}

func NewAttemptSubmittedEvent(attempt *models.ActivityAttempt) *ActivityEvent {
	return newEvent(EventAttemptSubmitted, AttemptSubmittedEvent{
		AttemptID:   attempt.ID,
		ActivityID:  attempt.ActivityID,
		Kind:        attempt.Type,
		StudentName: attempt.Name,
		Score:       attempt.Correct,
		TotalItems:  attempt.Total,
		Percentage:  attempt.Percentage,
		DurationMs:  attempt.DurationMs,
		SubmittedAt: attempt.CreatedAt,
	})
}

func newEvent(eventType EventType, data interface{}) *ActivityEvent {
	return &ActivityEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

func GenerateEventID() string {
	return uuid.NewString()
}
