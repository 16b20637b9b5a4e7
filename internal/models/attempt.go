package models

import (
	"time"

	"gorm.io/datatypes"
)

type AttemptStatus string

const (
	AttemptNameEntry  AttemptStatus = "name_entry"
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
)

// AttemptRecord is what gets handed to persistence once an attempt is finalized.
// Answers holds option indexes (or nil) for quizzes and assembled words for anagrams.
type AttemptRecord struct {
	StudentName string        `json:"name" validate:"required,student_name"`
	Answers     []interface{} `json:"answers"`
	Score       int           `json:"correct" validate:"min=0"`
	TotalItems  int           `json:"total" validate:"min=0"`
	Percentage  int           `json:"percentage" validate:"min=0,max=100"`
	Kind        ActivityKind  `json:"type" validate:"required,activity_kind"`
	ElapsedMs   *int64        `json:"durationMs,omitempty"`
}

// ActivityAttempt is the stored form of an AttemptRecord
type ActivityAttempt struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ActivityID string         `json:"activity_id" gorm:"not null;size:64;index"`
	Name       string         `json:"name" gorm:"not null;size:200"`
	Answers    datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	Correct    int            `json:"correct"`
	Total      int            `json:"total"`
	Percentage int            `json:"percentage"`
	Type       ActivityKind   `json:"type" gorm:"size:16"`
	DurationMs *int64         `json:"duration_ms"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (ActivityAttempt) TableName() string {
	return "activity_attempts"
}
