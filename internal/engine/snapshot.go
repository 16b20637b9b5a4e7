package engine

import (
	"github.com/SAP-F-2025/activity-service/internal/models"
)

// ItemView is the read-only presentation state of one item
type ItemView struct {
	// quiz
	Prompt   string   `json:"prompt,omitempty"`
	Options  []string `json:"options,omitempty"`
	Answered bool     `json:"answered"`
	Selected *int     `json:"selected,omitempty"`

	// set once the question is answered or the attempt is submitted
	CorrectIndex *int `json:"correctIndex,omitempty"`
	Correct      bool `json:"correct"`

	// anagram
	Hint      string       `json:"hint,omitempty"`
	Tiles     []string     `json:"tiles,omitempty"`
	UsedTiles []bool       `json:"usedTiles,omitempty"`
	Slots     []*Placement `json:"slots,omitempty"`
	Assembled string       `json:"assembled,omitempty"`
	Solved    bool         `json:"solved"`
	Scrambled bool         `json:"scrambled"`
}

// Snapshot is a copy of the attempt state handed to the presentation layer
type Snapshot struct {
	ActivityID     string               `json:"activityId"`
	Title          string               `json:"title"`
	Language       models.Language      `json:"language"`
	Kind           models.ActivityKind  `json:"type"`
	Status         models.AttemptStatus `json:"status"`
	StudentName    string               `json:"studentName,omitempty"`
	CurrentIndex   int                  `json:"currentIndex"`
	TotalItems     int                  `json:"totalItems"`
	Items          []ItemView           `json:"items"`
	Answers        []any                `json:"answers"`
	CanGoPrevious  bool                 `json:"canGoPrevious"`
	CanGoNext      bool                 `json:"canGoNext"`
	ElapsedMs      int64                `json:"elapsedMs"`
	ElapsedDisplay string               `json:"elapsedDisplay"`
	Submitted      bool                 `json:"submitted"`
	Result         *Result              `json:"result,omitempty"`
	SaveFailed     bool                 `json:"saveFailed"`
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() Snapshot {
	total := e.itemCount()
	elapsed := e.elapsed.elapsed(e.clock.Now())

	snap := Snapshot{
		ActivityID:     e.def.ID,
		Title:          e.def.Title,
		Language:       e.def.Language,
		Kind:           e.def.Kind,
		Status:         e.status,
		StudentName:    e.studentName,
		CurrentIndex:   e.current,
		TotalItems:     total,
		Items:          make([]ItemView, total),
		Answers:        e.rules.answers(e),
		ElapsedMs:      elapsed.Milliseconds(),
		ElapsedDisplay: FormatElapsed(elapsed),
		Submitted:      e.status == models.AttemptSubmitted,
		SaveFailed:     e.persistErr != nil,
	}
	for i := range snap.Items {
		snap.Items[i] = e.rules.itemView(e, i)
	}

	if e.status == models.AttemptInProgress && total > 0 {
		snap.CanGoPrevious = e.current > 0
		snap.CanGoNext = e.current < total-1 && e.rules.canAdvance(e, e.current+1)
	}
	if e.result != nil {
		snap.Result = e.result.clone()
	}
	return snap
}
