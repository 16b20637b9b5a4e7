package engine

import (
	"math"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

// Result is the immutable outcome of a finalized attempt
type Result struct {
	StudentName string              `json:"studentName"`
	Kind        models.ActivityKind `json:"type"`
	Score       int                 `json:"score"`
	TotalItems  int                 `json:"totalItems"`
	Percentage  int                 `json:"percentage"`
	Answers     []any               `json:"perItemAnswers"`
	ElapsedMs   int64               `json:"elapsedMs"`
}

// Percentage rounds score/total to a whole percent; zero items give zero
func Percentage(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// Record converts the result into what persistence receives
func (r Result) Record() models.AttemptRecord {
	elapsed := r.ElapsedMs
	return models.AttemptRecord{
		StudentName: r.StudentName,
		Answers:     append([]any(nil), r.Answers...),
		Score:       r.Score,
		TotalItems:  r.TotalItems,
		Percentage:  r.Percentage,
		Kind:        r.Kind,
		ElapsedMs:   &elapsed,
	}
}

func (r *Result) clone() *Result {
	c := *r
	c.Answers = append([]any(nil), r.Answers...)
	return &c
}

// Submit finalizes the attempt. Repeated calls return the first result.
func (e *Engine) Submit() (*Result, error) {
	var result *Result
	err := e.do(func() error {
		if e.closed && e.result == nil {
			return ErrEngineClosed
		}
		switch e.status {
		case models.AttemptNameEntry:
			return ErrAttemptNotStarted
		case models.AttemptInProgress:
			e.submitLocked()
		}
		result = e.result.clone()
		return nil
	})
	return result, err
}

// Result returns the finalized result once the attempt is submitted
func (e *Engine) Result() (*Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return nil, false
	}
	return e.result.clone(), true
}

func (e *Engine) submitLocked() {
	if e.status != models.AttemptInProgress {
		return
	}
	e.cancelAll()

	score, answers := e.rules.score(e)
	total := e.itemCount()
	elapsed := e.elapsed.stop(e.clock.Now())

	e.status = models.AttemptSubmitted
	e.result = &Result{
		StudentName: e.studentName,
		Kind:        e.def.Kind,
		Score:       score,
		TotalItems:  total,
		Percentage:  Percentage(score, total),
		Answers:     answers,
		ElapsedMs:   elapsed.Milliseconds(),
	}
	record := e.result.Record()
	e.out.record = &record
	e.markChanged()

	e.logger.Info("Attempt submitted",
		"student_name", e.studentName,
		"score", score,
		"total", total,
		"elapsed_ms", elapsed.Milliseconds())
}
