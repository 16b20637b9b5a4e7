package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/textnorm"
)

// ActivityValidator reports content problems in a loaded activity definition.
// Problems do not prevent an attempt; callers decide what to do with them.
type ActivityValidator struct{}

func NewActivityValidator() *ActivityValidator {
	return &ActivityValidator{}
}

func (v *ActivityValidator) ValidateDefinition(def *models.ActivityDefinition) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(def.Title) == "" {
		errs = append(errs, *NewValidationErrorWithRule("title", "is required", "required", def.Title))
	}
	if !def.Kind.Valid() {
		errs = append(errs, *NewValidationErrorWithRule("type", "must be quiz or anagram", "activity_kind", def.Kind))
	}

	switch def.Kind {
	case models.KindQuiz:
		errs = append(errs, v.validateQuestions(def.Questions)...)
	case models.KindAnagram:
		errs = append(errs, v.validateAnagrams(def.Anagrams)...)
	}
	return errs
}

func (v *ActivityValidator) validateQuestions(questions []models.Question) ValidationErrors {
	var errs ValidationErrors
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Prompt) == "" {
			errs = append(errs, *NewValidationErrorWithRule(field+".question", "is required", "required", q.Prompt))
		}
		if len(q.Options) < 2 {
			errs = append(errs, *NewValidationErrorWithRule(field+".options", "must have at least 2 options", "min", len(q.Options)))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			errs = append(errs, *NewValidationErrorWithRule(field+".correctIndex", "must point at an option", "correct_index", q.CorrectIndex))
		}
	}
	return errs
}

func (v *ActivityValidator) validateAnagrams(anagrams []models.AnagramPuzzle) ValidationErrors {
	var errs ValidationErrors
	for i, a := range anagrams {
		field := fmt.Sprintf("anagrams[%d].word", i)
		if len(textnorm.Letters(a.Word)) == 0 {
			errs = append(errs, *NewValidationErrorWithRule(field, "is required", "required", a.Word))
		}
	}
	return errs
}
