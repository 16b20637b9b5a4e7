package services

import (
	"errors"

	"github.com/SAP-F-2025/activity-service/internal/engine"
	apperrors "github.com/SAP-F-2025/activity-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Activity specific errors
	ErrActivityNotFound = errors.New("activity not found")
	ErrActivityInvalid  = errors.New("activity definition is invalid")

	// Session specific errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionLimit      = errors.New("too many open sessions")
	ErrResultNotReady    = errors.New("attempt has not been submitted")
	ErrUnknownNavigation = errors.New("unknown navigation action")
)

type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrActivityNotFound) ||
		errors.Is(err, ErrSessionNotFound) ||
		errors.Is(err, engine.ErrItemOutOfRange)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnknownNavigation) ||
		errors.Is(err, engine.ErrInvalidStudentName) ||
		errors.Is(err, engine.ErrWrongKind) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if the attempt is not in a state that allows the operation
func IsConflict(err error) bool {
	return errors.Is(err, engine.ErrAttemptSubmitted) ||
		errors.Is(err, engine.ErrAttemptStarted) ||
		errors.Is(err, engine.ErrAttemptNotStarted) ||
		errors.Is(err, engine.ErrNavigationBlocked) ||
		errors.Is(err, engine.ErrEngineClosed) ||
		errors.Is(err, ErrResultNotReady)
}

// IsRejection checks if student input was refused by the attempt rules
func IsRejection(err error) bool {
	return errors.Is(err, engine.ErrInputRejected)
}
