package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repository groups the stores the activity service reads and writes
type Repository interface {
	Activity() ActivityRepository
	Attempt() AttemptRepository

	// Health check
	Ping(ctx context.Context) error
}

// IsNotFoundError reports whether err means the requested record does not exist
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}
