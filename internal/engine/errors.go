package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInputRejected      = errors.New("input rejected")
	ErrAttemptNotStarted  = errors.New("attempt not started")
	ErrAttemptStarted     = errors.New("attempt already started")
	ErrAttemptSubmitted   = errors.New("attempt already submitted")
	ErrEngineClosed       = errors.New("engine closed")
	ErrWrongKind          = errors.New("operation not supported for this activity kind")
	ErrItemOutOfRange     = errors.New("item index out of range")
	ErrNavigationBlocked  = errors.New("current item must be answered before moving forward")
	ErrInvalidStudentName = errors.New("student name is required")
	ErrNilDefinition      = errors.New("activity definition is required")
)

// RejectReason says why a placement or key was refused
type RejectReason string

const (
	ReasonSlotOccupied    RejectReason = "slot_occupied"
	ReasonTileUsed        RejectReason = "tile_used"
	ReasonLetterMismatch  RejectReason = "letter_mismatch"
	ReasonNoTileAvailable RejectReason = "no_tile_available"
	ReasonOutOfRange      RejectReason = "out_of_range"
	ReasonOptionInvalid   RejectReason = "option_invalid"
)

// RejectionError is returned when student input is refused. State is never
// changed by a rejected input.
type RejectionError struct {
	Reason RejectReason `json:"reason"`
	Item   int          `json:"item"`
	Slot   int          `json:"slot"`
	Tile   int          `json:"tile"`
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("input rejected (%s): item %d slot %d tile %d", e.Reason, e.Item, e.Slot, e.Tile)
}

func (e *RejectionError) Unwrap() error {
	return ErrInputRejected
}

func reject(reason RejectReason, item, slot, tile int) error {
	return &RejectionError{Reason: reason, Item: item, Slot: slot, Tile: tile}
}

// IsRejection reports whether err is an input rejection and returns it
func IsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
