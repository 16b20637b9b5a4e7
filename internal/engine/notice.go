package engine

import (
	"time"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

type NoticeKind string

const (
	NoticeInputRejected     NoticeKind = "input_rejected"
	NoticePersistenceFailed NoticeKind = "persistence_failed"
)

// Notice is a transient message for the student
type Notice struct {
	Kind    NoticeKind   `json:"kind"`
	Reason  RejectReason `json:"reason,omitempty"`
	Item    int          `json:"item"`
	Message string       `json:"message"`
	At      time.Time    `json:"at"`
}

const reasonPersistence RejectReason = "persistence"

var messages = map[models.Language]map[RejectReason]string{
	models.LanguageES: {
		ReasonLetterMismatch:  "Esa letra no va en esta posición",
		ReasonNoTileAvailable: "No quedan fichas con esa letra disponible",
		ReasonSlotOccupied:    "Esa casilla ya está ocupada",
		ReasonTileUsed:        "Esa ficha ya está colocada",
		ReasonOutOfRange:      "Posición no válida",
		ReasonOptionInvalid:   "Opción no válida",
		reasonPersistence:     "Error guardando resultados",
	},
	models.LanguageEN: {
		ReasonLetterMismatch:  "That letter does not go in this position",
		ReasonNoTileAvailable: "No tiles left with that letter",
		ReasonSlotOccupied:    "That slot is already filled",
		ReasonTileUsed:        "That tile is already placed",
		ReasonOutOfRange:      "Invalid position",
		ReasonOptionInvalid:   "Invalid option",
		reasonPersistence:     "Could not save your results",
	},
}

// Message returns the student-facing text for a reason in the given language,
// falling back to Spanish.
func Message(lang models.Language, reason RejectReason) string {
	if catalog, ok := messages[lang]; ok {
		if msg, ok := catalog[reason]; ok {
			return msg
		}
	}
	return messages[models.LanguageES][reason]
}

func (e *Engine) rejectionNotice(re *RejectionError) Notice {
	return Notice{
		Kind:    NoticeInputRejected,
		Reason:  re.Reason,
		Item:    re.Item,
		Message: Message(e.def.Language, re.Reason),
		At:      e.clock.Now(),
	}
}

func (e *Engine) persistenceNotice() Notice {
	return Notice{
		Kind:    NoticePersistenceFailed,
		Item:    -1,
		Message: Message(e.def.Language, reasonPersistence),
		At:      e.clock.Now(),
	}
}
