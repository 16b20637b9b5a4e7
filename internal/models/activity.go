package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityKind string

const (
	KindQuiz    ActivityKind = "quiz"
	KindAnagram ActivityKind = "anagram"
)

func (k ActivityKind) Valid() bool {
	return k == KindQuiz || k == KindAnagram
}

type Language string

const (
	LanguageES Language = "es"
	LanguageEN Language = "en"
)

// Question is one multiple choice item of a quiz activity
type Question struct {
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
}

// AnagramPuzzle is one word of an anagram activity
type AnagramPuzzle struct {
	Word string `json:"word"`
	Hint string `json:"hint,omitempty"`
}

// ActivityDefinition is the immutable input of one attempt
type ActivityDefinition struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Language  Language        `json:"language"`
	Kind      ActivityKind    `json:"type"`
	Questions []Question      `json:"questions"`
	Anagrams  []AnagramPuzzle `json:"anagrams"`
}

// ItemCount returns the number of items of the active kind
func (d *ActivityDefinition) ItemCount() int {
	if d.Kind == KindAnagram {
		return len(d.Anagrams)
	}
	return len(d.Questions)
}

// ActivityData is the kind-specific payload stored in the data column
type ActivityData struct {
	Questions []Question      `json:"questions"`
	Anagrams  []AnagramPuzzle `json:"anagrams"`
}

// Activity is the stored document an attempt definition is loaded from
type Activity struct {
	ID         string         `json:"id" gorm:"primaryKey;size:64"`
	Title      string         `json:"title" gorm:"not null;size:200"`
	Kind       ActivityKind   `json:"type" gorm:"column:type;size:16;index"`
	Language   Language       `json:"language" gorm:"size:8"`
	PublicSlug *string        `json:"public_slug" gorm:"uniqueIndex;size:16"`
	IsPublic   bool           `json:"is_public" gorm:"default:false"`
	OwnerID    string         `json:"owner_id" gorm:"size:64;index"`
	Data       datatypes.JSON `json:"data" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Activity) TableName() string {
	return "activities"
}

// Definition converts the stored row into an attempt definition.
// Missing lists become empty, an unknown kind falls back to quiz and
// the language defaults to Spanish.
func (a *Activity) Definition() (*ActivityDefinition, error) {
	var data ActivityData
	if len(a.Data) > 0 {
		if err := json.Unmarshal(a.Data, &data); err != nil {
			return nil, err
		}
	}

	def := &ActivityDefinition{
		ID:        a.ID,
		Title:     a.Title,
		Language:  a.Language,
		Kind:      a.Kind,
		Questions: data.Questions,
		Anagrams:  data.Anagrams,
	}
	if !def.Kind.Valid() {
		def.Kind = KindQuiz
	}
	if def.Language == "" {
		def.Language = LanguageES
	}
	if def.Questions == nil {
		def.Questions = []Question{}
	}
	if def.Anagrams == nil {
		def.Anagrams = []AnagramPuzzle{}
	}
	return def, nil
}

const (
	PublicSlugAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz0123456789"
	PublicSlugLength   = 8
)

// LooksLikePublicSlug reports whether s could be a generated public slug
func LooksLikePublicSlug(s string) bool {
	if len(s) != PublicSlugLength {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune(PublicSlugAlphabet, r) {
			return false
		}
	}
	return true
}
