package engine

import (
	"math/rand"
	"strings"

	"github.com/SAP-F-2025/activity-service/internal/textnorm"
)

const DefaultScrambleAttempts = 10

// Scrambler derives the tile pool of an anagram word
type Scrambler struct {
	rnd         *rand.Rand
	maxAttempts int
}

func NewScrambler(rnd *rand.Rand, maxAttempts int) *Scrambler {
	if maxAttempts <= 0 {
		maxAttempts = DefaultScrambleAttempts
	}
	return &Scrambler{rnd: rnd, maxAttempts: maxAttempts}
}

// Scramble returns the uppercase letters of word (whitespace removed) in a
// shuffled order. It reshuffles until the result differs from the original
// ignoring case or the attempts run out; in the latter case the last shuffle is
// kept and scrambled is false.
func (s *Scrambler) Scramble(word string) (letters []string, scrambled bool) {
	original := textnorm.StripSpaces(word)
	runes := []rune(original)
	if len(runes) <= 1 {
		return textnorm.Letters(original), false
	}

	shuffled := original
	for attempts := 0; attempts < s.maxAttempts && strings.EqualFold(shuffled, original); attempts++ {
		chars := []rune(original)
		for i := len(chars) - 1; i > 0; i-- {
			j := s.rnd.Intn(i + 1)
			chars[i], chars[j] = chars[j], chars[i]
		}
		shuffled = string(chars)
	}

	return textnorm.Letters(shuffled), !strings.EqualFold(shuffled, original)
}
