// Package textnorm folds letters and words before they are compared, so that
// "Árbol", "arbol" and "A R B O L" are all considered equal.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Word strips whitespace, removes diacritics and lowercases.
func Word(s string) string {
	return stripAccents(strings.ToLower(StripSpaces(s)))
}

// Char removes diacritics and lowercases without touching whitespace.
func Char(s string) string {
	return strings.ToLower(stripAccents(s))
}

// StripSpaces removes every whitespace rune.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Letters returns the uppercase letters of s with whitespace removed, one
// string per rune. This is the slot template of an anagram word.
func Letters(s string) []string {
	stripped := []rune(strings.ToUpper(StripSpaces(s)))
	letters := make([]string, len(stripped))
	for i, r := range stripped {
		letters[i] = string(r)
	}
	return letters
}

// Equal reports whether two words are equal after folding.
func Equal(a, b string) bool {
	return Word(a) == Word(b)
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
