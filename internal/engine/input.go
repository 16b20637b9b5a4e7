package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SAP-F-2025/activity-service/internal/models"
	"github.com/SAP-F-2025/activity-service/internal/textnorm"
)

// Focus tells where keyboard focus is when a key is pressed
type Focus int

const (
	FocusPage Focus = iota
	FocusTextField
)

const KeyBackspace = "Backspace"

// ClickTile places a tile into the next empty slot of the word
func (e *Engine) ClickTile(word, tile int) error {
	return e.do(func() error {
		board, err := e.boardLocked(word)
		if err != nil {
			return err
		}
		slotIndex, ok := board.NextEmpty()
		if !ok {
			return nil
		}
		return e.placeLocked(word, tile, slotIndex)
	})
}

// DropTile places a tile into a specific slot
func (e *Engine) DropTile(word, tile, slotIndex int) error {
	return e.do(func() error {
		if _, err := e.boardLocked(word); err != nil {
			return err
		}
		return e.placeLocked(word, tile, slotIndex)
	})
}

// TypeKey handles a physical key press on the word being viewed. Letters fill
// the next empty slot from the first matching free tile and Backspace undoes the
// last placement. Keys are ignored while a text field has focus.
func (e *Engine) TypeKey(key string, focus Focus) error {
	if focus == FocusTextField {
		return nil
	}
	return e.do(func() error {
		if _, err := e.boardLocked(e.current); err != nil {
			return err
		}
		if key == KeyBackspace {
			return e.undoLocked(e.current)
		}

		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) || !unicode.IsLetter(r) {
			return nil
		}
		return e.typeLetterLocked(strings.ToUpper(key))
	})
}

// UndoLetter clears the most recently filled slot of the word
func (e *Engine) UndoLetter(word int) error {
	return e.do(func() error {
		if _, err := e.boardLocked(word); err != nil {
			return err
		}
		return e.undoLocked(word)
	})
}

func (e *Engine) ResetWord(word int) error {
	return e.do(func() error {
		board, err := e.boardLocked(word)
		if err != nil {
			return err
		}
		e.setBoard(word, board.Reset())
		return nil
	})
}

// ClearSlot empties one slot, freeing its tile
func (e *Engine) ClearSlot(word, slotIndex int) error {
	return e.do(func() error {
		board, err := e.boardLocked(word)
		if err != nil {
			return err
		}
		next, err := board.Clear(slotIndex)
		if err != nil {
			return withItem(err, word)
		}
		e.setBoard(word, next)
		return nil
	})
}

func (e *Engine) boardLocked(word int) (Board, error) {
	if err := e.mutable(); err != nil {
		return Board{}, err
	}
	if e.def.Kind != models.KindAnagram {
		return Board{}, ErrWrongKind
	}
	if err := e.checkItem(word); err != nil {
		return Board{}, err
	}
	return e.boards[word], nil
}

// placeLocked is the single placement path shared by every input modality
func (e *Engine) placeLocked(word, tile, slotIndex int) error {
	next, err := e.boards[word].Place(tile, slotIndex)
	if err != nil {
		return withItem(err, word)
	}
	e.setBoard(word, next)
	return nil
}

func (e *Engine) typeLetterLocked(letter string) error {
	word := e.current
	board := e.boards[word]
	slotIndex, ok := board.NextEmpty()
	if !ok {
		return nil
	}
	expected, _ := board.Expected(slotIndex)
	if textnorm.Char(letter) != textnorm.Char(expected) {
		return reject(ReasonLetterMismatch, word, slotIndex, -1)
	}
	tile, ok := board.FreeTileFor(letter)
	if !ok {
		return reject(ReasonNoTileAvailable, word, slotIndex, -1)
	}
	return e.placeLocked(word, tile, slotIndex)
}

func (e *Engine) undoLocked(word int) error {
	e.setBoard(word, e.boards[word].Undo())
	return nil
}

// setBoard swaps in a new board and propagates the assembled word to the answers
func (e *Engine) setBoard(word int, board Board) {
	e.boards[word] = board
	e.words[word] = board.Assembled()
	e.markChanged()
	e.rules.afterChange(e)
}

func withItem(err error, item int) error {
	if re, ok := IsRejection(err); ok {
		re.Item = item
	}
	return err
}

// Backspace undoes the last letter of the current word
func (e *Engine) Backspace(focus Focus) error {
	return e.TypeKey(KeyBackspace, focus)
}
