package engine

import (
	"strings"

	"github.com/SAP-F-2025/activity-service/internal/textnorm"
)

// Placement is one filled answer slot. SourceIndex points back into the
// tile pool; a tile backs at most one slot at a time.
type Placement struct {
	Letter      string `json:"letter"`
	SourceIndex int    `json:"sourceIndex"`
}

type slot struct {
	placement Placement
	filled    bool
}

// Board is the slot state of one anagram word. Boards are values: every
// mutation returns a new Board and leaves the receiver untouched.
type Board struct {
	word     string
	expected []string
	pool     []string
	slots    []slot
}

// NewBoard creates an empty board for word with the given tile pool
func NewBoard(word string, pool []string) Board {
	expected := textnorm.Letters(word)
	return Board{
		word:     word,
		expected: expected,
		pool:     append([]string(nil), pool...),
		slots:    make([]slot, len(expected)),
	}
}

func (b Board) Len() int {
	return len(b.slots)
}

func (b Board) Word() string {
	return b.word
}

// Pool returns a copy of the scrambled tiles
func (b Board) Pool() []string {
	return append([]string(nil), b.pool...)
}

// Slots returns the placements in slot order, nil for empty slots
func (b Board) Slots() []*Placement {
	out := make([]*Placement, len(b.slots))
	for i, s := range b.slots {
		if s.filled {
			p := s.placement
			out[i] = &p
		}
	}
	return out
}

// TileUsed reports whether the tile currently backs a slot
func (b Board) TileUsed(tile int) bool {
	for _, s := range b.slots {
		if s.filled && s.placement.SourceIndex == tile {
			return true
		}
	}
	return false
}

// UsedTiles returns one flag per pool tile
func (b Board) UsedTiles() []bool {
	used := make([]bool, len(b.pool))
	for _, s := range b.slots {
		if s.filled && s.placement.SourceIndex >= 0 && s.placement.SourceIndex < len(used) {
			used[s.placement.SourceIndex] = true
		}
	}
	return used
}

// NextEmpty returns the lowest empty slot index
func (b Board) NextEmpty() (int, bool) {
	for i, s := range b.slots {
		if !s.filled {
			return i, true
		}
	}
	return -1, false
}

// FreeTileFor returns the first unused tile whose folded letter equals letter
func (b Board) FreeTileFor(letter string) (int, bool) {
	want := textnorm.Char(letter)
	used := b.UsedTiles()
	for i, candidate := range b.pool {
		if !used[i] && textnorm.Char(candidate) == want {
			return i, true
		}
	}
	return -1, false
}

// Expected returns the target letter of a slot
func (b Board) Expected(slotIndex int) (string, bool) {
	if slotIndex < 0 || slotIndex >= len(b.expected) {
		return "", false
	}
	return b.expected[slotIndex], true
}

// Place puts a tile into a slot. It is refused when the slot is occupied, the
// tile already backs another slot or the tile letter does not fold to the
// letter expected at that position.
func (b Board) Place(tile, slotIndex int) (Board, error) {
	if slotIndex < 0 || slotIndex >= len(b.slots) || tile < 0 || tile >= len(b.pool) {
		return b, reject(ReasonOutOfRange, -1, slotIndex, tile)
	}
	if b.slots[slotIndex].filled {
		return b, reject(ReasonSlotOccupied, -1, slotIndex, tile)
	}
	if b.TileUsed(tile) {
		return b, reject(ReasonTileUsed, -1, slotIndex, tile)
	}

	letter := b.pool[tile]
	if textnorm.Char(letter) != textnorm.Char(b.expected[slotIndex]) {
		return b, reject(ReasonLetterMismatch, -1, slotIndex, tile)
	}

	next := b.clone()
	next.slots[slotIndex] = slot{placement: Placement{Letter: letter, SourceIndex: tile}, filled: true}
	return next, nil
}

// Undo clears the highest-index occupied slot
func (b Board) Undo() Board {
	next := b.clone()
	for i := len(next.slots) - 1; i >= 0; i-- {
		if next.slots[i].filled {
			next.slots[i] = slot{}
			break
		}
	}
	return next
}

// Reset clears every slot
func (b Board) Reset() Board {
	next := b.clone()
	next.slots = make([]slot, len(b.slots))
	return next
}

// Clear empties one slot
func (b Board) Clear(slotIndex int) (Board, error) {
	if slotIndex < 0 || slotIndex >= len(b.slots) {
		return b, reject(ReasonOutOfRange, -1, slotIndex, -1)
	}
	next := b.clone()
	next.slots[slotIndex] = slot{}
	return next, nil
}

// Assembled concatenates slot letters in slot order; empty slots add nothing
func (b Board) Assembled() string {
	var sb strings.Builder
	for _, s := range b.slots {
		if s.filled {
			sb.WriteString(s.placement.Letter)
		}
	}
	return sb.String()
}

func (b Board) Solved() bool {
	return textnorm.Word(b.Assembled()) == textnorm.Word(b.word)
}

// Correct is Solved for a non-empty answer
func (b Board) Correct() bool {
	assembled := textnorm.Word(b.Assembled())
	return assembled != "" && assembled == textnorm.Word(b.word)
}

func (b Board) clone() Board {
	next := b
	next.slots = append([]slot(nil), b.slots...)
	return next
}
