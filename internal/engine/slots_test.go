package engine

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScramble(t *testing.T) {
	s := NewScrambler(rand.New(rand.NewSource(7)), DefaultScrambleAttempts)

	t.Run("permutation of the letters", func(t *testing.T) {
		for _, word := range []string{"gato", "Perro", "arco iris", "árbol"} {
			letters, scrambled := s.Scramble(word)
			expected := lettersOf(word)

			assert.True(t, scrambled, word)
			assert.NotEqual(t, expected, letters, word)

			got := append([]string(nil), letters...)
			want := append([]string(nil), expected...)
			sort.Strings(got)
			sort.Strings(want)
			assert.Equal(t, want, got, word)
		}
	})

	t.Run("no distinct permutation", func(t *testing.T) {
		letters, scrambled := s.Scramble("aa")
		assert.False(t, scrambled)
		assert.Equal(t, []string{"A", "A"}, letters)
	})

	t.Run("single letter", func(t *testing.T) {
		letters, scrambled := s.Scramble("y")
		assert.False(t, scrambled)
		assert.Equal(t, []string{"Y"}, letters)
	})
}

func lettersOf(word string) []string {
	b := NewBoard(word, nil)
	out := make([]string, b.Len())
	for i := range out {
		out[i], _ = b.Expected(i)
	}
	return out
}

func TestBoard_Place(t *testing.T) {
	pool := []string{"T", "A", "O", "G"}

	tests := []struct {
		name   string
		setup  func(Board) Board
		tile   int
		slot   int
		reason RejectReason
	}{
		{name: "letter fits", tile: 3, slot: 0},
		{name: "wrong letter", tile: 0, slot: 0, reason: ReasonLetterMismatch},
		{name: "slot out of range", tile: 3, slot: 4, reason: ReasonOutOfRange},
		{name: "tile out of range", tile: 9, slot: 0, reason: ReasonOutOfRange},
		{
			name:   "slot occupied",
			setup:  func(b Board) Board { next, _ := b.Place(3, 0); return next },
			tile:   1,
			slot:   0,
			reason: ReasonSlotOccupied,
		},
		{
			name:   "tile used elsewhere",
			setup:  func(b Board) Board { next, _ := b.Place(3, 0); return next },
			tile:   3,
			slot:   1,
			reason: ReasonTileUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			board := NewBoard("gato", pool)
			if tt.setup != nil {
				board = tt.setup(board)
			}
			before := board.Slots()

			next, err := board.Place(tt.tile, tt.slot)
			if tt.reason == "" {
				require.NoError(t, err)
				assert.Equal(t, pool[tt.tile], next.Slots()[tt.slot].Letter)
				assert.True(t, next.TileUsed(tt.tile))
				return
			}

			re, ok := IsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, re.Reason)
			assert.ErrorIs(t, err, ErrInputRejected)
			assert.Equal(t, before, next.Slots())
		})
	}
}

func TestBoard_ValueSemantics(t *testing.T) {
	board := NewBoard("gato", []string{"T", "A", "O", "G"})
	placed, err := board.Place(3, 0)
	require.NoError(t, err)

	assert.Equal(t, "", board.Assembled())
	assert.Equal(t, "G", placed.Assembled())
}

func TestBoard_SolveUndoReset(t *testing.T) {
	board := NewBoard("gato", []string{"T", "A", "O", "G"})
	for slot, tile := range []int{3, 1, 0, 2} {
		var err error
		board, err = board.Place(tile, slot)
		require.NoError(t, err)
	}

	assert.Equal(t, "GATO", board.Assembled())
	assert.True(t, board.Solved())
	assert.True(t, board.Correct())
	_, ok := board.NextEmpty()
	assert.False(t, ok)

	undone := board.Undo()
	assert.Equal(t, "GAT", undone.Assembled())
	assert.False(t, undone.Solved())
	assert.False(t, undone.TileUsed(2))

	cleared, err := board.Clear(1)
	require.NoError(t, err)
	assert.Equal(t, "GTO", cleared.Assembled())
	slot, ok := cleared.NextEmpty()
	assert.True(t, ok)
	assert.Equal(t, 1, slot)

	reset := board.Reset()
	assert.Equal(t, "", reset.Assembled())
	assert.Equal(t, []bool{false, false, false, false}, reset.UsedTiles())
}

func TestBoard_AccentFolding(t *testing.T) {
	board := NewBoard("Árbol", []string{"L", "B", "A", "O", "R"})

	next, err := board.Place(2, 0)
	require.NoError(t, err)

	tile, ok := next.FreeTileFor("r")
	require.True(t, ok)
	assert.Equal(t, 4, tile)

	for slot, tile := range []int{4, 1, 3, 0} {
		next, err = next.Place(tile, slot+1)
		require.NoError(t, err)
	}
	assert.Equal(t, "ARBOL", next.Assembled())
	assert.True(t, next.Solved())
}

func TestBoard_EmptyWordIsNotCorrect(t *testing.T) {
	board := NewBoard("", nil)
	assert.True(t, board.Solved())
	assert.False(t, board.Correct())
}
