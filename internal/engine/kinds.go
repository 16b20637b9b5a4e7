package engine

import (
	"github.com/SAP-F-2025/activity-service/internal/models"
)

// kindRules is the per-kind behaviour table: how items are seeded, scored,
// navigated and advanced automatically.
type kindRules interface {
	seed(e *Engine, scrambler *Scrambler)
	answers(e *Engine) []any
	itemView(e *Engine, index int) ItemView
	canAdvance(e *Engine, target int) bool
	afterChange(e *Engine)
	score(e *Engine) (int, []any)
}

var rulesByKind = map[models.ActivityKind]kindRules{
	models.KindQuiz:    quizRules{},
	models.KindAnagram: anagramRules{},
}

type quizRules struct{}

func (quizRules) seed(e *Engine, _ *Scrambler) {
	n := len(e.def.Questions)
	e.selected = make([]int, n)
	for i := range e.selected {
		e.selected[i] = -1
	}
	e.answered = make([]bool, n)
}

func (quizRules) answers(e *Engine) []any {
	out := make([]any, len(e.selected))
	for i, opt := range e.selected {
		if opt >= 0 {
			out[i] = opt
		}
	}
	return out
}

func (quizRules) itemView(e *Engine, index int) ItemView {
	q := e.def.Questions[index]
	view := ItemView{
		Prompt:   q.Prompt,
		Options:  append([]string(nil), q.Options...),
		Answered: e.answered[index],
	}
	if opt := e.selected[index]; opt >= 0 {
		view.Selected = &opt
	}
	if e.answered[index] || e.status == models.AttemptSubmitted {
		correct := q.CorrectIndex
		view.CorrectIndex = &correct
		view.Correct = view.Selected != nil && *view.Selected == correct
	}
	return view
}

// Forward navigation requires every question from the current one up to the
// target to be answered
func (quizRules) canAdvance(e *Engine, target int) bool {
	for i := e.current; i < target; i++ {
		if !e.answered[i] {
			return false
		}
	}
	return true
}

// Once every question is answered the attempt submits after a delay
func (quizRules) afterChange(e *Engine) {
	total := len(e.def.Questions)
	if total == 0 {
		return
	}
	for _, ok := range e.answered {
		if !ok {
			return
		}
	}
	e.schedule(TaskFullSubmit, e.cfg.QuizSubmitDelay, e.submitLocked)
}

func (quizRules) score(e *Engine) (int, []any) {
	correct := 0
	for i, q := range e.def.Questions {
		if e.selected[i] >= 0 && e.selected[i] == q.CorrectIndex {
			correct++
		}
	}
	return correct, quizRules{}.answers(e)
}

type anagramRules struct{}

func (anagramRules) seed(e *Engine, scrambler *Scrambler) {
	n := len(e.def.Anagrams)
	e.boards = make([]Board, n)
	e.scrambled = make([]bool, n)
	e.words = make([]string, n)
	for i, puzzle := range e.def.Anagrams {
		pool, scrambled := scrambler.Scramble(puzzle.Word)
		if !scrambled && len(pool) > 1 {
			e.logger.Warn("Anagram left in original order after exhausting shuffles",
				"item", i, "length", len(pool))
		}
		e.boards[i] = NewBoard(puzzle.Word, pool)
		e.scrambled[i] = scrambled
	}
}

func (anagramRules) answers(e *Engine) []any {
	out := make([]any, len(e.words))
	for i, w := range e.words {
		out[i] = w
	}
	return out
}

func (anagramRules) itemView(e *Engine, index int) ItemView {
	board := e.boards[index]
	return ItemView{
		Hint:      e.def.Anagrams[index].Hint,
		Tiles:     board.Pool(),
		UsedTiles: board.UsedTiles(),
		Slots:     board.Slots(),
		Assembled: board.Assembled(),
		Solved:    board.Solved(),
		Scrambled: e.scrambled[index],
	}
}

// Anagram words can be browsed freely
func (anagramRules) canAdvance(*Engine, int) bool {
	return true
}

// afterChange submits as soon as every word is solved and otherwise arms the
// advance to the next word when the current one was just solved.
func (anagramRules) afterChange(e *Engine) {
	total := len(e.boards)
	if total == 0 || e.status != models.AttemptInProgress {
		return
	}
	if e.allSolved() {
		e.submitLocked()
		return
	}

	current := e.current
	if !e.boards[current].Solved() {
		if e.wordArmed == current {
			e.cancel(TaskWordAdvance)
			e.wordArmed = -1
		}
		return
	}
	if current >= total-1 || e.wordArmed == current {
		return
	}

	if e.schedule(TaskWordAdvance, e.cfg.WordAdvanceDelay, func() { e.advanceWord(current) }) {
		e.wordArmed = current
	}
}

// score recomputes every answer from the live boards
func (anagramRules) score(e *Engine) (int, []any) {
	correct := 0
	for i, board := range e.boards {
		e.words[i] = board.Assembled()
		if board.Correct() {
			correct++
		}
	}
	return correct, anagramRules{}.answers(e)
}

func (e *Engine) allSolved() bool {
	if len(e.boards) != len(e.def.Anagrams) {
		return false
	}
	for _, board := range e.boards {
		if !board.Solved() {
			return false
		}
	}
	return true
}

// advanceWord is the word-advance timer body
func (e *Engine) advanceWord(from int) {
	e.wordArmed = -1
	total := len(e.boards)
	next := min(total-1, from+1)
	if next == from {
		if e.allSolved() {
			e.submitLocked()
		}
		return
	}
	e.current = next
	e.markChanged()
	e.rules.afterChange(e)
}
