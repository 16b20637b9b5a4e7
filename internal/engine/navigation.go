package engine

import (
	"github.com/SAP-F-2025/activity-service/internal/models"
)

// SelectOption records the answer of a quiz question. A question is answered
// once; later selections on it are ignored. Answering any question but the last
// one schedules the move to the following question.
func (e *Engine) SelectOption(item, option int) error {
	return e.do(func() error {
		if err := e.mutable(); err != nil {
			return err
		}
		if e.def.Kind != models.KindQuiz {
			return ErrWrongKind
		}
		if err := e.checkItem(item); err != nil {
			return err
		}
		if option < 0 || option >= len(e.def.Questions[item].Options) {
			return reject(ReasonOptionInvalid, item, -1, option)
		}
		if e.answered[item] {
			return nil
		}

		e.selected[item] = option
		e.answered[item] = true
		e.markChanged()

		e.cancel(TaskPerItemAdvance)
		if item < len(e.def.Questions)-1 {
			target := item + 1
			e.schedule(TaskPerItemAdvance, e.cfg.QuizAdvanceDelay, func() {
				e.current = target
				e.markChanged()
				e.rules.afterChange(e)
			})
		}

		e.logger.Debug("Option selected", "item", item, "option", option)
		e.rules.afterChange(e)
		return nil
	})
}

func (e *Engine) Next() error {
	return e.do(func() error {
		if err := e.mutable(); err != nil {
			return err
		}
		if e.current >= e.itemCount()-1 {
			return nil
		}
		return e.goToLocked(e.current + 1)
	})
}

func (e *Engine) Previous() error {
	return e.do(func() error {
		if err := e.mutable(); err != nil {
			return err
		}
		if e.current == 0 {
			return nil
		}
		return e.goToLocked(e.current - 1)
	})
}

func (e *Engine) GoTo(index int) error {
	return e.do(func() error {
		if err := e.mutable(); err != nil {
			return err
		}
		return e.goToLocked(index)
	})
}

// goToLocked moves to index. A manual move supersedes pending auto-advances.
func (e *Engine) goToLocked(index int) error {
	if err := e.checkItem(index); err != nil {
		return err
	}
	if index == e.current {
		return nil
	}
	if index > e.current && !e.rules.canAdvance(e, index) {
		return ErrNavigationBlocked
	}

	e.cancel(TaskPerItemAdvance)
	e.cancel(TaskWordAdvance)
	e.wordArmed = -1

	e.current = index
	e.markChanged()
	e.rules.afterChange(e)
	return nil
}

func (e *Engine) CurrentIndex() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}
