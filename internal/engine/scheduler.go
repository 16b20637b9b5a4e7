package engine

import (
	"sync"
	"time"
)

// TaskKey names a delayed transition. At most one task per key is pending.
type TaskKey string

const (
	TaskPerItemAdvance TaskKey = "perItemAdvance"
	TaskFullSubmit     TaskKey = "fullSubmit"
	TaskWordAdvance    TaskKey = "wordAdvance"
	TaskElapsedTick    TaskKey = "elapsedTick"
)

// Scheduler owns named, cancellable delayed tasks.
// Schedule is a no-op returning false while a task with the same key is pending.
type Scheduler interface {
	Schedule(key TaskKey, delay time.Duration, action func()) bool
	Cancel(key TaskKey)
	Pending(key TaskKey) bool
	CancelAll()
}

// TimerScheduler runs tasks on time.AfterFunc goroutines
type TimerScheduler struct {
	mu     sync.Mutex
	timers map[TaskKey]*time.Timer
}

func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{timers: make(map[TaskKey]*time.Timer)}
}

func (s *TimerScheduler) Schedule(key TaskKey, delay time.Duration, action func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.timers[key]; ok {
		return false
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		if s.timers[key] != timer {
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()
		action()
	})
	s.timers[key] = timer
	return true
}

func (s *TimerScheduler) Cancel(key TaskKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if timer, ok := s.timers[key]; ok {
		timer.Stop()
		delete(s.timers, key)
	}
}

func (s *TimerScheduler) Pending(key TaskKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[key]
	return ok
}

func (s *TimerScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}
}

// ManualScheduler runs tasks on virtual time moved forward by Advance. It drives
// the attempt deterministically when replaying a session or in tests.
type ManualScheduler struct {
	mu    sync.Mutex
	clock *ManualClock
	seq   int
	tasks map[TaskKey]manualTask
}

type manualTask struct {
	due    time.Time
	seq    int
	action func()
}

func NewManualScheduler(clock *ManualClock) *ManualScheduler {
	return &ManualScheduler{clock: clock, tasks: make(map[TaskKey]manualTask)}
}

func (s *ManualScheduler) Schedule(key TaskKey, delay time.Duration, action func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[key]; ok {
		return false
	}
	s.seq++
	s.tasks[key] = manualTask{due: s.clock.Now().Add(delay), seq: s.seq, action: action}
	return true
}

func (s *ManualScheduler) Cancel(key TaskKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, key)
}

func (s *ManualScheduler) Pending(key TaskKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

func (s *ManualScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = make(map[TaskKey]manualTask)
}

// Advance moves virtual time forward by d, running due tasks in due order.
// Tasks scheduled by a running task fire within the same call when they fall
// inside the window.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.clock.Now().Add(d)
	for {
		s.mu.Lock()
		key, task, ok := s.nextDue(target)
		if !ok {
			s.mu.Unlock()
			break
		}
		delete(s.tasks, key)
		s.mu.Unlock()

		s.clock.Set(task.due)
		task.action()
	}
	s.clock.Set(target)
}

func (s *ManualScheduler) nextDue(target time.Time) (TaskKey, manualTask, bool) {
	var (
		bestKey TaskKey
		best    manualTask
		found   bool
	)
	for key, task := range s.tasks {
		if task.due.After(target) {
			continue
		}
		if !found || task.due.Before(best.due) || (task.due.Equal(best.due) && task.seq < best.seq) {
			bestKey, best, found = key, task, true
		}
	}
	return bestKey, best, found
}
