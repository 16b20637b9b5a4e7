// Package engine drives one student through a single attempt at an activity:
// name confirmation, answering, timed auto-advance and final scoring.
//
// All state changes are serialised on the engine lock. Timer callbacks take the
// same lock and are dropped when the transition they belong to was cancelled or
// re-armed in the meantime. Listener callbacks run after the lock is released.
package engine

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/SAP-F-2025/activity-service/internal/models"
)

type Config struct {
	QuizAdvanceDelay    time.Duration
	QuizSubmitDelay     time.Duration
	WordAdvanceDelay    time.Duration
	TickInterval        time.Duration
	ScrambleMaxAttempts int
	RecordTimeout       time.Duration
}

func DefaultConfig() Config {
	return Config{
		QuizAdvanceDelay:    1400 * time.Millisecond,
		QuizSubmitDelay:     1400 * time.Millisecond,
		WordAdvanceDelay:    1200 * time.Millisecond,
		TickInterval:        time.Second,
		ScrambleMaxAttempts: DefaultScrambleAttempts,
		RecordTimeout:       10 * time.Second,
	}
}

// withDefaults replaces every zero or negative field with its default
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.QuizAdvanceDelay <= 0 {
		c.QuizAdvanceDelay = def.QuizAdvanceDelay
	}
	if c.QuizSubmitDelay <= 0 {
		c.QuizSubmitDelay = def.QuizSubmitDelay
	}
	if c.WordAdvanceDelay <= 0 {
		c.WordAdvanceDelay = def.WordAdvanceDelay
	}
	if c.TickInterval <= 0 {
		c.TickInterval = def.TickInterval
	}
	if c.ScrambleMaxAttempts <= 0 {
		c.ScrambleMaxAttempts = def.ScrambleMaxAttempts
	}
	if c.RecordTimeout <= 0 {
		c.RecordTimeout = def.RecordTimeout
	}
	return c
}

// Recorder persists a finalized attempt
type Recorder interface {
	RecordAttempt(ctx context.Context, activityID string, record models.AttemptRecord) error
}

// Listener receives incremental UI state. Implementations must not block.
type Listener interface {
	StateChanged(snapshot Snapshot)
	Notice(notice Notice)
	Tick(elapsed time.Duration)
}

type NopListener struct{}

func (NopListener) StateChanged(Snapshot) {}
func (NopListener) Notice(Notice)         {}
func (NopListener) Tick(time.Duration)    {}

type Options struct {
	Config    Config
	Scheduler Scheduler
	Clock     Clock
	Rand      *rand.Rand
	Logger    *slog.Logger
	Listener  Listener
	Recorder  Recorder
}

type Engine struct {
	mu sync.Mutex

	def      *models.ActivityDefinition
	rules    kindRules
	cfg      Config
	sched    Scheduler
	clock    Clock
	logger   *slog.Logger
	listener Listener
	recorder Recorder

	status      models.AttemptStatus
	closed      bool
	studentName string
	current     int

	selected []int
	answered []bool

	boards    []Board
	scrambled []bool
	words     []string
	wordArmed int

	timerGen   map[TaskKey]int
	elapsed    elapsedTracker
	result     *Result
	persistErr error

	out      outbox
	inflight sync.WaitGroup
}

type outbox struct {
	changed bool
	notices []Notice
	ticks   []time.Duration
	record  *models.AttemptRecord
}

// New seeds the per-item state of an attempt. The attempt starts in name entry.
func New(def *models.ActivityDefinition, opts Options) (*Engine, error) {
	if def == nil {
		return nil, ErrNilDefinition
	}
	rules, ok := rulesByKind[def.Kind]
	if !ok {
		return nil, ErrWrongKind
	}

	cfg := opts.Config.withDefaults()
	if opts.Scheduler == nil {
		opts.Scheduler = NewTimerScheduler()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Listener == nil {
		opts.Listener = NopListener{}
	}

	e := &Engine{
		def:       def,
		rules:     rules,
		cfg:       cfg,
		sched:     opts.Scheduler,
		clock:     opts.Clock,
		logger:    opts.Logger.With("activity_id", def.ID, "kind", def.Kind),
		listener:  opts.Listener,
		recorder:  opts.Recorder,
		status:    models.AttemptNameEntry,
		wordArmed: -1,
		timerGen:  make(map[TaskKey]int),
	}
	rules.seed(e, NewScrambler(opts.Rand, cfg.ScrambleMaxAttempts))
	return e, nil
}

func (e *Engine) Definition() *models.ActivityDefinition {
	return e.def
}

// ConfirmName moves the attempt from name entry to in progress and starts the
// elapsed-time tracker. The name is immutable afterwards.
func (e *Engine) ConfirmName(name string) error {
	return e.do(func() error {
		if e.closed {
			return ErrEngineClosed
		}
		if e.status != models.AttemptNameEntry {
			return ErrAttemptStarted
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return ErrInvalidStudentName
		}

		e.studentName = name
		e.status = models.AttemptInProgress
		e.elapsed.start(e.clock.Now())
		e.scheduleTick()
		e.markChanged()

		e.logger.Info("Attempt started", "student_name", name)
		e.rules.afterChange(e)
		return nil
	})
}

// Close cancels every pending timer. Later mutations fail with ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	e.cancelAll()
}

// WaitRecorded blocks until in-flight persistence calls have returned
func (e *Engine) WaitRecorded() {
	e.inflight.Wait()
}

// PersistenceError returns the error of the last failed save, if any
func (e *Engine) PersistenceError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persistErr
}

func (e *Engine) Status() models.AttemptStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// mutable checks that the attempt accepts student input
func (e *Engine) mutable() error {
	switch {
	case e.closed:
		return ErrEngineClosed
	case e.status == models.AttemptNameEntry:
		return ErrAttemptNotStarted
	case e.status == models.AttemptSubmitted:
		return ErrAttemptSubmitted
	}
	return nil
}

func (e *Engine) markChanged() {
	e.out.changed = true
}

// do runs fn under the engine lock and dispatches the collected output after
// the lock is released.
func (e *Engine) do(fn func() error) error {
	e.mu.Lock()
	err := fn()
	if re, ok := IsRejection(err); ok {
		e.out.notices = append(e.out.notices, e.rejectionNotice(re))
	}
	out := e.out
	e.out = outbox{}
	var snap Snapshot
	if out.changed {
		snap = e.snapshotLocked()
	}
	if out.record != nil && e.recorder != nil {
		e.inflight.Add(1)
	}
	e.mu.Unlock()

	e.flush(out, snap)
	return err
}

func (e *Engine) flush(out outbox, snap Snapshot) {
	if out.changed {
		e.listener.StateChanged(snap)
	}
	for _, d := range out.ticks {
		e.listener.Tick(d)
	}
	for _, n := range out.notices {
		e.listener.Notice(n)
	}
	if out.record != nil && e.recorder != nil {
		go e.persist(*out.record)
	}
}

func (e *Engine) persist(record models.AttemptRecord) {
	defer e.inflight.Done()

	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RecordTimeout)
	defer cancel()

	if err := e.recorder.RecordAttempt(ctx, e.def.ID, record); err != nil {
		e.logger.Error("Failed to record attempt",
			"student_name", record.StudentName,
			"error", err)

		e.mu.Lock()
		e.persistErr = err
		notice := e.persistenceNotice()
		e.mu.Unlock()

		e.listener.Notice(notice)
		return
	}

	e.logger.Info("Attempt recorded",
		"student_name", record.StudentName,
		"score", record.Score,
		"total", record.TotalItems)
}

// schedule arms a keyed transition. Re-arming a pending key is a no-op.
func (e *Engine) schedule(key TaskKey, delay time.Duration, fn func()) bool {
	if e.sched.Pending(key) {
		return false
	}
	e.timerGen[key]++
	gen := e.timerGen[key]
	return e.sched.Schedule(key, delay, func() {
		_ = e.do(func() error {
			if e.closed || e.timerGen[key] != gen {
				return nil
			}
			fn()
			return nil
		})
	})
}

func (e *Engine) cancel(key TaskKey) {
	e.timerGen[key]++
	e.sched.Cancel(key)
}

func (e *Engine) cancelAll() {
	for _, key := range []TaskKey{TaskPerItemAdvance, TaskFullSubmit, TaskWordAdvance, TaskElapsedTick} {
		e.timerGen[key]++
	}
	e.sched.CancelAll()
	e.wordArmed = -1
}

func (e *Engine) scheduleTick() {
	e.schedule(TaskElapsedTick, e.cfg.TickInterval, func() {
		if e.status != models.AttemptInProgress {
			return
		}
		e.out.ticks = append(e.out.ticks, e.elapsed.elapsed(e.clock.Now()))
		e.scheduleTick()
	})
}

func (e *Engine) itemCount() int {
	return e.def.ItemCount()
}

func (e *Engine) checkItem(index int) error {
	if index < 0 || index >= e.itemCount() {
		return ErrItemOutOfRange
	}
	return nil
}
