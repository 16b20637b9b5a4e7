package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/activity-service/internal/cache"
	"github.com/SAP-F-2025/activity-service/internal/engine"
	"github.com/SAP-F-2025/activity-service/internal/events"
	"github.com/SAP-F-2025/activity-service/internal/models"
)

type NavigationAction string

const (
	NavigateNext     NavigationAction = "next"
	NavigatePrevious NavigationAction = "previous"
	NavigateGoTo     NavigationAction = "goto"
)

// CurrentWord selects the word the student is looking at
const CurrentWord = -1

type SessionConfig struct {
	Engine      engine.Config
	IdleTimeout time.Duration
	MaxSessions int
}

// SessionService keeps the live attempts of this instance
type SessionService struct {
	loader    cache.DefinitionLoader
	recorder  engine.Recorder
	publisher events.EventPublisher
	config    SessionConfig
	logger    *ServiceLogger

	now     func() time.Time
	runtime func() (engine.Scheduler, engine.Clock)

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionService(loader cache.DefinitionLoader, recorder engine.Recorder, publisher events.EventPublisher, config SessionConfig, logger *slog.Logger) *SessionService {
	return &SessionService{
		loader:    loader,
		recorder:  recorder,
		publisher: publisher,
		config:    config,
		logger:    NewServiceLogger(logger, LogConfig{Service: "activity-service", Component: "sessions"}),
		now:       time.Now,
		runtime: func() (engine.Scheduler, engine.Clock) {
			return engine.NewTimerScheduler(), engine.SystemClock{}
		},
		sessions: make(map[string]*Session),
	}
}

// Open loads the activity and starts a new attempt in name entry. Nothing is
// registered when the activity cannot be found.
func (s *SessionService) Open(ctx context.Context, identifier string) (*Session, error) {
	start := time.Now()

	if s.config.MaxSessions > 0 && s.Count() >= s.config.MaxSessions {
		s.logger.LogOperation(ctx, "open", "", time.Since(start), ErrSessionLimit)
		return nil, ErrSessionLimit
	}

	def, err := s.loader.LoadDefinition(ctx, identifier)
	if err != nil {
		s.logger.LogOperation(ctx, "open", "", time.Since(start), err)
		return nil, err
	}

	session := newSession(uuid.NewString(), s.now)
	scheduler, clock := s.runtime()
	eng, err := engine.New(def, engine.Options{
		Config:    s.config.Engine,
		Scheduler: scheduler,
		Clock:     clock,
		Logger:    s.logger.Logger().With("session_id", session.ID),
		Listener:  session,
		Recorder:  s.recorder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start attempt: %w", err)
	}
	session.engine = eng

	s.mu.Lock()
	if s.config.MaxSessions > 0 && len(s.sessions) >= s.config.MaxSessions {
		s.mu.Unlock()
		eng.Close()
		s.logger.LogOperation(ctx, "open", "", time.Since(start), ErrSessionLimit)
		return nil, ErrSessionLimit
	}
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Logger().InfoContext(ctx, "Session opened",
		"session_id", session.ID,
		"activity_id", def.ID,
		"kind", def.Kind,
		"items", def.ItemCount())
	return session, nil
}

// Get returns a live session and marks it as seen
func (s *SessionService) Get(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	session.touch()
	return session, nil
}

// Do runs one operation against the session's engine and returns the state
// the client should render afterwards. Rejected input still returns the state.
func (s *SessionService) Do(ctx context.Context, id, operation string, fn func(*engine.Engine) error) (*SessionState, error) {
	start := time.Now()

	session, err := s.Get(id)
	if err != nil {
		s.logger.LogOperation(ctx, operation, id, time.Since(start), err)
		return nil, err
	}

	err = fn(session.engine)
	s.logger.LogOperation(ctx, operation, id, time.Since(start), err)

	state := session.State()
	return &state, err
}

func (s *SessionService) State(ctx context.Context, id string) (*SessionState, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	state := session.State()
	return &state, nil
}

// ConfirmName starts the attempt and announces it
func (s *SessionService) ConfirmName(ctx context.Context, id, name string) (*SessionState, error) {
	var def *models.ActivityDefinition
	state, err := s.Do(ctx, id, "confirm_name", func(e *engine.Engine) error {
		def = e.Definition()
		return e.ConfirmName(name)
	})
	if err != nil {
		return state, err
	}

	if s.publisher != nil {
		event := events.NewAttemptStartedEvent(id, def, state.StudentName, s.now())
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Logger().WarnContext(ctx, "Failed to publish attempt started event",
				"session_id", id,
				"error", err)
		}
	}
	return state, nil
}

func (s *SessionService) SelectOption(ctx context.Context, id string, item, option int) (*SessionState, error) {
	return s.Do(ctx, id, "select_option", func(e *engine.Engine) error {
		return e.SelectOption(item, option)
	})
}

func (s *SessionService) ClickTile(ctx context.Context, id string, word, tile int) (*SessionState, error) {
	return s.Do(ctx, id, "click_tile", func(e *engine.Engine) error {
		return e.ClickTile(resolveWord(e, word), tile)
	})
}

func (s *SessionService) DropTile(ctx context.Context, id string, word, tile, slot int) (*SessionState, error) {
	return s.Do(ctx, id, "drop_tile", func(e *engine.Engine) error {
		return e.DropTile(resolveWord(e, word), tile, slot)
	})
}

func (s *SessionService) TypeKey(ctx context.Context, id, key string, focus engine.Focus) (*SessionState, error) {
	return s.Do(ctx, id, "type_key", func(e *engine.Engine) error {
		return e.TypeKey(key, focus)
	})
}

func (s *SessionService) UndoLetter(ctx context.Context, id string, word int) (*SessionState, error) {
	return s.Do(ctx, id, "undo_letter", func(e *engine.Engine) error {
		return e.UndoLetter(resolveWord(e, word))
	})
}

func (s *SessionService) ResetWord(ctx context.Context, id string, word int) (*SessionState, error) {
	return s.Do(ctx, id, "reset_word", func(e *engine.Engine) error {
		return e.ResetWord(resolveWord(e, word))
	})
}

func (s *SessionService) ClearSlot(ctx context.Context, id string, word, slot int) (*SessionState, error) {
	return s.Do(ctx, id, "clear_slot", func(e *engine.Engine) error {
		return e.ClearSlot(resolveWord(e, word), slot)
	})
}

func (s *SessionService) Navigate(ctx context.Context, id string, action NavigationAction, index int) (*SessionState, error) {
	return s.Do(ctx, id, "navigate_"+string(action), func(e *engine.Engine) error {
		switch action {
		case NavigateNext:
			return e.Next()
		case NavigatePrevious:
			return e.Previous()
		case NavigateGoTo:
			return e.GoTo(index)
		}
		return fmt.Errorf("%w: %q", ErrUnknownNavigation, action)
	})
}

// Submit finalizes the attempt. Saving happens in the background and a failed
// save shows up as a notice on the session.
func (s *SessionService) Submit(ctx context.Context, id string) (*SessionState, error) {
	return s.Do(ctx, id, "submit", func(e *engine.Engine) error {
		_, err := e.Submit()
		return err
	})
}

// Result returns the definition and outcome of a submitted attempt
func (s *SessionService) Result(id string) (*models.ActivityDefinition, *engine.Result, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, nil, err
	}
	result, ok := session.engine.Result()
	if !ok {
		return nil, nil, ErrResultNotReady
	}
	return session.engine.Definition(), result, nil
}

func (s *SessionService) DrainNotices(id string) ([]engine.Notice, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return session.DrainNotices(), nil
}

// Close tears the session down and cancels its timers. A save already in
// flight still completes.
func (s *SessionService) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	session.engine.Close()
	s.logger.Logger().InfoContext(ctx, "Session closed",
		"session_id", id,
		"status", session.engine.Status())
	return nil
}

// ReapIdle closes sessions nobody touched within the idle timeout
func (s *SessionService) ReapIdle(ctx context.Context) int {
	if s.config.IdleTimeout <= 0 {
		return 0
	}
	cutoff := s.now().Add(-s.config.IdleTimeout)

	s.mu.Lock()
	var idle []*Session
	for id, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			idle = append(idle, session)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, session := range idle {
		session.engine.Close()
	}
	if len(idle) > 0 {
		s.logger.Logger().InfoContext(ctx, "Idle sessions reaped", "count", len(idle))
	}
	return len(idle)
}

// RunReaper calls ReapIdle every interval until ctx is done
func (s *SessionService) RunReaper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.ReapIdle(ctx)
		}
	}
}

// Shutdown closes every session and waits for pending saves or ctx
func (s *SessionService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, session := range sessions {
		session.engine.Close()
	}

	done := make(chan struct{})
	go func() {
		for _, session := range sessions {
			session.engine.WaitRecorded()
		}
		close(done)
	}()

	select {
	case <-done:
		s.logger.Logger().Info("All sessions closed", "count", len(sessions))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for attempt saves: %w", ctx.Err())
	}
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func resolveWord(e *engine.Engine, word int) int {
	if word == CurrentWord {
		return e.CurrentIndex()
	}
	return word
}
