package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/activity-service/internal/engine"
	"github.com/SAP-F-2025/activity-service/internal/events"
	"github.com/SAP-F-2025/activity-service/internal/models"
)

var epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type stubLoader map[string]*models.ActivityDefinition

func (l stubLoader) LoadDefinition(_ context.Context, identifier string) (*models.ActivityDefinition, error) {
	if def, ok := l[identifier]; ok {
		return def, nil
	}
	return nil, ErrActivityNotFound
}

type stubRecorder struct {
	mu      sync.Mutex
	err     error
	records []models.AttemptRecord
}

func (r *stubRecorder) RecordAttempt(_ context.Context, _ string, record models.AttemptRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return r.err
}

func (r *stubRecorder) Records() []models.AttemptRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AttemptRecord(nil), r.records...)
}

type sessionFixture struct {
	svc       *SessionService
	recorder  *stubRecorder
	publisher *events.MockEventPublisher
	now       time.Time

	mu     sync.Mutex
	scheds []*engine.ManualScheduler
}

func newSessionFixture(t *testing.T, config SessionConfig) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		recorder:  &stubRecorder{},
		publisher: events.NewMockEventPublisher(testLogger()),
		now:       epoch,
	}
	loader := stubLoader{
		"quiz-1": {
			ID:       "quiz-1",
			Title:    "Capitales",
			Language: models.LanguageES,
			Kind:     models.KindQuiz,
			Questions: []models.Question{
				{Prompt: "Capital de Francia", Options: []string{"Madrid", "París"}, CorrectIndex: 1},
				{Prompt: "Capital de España", Options: []string{"Madrid", "Lisboa"}, CorrectIndex: 0},
			},
		},
		"anagram-1": {
			ID:       "anagram-1",
			Title:    "Animales",
			Language: models.LanguageES,
			Kind:     models.KindAnagram,
			Anagrams: []models.AnagramPuzzle{{Word: "sol"}, {Word: "mar"}},
		},
	}
	f.svc = NewSessionService(loader, f.recorder, f.publisher, config, testLogger())
	f.svc.now = func() time.Time { return f.now }
	f.svc.runtime = func() (engine.Scheduler, engine.Clock) {
		clock := engine.NewManualClock(epoch)
		sched := engine.NewManualScheduler(clock)
		f.mu.Lock()
		f.scheds = append(f.scheds, sched)
		f.mu.Unlock()
		return sched, clock
	}
	return f
}

func (f *sessionFixture) open(t *testing.T, identifier string) *Session {
	t.Helper()
	session, err := f.svc.Open(context.Background(), identifier)
	require.NoError(t, err)
	return session
}

func (f *sessionFixture) lastScheduler() *engine.ManualScheduler {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scheds[len(f.scheds)-1]
}

func TestSessionService_Open(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{MaxSessions: 2})
	ctx := context.Background()

	_, err := f.svc.Open(ctx, "nope")
	assert.ErrorIs(t, err, ErrActivityNotFound)
	assert.Zero(t, f.svc.Count())

	session := f.open(t, "quiz-1")
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, epoch, session.CreatedAt)

	state, err := f.svc.State(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, state.SessionID)
	assert.Equal(t, models.AttemptNameEntry, state.Status)
	assert.Equal(t, 2, state.TotalItems)

	f.open(t, "anagram-1")
	_, err = f.svc.Open(ctx, "quiz-1")
	assert.ErrorIs(t, err, ErrSessionLimit)
	assert.Equal(t, 2, f.svc.Count())

	_, err = f.svc.State(ctx, "unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionService_QuizFlow(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{})
	ctx := context.Background()
	session := f.open(t, "quiz-1")

	_, err := f.svc.SelectOption(ctx, session.ID, 0, 1)
	assert.ErrorIs(t, err, engine.ErrAttemptNotStarted)
	assert.True(t, IsConflict(err))

	_, err = f.svc.ConfirmName(ctx, session.ID, "   ")
	assert.True(t, IsValidation(err))
	assert.Empty(t, f.publisher.GetPublishedEvents())

	state, err := f.svc.ConfirmName(ctx, session.ID, "  Ana ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", state.StudentName)
	assert.Equal(t, models.AttemptInProgress, state.Status)

	published := f.publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAttemptStarted, published[0].Type)
	started := published[0].Data.(events.AttemptStartedEvent)
	assert.Equal(t, session.ID, started.SessionID)
	assert.Equal(t, "quiz-1", started.ActivityID)

	_, err = f.svc.SelectOption(ctx, session.ID, 0, 1)
	require.NoError(t, err)
	f.lastScheduler().Advance(1400 * time.Millisecond)

	state, err = f.svc.State(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentIndex)

	_, _, err = f.svc.Result(session.ID)
	assert.ErrorIs(t, err, ErrResultNotReady)

	_, err = f.svc.SelectOption(ctx, session.ID, 1, 1)
	require.NoError(t, err)
	f.lastScheduler().Advance(1400 * time.Millisecond)
	session.Engine().WaitRecorded()

	def, result, err := f.svc.Result(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "quiz-1", def.ID)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 50, result.Percentage)
	assert.Equal(t, []any{1, 1}, result.Answers)

	records := f.recorder.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "Ana", records[0].StudentName)

	_, err = f.svc.SelectOption(ctx, session.ID, 0, 0)
	assert.ErrorIs(t, err, engine.ErrAttemptSubmitted)
	assert.Greater(t, session.Version(), uint64(0))
}

func TestSessionService_RejectionsBecomeNotices(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{})
	ctx := context.Background()
	session := f.open(t, "anagram-1")
	_, err := f.svc.ConfirmName(ctx, session.ID, "Luis")
	require.NoError(t, err)

	state, err := f.svc.TypeKey(ctx, session.ID, "z", engine.FocusPage)
	assert.True(t, IsRejection(err))
	require.NotNil(t, state)
	assert.Empty(t, state.Items[0].Assembled)

	notices, err := f.svc.DrainNotices(session.ID)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, engine.NoticeInputRejected, notices[0].Kind)

	notices, err = f.svc.DrainNotices(session.ID)
	require.NoError(t, err)
	assert.Empty(t, notices)

	for _, key := range []string{"s", "o"} {
		_, err = f.svc.TypeKey(ctx, session.ID, key, engine.FocusPage)
		require.NoError(t, err)
	}
	state, err = f.svc.UndoLetter(ctx, session.ID, CurrentWord)
	require.NoError(t, err)
	assert.Equal(t, "S", state.Items[0].Assembled)

	state, err = f.svc.ResetWord(ctx, session.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, state.Items[0].Assembled)

	_, err = f.svc.Navigate(ctx, session.ID, "sideways", 0)
	assert.ErrorIs(t, err, ErrUnknownNavigation)

	state, err = f.svc.Navigate(ctx, session.ID, NavigateGoTo, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, state.CurrentIndex)

	_, err = f.svc.Navigate(ctx, session.ID, NavigateGoTo, 5)
	assert.True(t, IsNotFound(err))
}

func TestSessionService_ConcurrentOpenHonoursLimit(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{MaxSessions: 3})

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		limited int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Open(context.Background(), "quiz-1")
			if errors.Is(err, ErrSessionLimit) {
				mu.Lock()
				limited++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, f.svc.Count())
	assert.Equal(t, 17, limited)
}

func TestSessionService_ElapsedComesFromSnapshot(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{})
	ctx := context.Background()
	session := f.open(t, "quiz-1")

	_, err := f.svc.ConfirmName(ctx, session.ID, "Ana")
	require.NoError(t, err)
	before := session.Version()

	f.lastScheduler().Advance(3 * time.Second)

	state, err := f.svc.State(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), state.ElapsedMs)
	assert.Equal(t, "00:03", state.ElapsedDisplay)
	assert.Equal(t, before, state.Version)
}

func TestSessionService_NoticeBufferIsBounded(t *testing.T) {
	session := newSession("s1", func() time.Time { return epoch })
	for i := 0; i < maxPendingNotices+5; i++ {
		session.Notice(engine.Notice{Item: i})
	}
	notices := session.DrainNotices()
	require.Len(t, notices, maxPendingNotices)
	assert.Equal(t, 5, notices[0].Item)
}

func TestSessionService_PersistenceFailure(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{})
	f.recorder.err = errors.New("database unavailable")
	ctx := context.Background()
	session := f.open(t, "anagram-1")
	_, err := f.svc.ConfirmName(ctx, session.ID, "Ana")
	require.NoError(t, err)

	state, err := f.svc.Submit(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, state.Submitted)
	session.Engine().WaitRecorded()

	state, err = f.svc.State(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, state.Submitted)
	assert.True(t, state.SaveFailed)

	notices, err := f.svc.DrainNotices(session.ID)
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, engine.NoticePersistenceFailed, notices[0].Kind)
	assert.Equal(t, "Error guardando resultados", notices[0].Message)
}

func TestSessionService_CloseAndReap(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{IdleTimeout: time.Hour})
	ctx := context.Background()

	stale := f.open(t, "quiz-1")
	f.now = epoch.Add(50 * time.Minute)
	fresh := f.open(t, "anagram-1")

	f.now = epoch.Add(70 * time.Minute)
	assert.Equal(t, 1, f.svc.ReapIdle(ctx))

	_, err := f.svc.Get(stale.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = stale.Engine().Submit()
	assert.ErrorIs(t, err, engine.ErrEngineClosed)

	require.NoError(t, f.svc.Close(ctx, fresh.ID))
	assert.ErrorIs(t, f.svc.Close(ctx, fresh.ID), ErrSessionNotFound)
	assert.Zero(t, f.svc.Count())
}

func TestSessionService_Shutdown(t *testing.T) {
	f := newSessionFixture(t, SessionConfig{})
	ctx := context.Background()

	session := f.open(t, "quiz-1")
	_, err := f.svc.ConfirmName(ctx, session.ID, "Ana")
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, session.ID)
	require.NoError(t, err)
	f.open(t, "anagram-1")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, f.svc.Shutdown(shutdownCtx))

	assert.Zero(t, f.svc.Count())
	assert.Len(t, f.recorder.Records(), 1)
}
