package services

import (
	"sync"
	"time"

	"github.com/SAP-F-2025/activity-service/internal/engine"
)

// maxPendingNotices bounds the notices a session keeps between two drains
const maxPendingNotices = 50

// Session is one student's live attempt. It listens to its engine and buffers
// what the client has not fetched yet.
type Session struct {
	ID        string
	CreatedAt time.Time

	engine *engine.Engine
	now    func() time.Time

	mu       sync.Mutex
	version  uint64
	notices  []engine.Notice
	lastSeen time.Time
}

// SessionState is what clients receive for a session
type SessionState struct {
	SessionID string `json:"sessionId"`
	Version   uint64 `json:"version"`
	engine.Snapshot
}

func newSession(id string, now func() time.Time) *Session {
	created := now()
	return &Session{
		ID:        id,
		CreatedAt: created,
		now:       now,
		lastSeen:  created,
	}
}

func (s *Session) Engine() *engine.Engine {
	return s.engine
}

func (s *Session) StateChanged(engine.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
}

func (s *Session) Notice(n engine.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.notices) == maxPendingNotices {
		s.notices = append(s.notices[:0], s.notices[1:]...)
	}
	s.notices = append(s.notices, n)
}

// Tick is ignored; clients read the elapsed time from the snapshot
func (s *Session) Tick(time.Duration) {}

// DrainNotices returns the buffered notices oldest first and clears the buffer
func (s *Session) DrainNotices() []engine.Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.notices
	s.notices = nil
	if out == nil {
		out = []engine.Notice{}
	}
	return out
}

// Version increases with every state change of the attempt
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) State() SessionState {
	snap := s.engine.Snapshot()
	return SessionState{
		SessionID: s.ID,
		Version:   s.Version(),
		Snapshot:  snap,
	}
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
