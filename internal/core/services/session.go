package services

import (
	"sync"
	"time"

	"github.com/guavabuy/secondbrain/internal/core/domain"
	"github.com/guavabuy/secondbrain/internal/logger"
)

// DefaultSessionIdle is how long a session may sit untouched before the
// manager drops it.
const DefaultSessionIdle = 2 * time.Hour

// Session is the per-conversation state. All access goes through the
// owning manager's Do, which serialises work per session so two
// messages from one conversation never interleave.
type Session struct {
	ID string

	// LastQuery and LastPack cache the most recent exchange so
	// follow-up handling can reference it.
	LastQuery string
	LastPack  domain.RetrievalPack
	LastMeta  domain.ReplyMeta

	// Turns counts processed queries in this session.
	Turns int

	lastActive time.Time
	mu         sync.Mutex
}

// SessionManager owns conversation sessions keyed by an opaque ID.
// Sessions appear on first use and disappear after the idle timeout.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	now      func() time.Time
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithIdleTimeout overrides the idle eviction window.
func WithIdleTimeout(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.idle = d
		}
	}
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewSessionManager creates an empty manager.
func NewSessionManager(opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		sessions: make(map[string]*Session),
		idle:     DefaultSessionIdle,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do runs fn with the session for id, holding that session's lock for
// the duration. The session is created on first use; stale sessions are
// swept opportunistically on every call.
func (m *SessionManager) Do(id string, fn func(*Session)) {
	s := m.acquire(id)
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (m *SessionManager) acquire(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for key, s := range m.sessions {
		if key != id && now.Sub(s.lastActive) > m.idle {
			delete(m.sessions, key)
			logger.Debug("Session %s evicted after %s idle", key, m.idle)
		}
	}

	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id, lastActive: now}
		m.sessions[id] = s
		logger.Debug("Session %s created", id)
	}
	s.lastActive = now
	return s
}

// Len reports the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
