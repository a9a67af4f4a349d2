package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTimeout is how long an idle MCP session is remembered.
const DefaultSessionTimeout = 24 * time.Hour

var (
	// ErrInvalidSessionID is returned for session IDs that are not UUIDs.
	ErrInvalidSessionID = errors.New("invalid session id")
	// ErrUnknownSession is returned for well-formed IDs this server never issued
	// or has already expired.
	ErrUnknownSession = errors.New("unknown session id")
)

// sessionInfo tracks session metadata for cleanup
type sessionInfo struct {
	lastAccess time.Time
	terminated bool
}

// SessionManager issues and validates Mcp-Session-Id values for the
// streamable HTTP transport. Sessions carry no credentials; they only let
// the transport tell live sessions from terminated or unknown ones.
type SessionManager struct {
	sessions       map[string]*sessionInfo
	mu             sync.Mutex
	cleanupTicker  *time.Ticker
	cleanupDone    chan struct{}
	stopOnce       sync.Once
	sessionTimeout time.Duration
	logger         *slog.Logger
	now            func() time.Time
}

// NewSessionManager creates a session manager with the default timeout.
func NewSessionManager(logger *slog.Logger) *SessionManager {
	return NewSessionManagerWithTimeout(DefaultSessionTimeout, logger)
}

// NewSessionManagerWithTimeout creates a session manager that forgets
// sessions idle for longer than timeout.
func NewSessionManagerWithTimeout(timeout time.Duration, logger *slog.Logger) *SessionManager {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}

	m := &SessionManager{
		sessions:       make(map[string]*sessionInfo),
		cleanupTicker:  time.NewTicker(10 * time.Minute),
		cleanupDone:    make(chan struct{}),
		sessionTimeout: timeout,
		logger:         logger,
		now:            time.Now,
	}

	go m.cleanupLoop()

	return m
}

// Generate issues a new session ID.
func (m *SessionManager) Generate() string {
	id := uuid.NewString()

	m.mu.Lock()
	m.sessions[id] = &sessionInfo{lastAccess: m.now()}
	m.mu.Unlock()

	m.logger.Debug("mcp session started", "session_id", id)
	return id
}

// Validate reports whether sessionID may be used. isTerminated is true for
// sessions that were explicitly ended.
func (m *SessionManager) Validate(sessionID string) (isTerminated bool, err error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return false, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.sessions[sessionID]
	if !ok {
		return false, ErrUnknownSession
	}
	if info.terminated {
		return true, nil
	}
	info.lastAccess = m.now()
	return false, nil
}

// Terminate ends a session. Clients are always allowed to end their own
// session.
func (m *SessionManager) Terminate(sessionID string) (isNotAllowed bool, err error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return false, ErrInvalidSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.sessions[sessionID]
	if !ok {
		return false, ErrUnknownSession
	}
	info.terminated = true
	info.lastAccess = m.now()

	m.logger.Debug("mcp session terminated", "session_id", sessionID)
	return false, nil
}

// ActiveSessions returns the number of live, non-terminated sessions.
func (m *SessionManager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, info := range m.sessions {
		if !info.terminated {
			n++
		}
	}
	return n
}

// expire drops sessions idle for longer than the timeout and returns how
// many were removed.
func (m *SessionManager) expire() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	expired := 0
	for id, info := range m.sessions {
		if now.Sub(info.lastAccess) > m.sessionTimeout {
			delete(m.sessions, id)
			expired++
		}
	}
	return expired
}

func (m *SessionManager) cleanupLoop() {
	for {
		select {
		case <-m.cleanupTicker.C:
			if n := m.expire(); n > 0 {
				m.logger.Info("cleaned up expired sessions", "count", n)
			}
		case <-m.cleanupDone:
			return
		}
	}
}

// Stop stops the session cleanup goroutine. It is safe to call more than once.
func (m *SessionManager) Stop() {
	m.stopOnce.Do(func() {
		m.cleanupTicker.Stop()
		close(m.cleanupDone)
	})
}
