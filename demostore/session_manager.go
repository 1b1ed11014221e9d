package demostore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofrs/uuid"
)

const (
	DefaultSessionIdleTimeout = 30 * time.Minute
)

// ErrTooManySessions is returned when a new visitor would exceed the session limit.
var ErrTooManySessions = errors.New("too many sessions")

type cartLine struct {
	Key       string
	ProductID string
	Quantity  int
}

type flash struct {
	Kind string // "success" or "danger"
	Text string
}

// visitor is the state behind one session cookie. Handlers lock mu while using it.
type visitor struct {
	mu sync.Mutex

	id         uuid.UUID
	lastActive time.Time

	cart []cartLine
	// customer is the email of the logged in customer.
	customer  string
	flashes   []flash
	lastOrder int
}

func (v *visitor) addFlash(kind, text string) {
	v.flashes = append(v.flashes, flash{Kind: kind, Text: text})
}

func (v *visitor) takeFlashes() []flash {
	f := v.flashes
	v.flashes = nil
	return f
}

// SessionManager manages visitor sessions.
// It handles session lifecycle, activity tracking, and cleanup.
type SessionManager struct {
	sessions   map[uuid.UUID]*visitor
	sessionsMu sync.RWMutex

	idleTimeout time.Duration
	maxSessions int
	logger      *slog.Logger

	cleanupCtx       context.Context
	cleanupCtxCancel context.CancelFunc
	cleanupDone      chan struct{}
}

// SessionManagerOptions configures a SessionManager
type SessionManagerOptions struct {
	IdleTimeout time.Duration
	// MaxSessions limits concurrent sessions, 0 is unlimited.
	MaxSessions int
	Logger      *slog.Logger
}

// NewSessionManager creates a new SessionManager and starts the cleanup goroutine
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	idleTimeout := opts.IdleTimeout
	if idleTimeout == 0 {
		idleTimeout = DefaultSessionIdleTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cleanupCtx, cleanupCtxCancel := context.WithCancel(context.Background())

	sm := &SessionManager{
		sessions:         make(map[uuid.UUID]*visitor),
		idleTimeout:      idleTimeout,
		maxSessions:      opts.MaxSessions,
		logger:           logger,
		cleanupCtx:       cleanupCtx,
		cleanupCtxCancel: cleanupCtxCancel,
		cleanupDone:      make(chan struct{}),
	}

	go sm.cleanupLoop()

	return sm
}

// Get returns the visitor of a session and marks it active, or nil if not found
func (sm *SessionManager) Get(sessionID uuid.UUID) *visitor {
	sm.sessionsMu.RLock()
	v, exists := sm.sessions[sessionID]
	sm.sessionsMu.RUnlock()

	if !exists {
		return nil
	}
	sm.UpdateActivity(sessionID)
	return v
}

// GetOrCreate returns the visitor of a session, creating it if it doesn't exist.
// Returns the visitor and whether it was newly created.
func (sm *SessionManager) GetOrCreate(sessionID uuid.UUID) (*visitor, bool, error) {
	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	if v, exists := sm.sessions[sessionID]; exists {
		v.lastActive = time.Now()
		return v, false, nil
	}

	if sm.maxSessions > 0 && len(sm.sessions) >= sm.maxSessions {
		return nil, false, ErrTooManySessions
	}

	v := &visitor{
		id:         sessionID,
		lastActive: time.Now(),
	}
	sm.sessions[sessionID] = v

	return v, true, nil
}

// Delete removes a session
func (sm *SessionManager) Delete(sessionID uuid.UUID) {
	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	delete(sm.sessions, sessionID)
}

// UpdateActivity updates the last active time for a session
func (sm *SessionManager) UpdateActivity(sessionID uuid.UUID) {
	sm.sessionsMu.Lock()
	if v, exists := sm.sessions[sessionID]; exists {
		v.lastActive = time.Now()
	}
	sm.sessionsMu.Unlock()
}

func (sm *SessionManager) Len() int {
	sm.sessionsMu.RLock()
	defer sm.sessionsMu.RUnlock()
	return len(sm.sessions)
}

// IdleTimeout returns the configured idle timeout duration
func (sm *SessionManager) IdleTimeout() time.Duration {
	return sm.idleTimeout
}

// Close stops the cleanup goroutine and drops all sessions
func (sm *SessionManager) Close() {
	sm.cleanupCtxCancel()
	<-sm.cleanupDone

	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	clear(sm.sessions)
}

// cleanupLoop periodically checks for idle sessions and cleans them up
func (sm *SessionManager) cleanupLoop() {
	defer close(sm.cleanupDone)

	ticker := time.NewTicker(sm.idleTimeout / 2)
	defer ticker.Stop()

	for {
		select {
		case <-sm.cleanupCtx.Done():
			return
		case <-ticker.C:
			sm.cleanupIdleSessions()
		}
	}
}

func (sm *SessionManager) cleanupIdleSessions() {
	now := time.Now()

	sm.sessionsMu.Lock()
	defer sm.sessionsMu.Unlock()

	for sessionID, v := range sm.sessions {
		if idle := now.Sub(v.lastActive); idle > sm.idleTimeout {
			sm.logger.Debug("Removing idle session", "session", sessionID.String(), "idle", idle)
			delete(sm.sessions, sessionID)
		}
	}
}
