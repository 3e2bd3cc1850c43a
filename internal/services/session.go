package services

import "sync"

// SessionState is the remembered context of one conversation: the cart it
// owns (0 until the first mutation creates one) and the search filters
// mentioned across turns. The embedded mutex serializes turns for the same
// session without blocking other sessions.
type SessionState struct {
	mu      sync.Mutex
	CartID  uint
	Filters map[string]string
}

// SessionStore maps opaque session ids to their state. States are created
// lazily and live for the process lifetime.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*SessionState
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*SessionState),
	}
}

// Get returns the state for a session id, creating it on first access.
// Callers always receive the same state instance for the same id.
func (ss *SessionStore) Get(sessionID string) *SessionState {
	ss.mu.RLock()
	state, exists := ss.sessions[sessionID]
	ss.mu.RUnlock()
	if exists {
		return state
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if state, exists = ss.sessions[sessionID]; exists {
		return state
	}
	state = &SessionState{Filters: make(map[string]string)}
	ss.sessions[sessionID] = state
	return state
}

// ActiveSessions returns the number of known sessions (for monitoring)
func (ss *SessionStore) ActiveSessions() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}
