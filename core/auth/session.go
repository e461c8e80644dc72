package auth

import (
	"sync"

	"WonFM/model"
)

// SessionState tracks where a session is in its lifecycle.
type SessionState string

const (
	StateAnonymous     SessionState = "anonymous"
	StatePending       SessionState = "pending"
	StateAuthenticated SessionState = "authenticated"
)

// Session is the cached current-session value. A non-anonymous session
// always carries a non-nil User.
type Session struct {
	State SessionState `json:"state"`
	User  *model.User  `json:"user,omitempty"`
	Token string       `json:"-"`
}

// SessionBroker holds the latest session value and notifies observers when
// it changes. Single writer (the facade), many readers; last publish wins.
// This replaces hidden global auth state with an explicit observer surface.
type SessionBroker struct {
	mu        sync.RWMutex
	current   Session
	observers []func(Session)
}

// NewSessionBroker starts in the anonymous state.
func NewSessionBroker() *SessionBroker {
	return &SessionBroker{current: Session{State: StateAnonymous}}
}

// Current returns the latest published session.
func (b *SessionBroker) Current() Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Subscribe registers an observer that receives every subsequent publish.
// Observers run synchronously on the publishing goroutine; keep them cheap.
func (b *SessionBroker) Subscribe(fn func(Session)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, fn)
}

// publish replaces the current session and notifies observers.
func (b *SessionBroker) publish(s Session) {
	b.mu.Lock()
	b.current = s
	observers := make([]func(Session), len(b.observers))
	copy(observers, b.observers)
	b.mu.Unlock()

	for _, fn := range observers {
		fn(s)
	}
}
