package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/opskrifter/internal/ui"
)

// SessionCookie names the visitor session cookie
const SessionCookie = "opskrifter_session"

// DefaultSessionTTL is how long an idle visitor keeps its page state
const DefaultSessionTTL = 12 * time.Hour

// Session holds the page controllers of one visitor
type Session struct {
	ID      string
	Browser *ui.Browser
	Form    *ui.Form
	Console *ui.Console

	mu          sync.Mutex
	draftLoaded bool
	lastSeen    time.Time
}

// claimDraft reports whether the stored draft still has to be restored
// into the form, and marks it restored
func (s *Session) claimDraft() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draftLoaded {
		return false
	}
	s.draftLoaded = true
	return true
}

// Sessions is the mutex-guarded visitor store
type Sessions struct {
	mu      sync.Mutex
	items   map[string]*Session
	factory func(id string) *Session
	ttl     time.Duration
	now     func() time.Time
}

// NewSessions creates a store; factory builds the controllers of a new
// visitor
func NewSessions(ttl time.Duration, factory func(id string) *Session) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		items:   make(map[string]*Session),
		factory: factory,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a live session and marks it used
func (s *Sessions) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	sess.mu.Lock()
	expired := now.Sub(sess.lastSeen) > s.ttl
	sess.lastSeen = now
	sess.mu.Unlock()
	if expired {
		delete(s.items, id)
		return nil, false
	}
	return sess, true
}

// Create starts a session. A valid uuid from an old cookie is kept so a
// stored form draft finds its visitor again; anything else gets a new id.
func (s *Sessions) Create(id string) *Session {
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	sess := s.factory(id)
	sess.lastSeen = s.now()

	s.mu.Lock()
	s.items[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Prune drops idle sessions and returns how many went
func (s *Sessions) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	dropped := 0
	for id, sess := range s.items {
		sess.mu.Lock()
		idle := now.Sub(sess.lastSeen)
		sess.mu.Unlock()
		if idle > s.ttl {
			delete(s.items, id)
			dropped++
		}
	}
	return dropped
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
