package web

import (
	"net/http"
	"sync"

	"github.com/desertthunder/tracklist/internal/session"
	"github.com/desertthunder/tracklist/internal/shared"
)

// CookieName is the cookie carrying the browser's session ID.
const CookieName = "tracklist_session"

// Session is the server-side state of one browser.
type Session struct {
	ID         string
	Controller *session.Controller
	Authorizer Authorizer

	mu    sync.Mutex
	state string
}

// SetState records the state token of a pending login.
func (s *Session) SetState(state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// TakeState returns and clears the pending state token.
func (s *Session) TakeState() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.state
	s.state = ""
	return state
}

// Store holds sessions in memory, keyed by cookie value.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	create   func(id string) *Session
}

// NewStore creates a store that builds new sessions with create.
func NewStore(create func(id string) *Session) *Store {
	return &Store{sessions: make(map[string]*Session), create: create}
}

// Get returns the session with id, if any.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Load returns the request's session, creating one and setting its cookie when missing or unknown.
func (s *Store) Load(w http.ResponseWriter, r *http.Request) *Session {
	if c, err := r.Cookie(CookieName); err == nil {
		if sess, ok := s.Get(c.Value); ok {
			return sess
		}
	}

	id := shared.GenerateID()
	sess := s.create(id)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}
