package session

import (
	"context"
	"net/http"
)

type Category string

const (
	Success Category = "success"
	Info    Category = "info"
	Error   Category = "error"
)

// Notice is a one-shot message shown on the next rendered page.
type Notice struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// State is what a Store persists between requests.
type State struct {
	Identity Identity `json:"identity"`
	Notices  []Notice `json:"notices,omitempty"`
}

func (s State) empty() bool {
	return !s.Identity.IsAuthenticated() && len(s.Notices) == 0
}

// Store persists State for a client. Save with renew set must issue a new
// session id, if the store has one.
type Store interface {
	Load(r *http.Request) (State, error)
	Save(w http.ResponseWriter, r *http.Request, st State, renew bool) error
}

// Session is the per-request view of the client's State. Changes are written
// back by Commit.
type Session struct {
	store     Store
	r         *http.Request
	state     State
	dirty     bool
	renew     bool
	committed bool
}

func New(store Store, r *http.Request, st State) *Session {
	return &Session{store: store, r: r, state: st}
}

// Detached returns a session that is never persisted.
func Detached(id Identity) *Session {
	return &Session{state: State{Identity: id}}
}

func (s *Session) Identity() Identity { return s.state.Identity }

// SignIn replaces the identity and rotates the session id.
func (s *Session) SignIn(id Identity) {
	s.state.Identity = id
	s.dirty = true
	s.renew = true
}

func (s *Session) SignOut() {
	s.state.Identity = Anonymous()
	s.dirty = true
	s.renew = true
}

func (s *Session) Flash(c Category, msg string) {
	s.state.Notices = append(s.state.Notices, Notice{Category: c, Message: msg})
	s.dirty = true
}

// Notices returns and clears the pending notices.
func (s *Session) Notices() []Notice {
	n := s.state.Notices
	if len(n) > 0 {
		s.state.Notices = nil
		s.dirty = true
	}
	return n
}

// Pending returns the pending notices without clearing them.
func (s *Session) Pending() []Notice {
	return s.state.Notices
}

// Commit saves the state if it changed. It must run before the response
// headers are written; later calls are no-ops.
func (s *Session) Commit(w http.ResponseWriter) error {
	if s.committed || !s.dirty || s.store == nil {
		return nil
	}
	s.committed = true
	return s.store.Save(w, s.r, s.state, s.renew)
}

type ctxKey struct{}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session, or a detached anonymous one.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(ctxKey{}).(*Session); ok {
		return s
	}
	return Detached(Anonymous())
}
