// Package session carries the authenticated caller through a single
// operation. A Session is built per request from a verified token and is
// never cached or shared, so a change of identity always means a new value.
package session

import "github.com/atakamran/liftlegends-sub000/internal/backend"

type Session struct {
	Backend  backend.Backend
	Identity backend.Identity
}

func New(b backend.Backend, identity backend.Identity) *Session {
	return &Session{Backend: b, Identity: identity}
}

// Valid reports whether the session names a backend and an identity on it.
func (s *Session) Valid() bool {
	return s != nil && s.Backend != nil && s.Identity.ID != ""
}

func (s *Session) UserID() string {
	if s == nil {
		return ""
	}
	return s.Identity.ID
}

func (s *Session) BackendName() string {
	if s == nil || s.Backend == nil {
		return ""
	}
	return s.Backend.Name()
}
