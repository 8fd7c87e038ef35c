package session

import (
	"net/url"
	"sync"
)

// State is a point-in-time view of the session.
type State struct {
	Authenticated bool
	Loading       bool
	Token         string
	Preview       bool
	// RedirectTarget is set when resolution ended unauthenticated.
	RedirectTarget string
	Location       *url.URL
}

// Session holds the resolved credential for the lifetime of the process.
// It starts loading and moves to a final state exactly once.
type Session struct {
	mu    sync.RWMutex
	state State
}

// New returns a Session in the loading state.
func New() *Session {
	return &Session{state: State{Loading: true}}
}

// Apply records the outcome of a resolution. Only the first call has any
// effect; it reports whether the state changed.
func (s *Session) Apply(result Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Loading {
		return false
	}
	switch r := result.(type) {
	case Authenticated:
		s.state = State{
			Authenticated: true,
			Token:         r.Token,
			Preview:       r.Preview,
			Location:      cloneURL(r.Location),
		}
	case Unauthenticated:
		s.state = State{RedirectTarget: r.RedirectTarget}
	default:
		return false
	}
	return true
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	if out.Location != nil {
		out.Location = cloneURL(out.Location)
	}
	return out
}

// Token returns the adopted credential, or "" before authentication.
// It satisfies library.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}
