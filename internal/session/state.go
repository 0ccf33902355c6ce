package session

import "sync/atomic"

// AuthState is the view-facing notion of whether the user is signed in.
// Request decisions never read it; they are driven by response status codes.
type AuthState int32

const (
	AuthStateUnknown AuthState = iota
	AuthStateAuthenticated
	AuthStateUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthStateAuthenticated:
		return "authenticated"
	case AuthStateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// StateStore holds the AuthState shared by every view in the process.
type StateStore struct {
	state atomic.Int32
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Set(state AuthState) {
	s.state.Store(int32(state))
}

func (s *StateStore) State() AuthState {
	return AuthState(s.state.Load())
}

func (s *StateStore) IsAuthenticated() bool {
	return s.State() == AuthStateAuthenticated
}
