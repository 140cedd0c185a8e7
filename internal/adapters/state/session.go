package state

import (
	"sync"

	"bookclub/internal/domain/user"
)

// Session holds the current authenticated user record for one console
// session. It is the injected replacement for the ambient user context:
// readers get a copy, and the only mutation is removing an owned club id
// after a deletion.
type Session struct {
	mu   sync.RWMutex
	user user.User
	set  bool
}

// NewSession creates a session state holding the given user.
func NewSession(u user.User) *Session {
	return &Session{user: u, set: true}
}

// CurrentUser returns a copy of the current user record.
// INVARIANT: callers cannot mutate the stored record through the copy
func (s *Session) CurrentUser() (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return user.User{}, false
	}
	u := s.user
	u.CreatedClubs = append([]int(nil), s.user.CreatedClubs...)
	return u, true
}

// RemoveOwnedClub removes a club id from the user's owned list.
// POST: id is absent from the stored user's CreatedClubs
func (s *Session) RemoveOwnedClub(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.RemoveClub(id)
}
