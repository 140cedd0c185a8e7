package user

// User is the authenticated account driving the console session.
// CreatedClubs holds the ids of clubs this user administers, in creation order.
type User struct {
	ID           int
	Username     string
	CreatedClubs []int
}

// FirstOwnedClub returns the id of the first club the user administers.
// Only one club is manageable through the console regardless of how many
// the user owns.
// INVARIANT: CreatedClubs is not mutated
func (u *User) FirstOwnedClub() (int, bool) {
	if len(u.CreatedClubs) == 0 {
		return 0, false
	}
	return u.CreatedClubs[0], true
}

// OwnsClub reports whether the given club id is in the user's owned list.
// INVARIANT: CreatedClubs is not mutated
func (u *User) OwnsClub(id int) bool {
	for _, c := range u.CreatedClubs {
		if c == id {
			return true
		}
	}
	return false
}

// RemoveClub deletes a club id from the owned list, preserving order.
// PRE: none
// POST: id is absent from CreatedClubs; returns true if it was present
func (u *User) RemoveClub(id int) bool {
	for i, c := range u.CreatedClubs {
		if c == id {
			u.CreatedClubs = append(u.CreatedClubs[:i], u.CreatedClubs[i+1:]...)
			return true
		}
	}
	return false
}
