package club

import (
	"errors"

	"bookclub/internal/domain/catalog"
)

// Genre tag limits enforced on every genre update.
const (
	MinGenres = 1
	MaxGenres = 3
)

// Domain errors
var (
	ErrNoGenres       = errors.New("a club must have at least one genre")
	ErrTooManyGenres  = errors.New("a club can have at most three genres")
	ErrMemberNotFound = errors.New("member is not in the club")
)

// Member is a club participant. Members are only ever removed through the
// console, never added.
type Member struct {
	ID       int
	Username string
}

// Club is the book-club resource being administered. The backend owns the
// record; the console holds a cached copy that is updated only after a
// successful round trip.
type Club struct {
	ID          int
	Name        string
	Description string
	CurrentBook *catalog.Book
	Members     []Member
	Genres      []catalog.Genre
}

// Summary is the directory view of a club, consumed by the club list page.
type Summary struct {
	ID          int
	Name        string
	Description string
	CurrentBook *catalog.Book
	Genres      []catalog.Genre
	MemberCount int
}

// ValidateGenreCount checks a proposed genre count against the tag limits.
// POST: returns nil iff MinGenres <= n <= MaxGenres
func ValidateGenreCount(n int) error {
	if n < MinGenres {
		return ErrNoGenres
	}
	if n > MaxGenres {
		return ErrTooManyGenres
	}
	return nil
}

// GenreIDs returns the ids of the club's genres in order.
// INVARIANT: the club is not mutated
func (c *Club) GenreIDs() []int {
	ids := make([]int, 0, len(c.Genres))
	for _, g := range c.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

// RemoveMember filters the member with the given id out of the member list,
// preserving the order of the remaining members.
// PRE: none
// POST: member is absent from Members; returns ErrMemberNotFound if absent already
func (c *Club) RemoveMember(id int) error {
	for i, m := range c.Members {
		if m.ID == id {
			c.Members = append(c.Members[:i], c.Members[i+1:]...)
			return nil
		}
	}
	return ErrMemberNotFound
}

// Summarize projects the club into its directory form.
// INVARIANT: the club is not mutated
func (c *Club) Summarize() Summary {
	return Summary{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CurrentBook: c.CurrentBook,
		Genres:      c.Genres,
		MemberCount: len(c.Members),
	}
}
