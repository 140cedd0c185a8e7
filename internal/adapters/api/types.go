package api

import (
	"fmt"

	"bookclub/internal/domain/catalog"
	"bookclub/internal/domain/club"
	"bookclub/internal/domain/user"
)

// Error is a failed backend response. The console collapses every failure
// into a generic per-operation message, but handlers log the real one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// userPayload mirrors the backend's user JSON.
type userPayload struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	CreatedClubs []int  `json:"created_clubs"`
}

func (p userPayload) toDomain() user.User {
	return user.User{ID: p.ID, Username: p.Username, CreatedClubs: p.CreatedClubs}
}

type bookPayload struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url"`
}

func (p bookPayload) toDomain() catalog.Book {
	return catalog.Book{ID: p.ID, Title: p.Title, Author: p.Author, ImageURL: p.ImageURL}
}

type genrePayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (p genrePayload) toDomain() catalog.Genre {
	return catalog.Genre{ID: p.ID, Name: p.Name}
}

type memberPayload struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// clubDetailPayload mirrors GET /manage-club/{id}. The club id is not echoed
// back in the body; the caller fills it in from the request.
type clubDetailPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Members     []memberPayload `json:"members"`
	Genres      []genrePayload  `json:"genres"`
	CurrentBook *bookPayload    `json:"current_book"`
}

func (p clubDetailPayload) toDomain(id int) club.Club {
	c := club.Club{ID: id, Name: p.Name, Description: p.Description}
	for _, m := range p.Members {
		c.Members = append(c.Members, club.Member{ID: m.ID, Username: m.Username})
	}
	for _, g := range p.Genres {
		c.Genres = append(c.Genres, g.toDomain())
	}
	if p.CurrentBook != nil {
		b := p.CurrentBook.toDomain()
		c.CurrentBook = &b
	}
	return c
}

type clubSummaryPayload struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Genres      []genrePayload `json:"genres"`
	CurrentBook *bookPayload   `json:"current_book"`
	MemberCount int            `json:"member_count"`
}

func (p clubSummaryPayload) toDomain() club.Summary {
	s := club.Summary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		MemberCount: p.MemberCount,
	}
	for _, g := range p.Genres {
		s.Genres = append(s.Genres, g.toDomain())
	}
	if p.CurrentBook != nil {
		b := p.CurrentBook.toDomain()
		s.CurrentBook = &b
	}
	return s
}

// managePatch is the shared PATCH body for /manage-club/{id}. The backend
// branches on the action discriminator.
type managePatch struct {
	Action   string `json:"action"`
	BookID   int    `json:"book_id,omitempty"`
	MemberID int    `json:"member_id,omitempty"`
	GenreIDs []int  `json:"genre_ids,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  userPayload `json:"user"`
}

type userResponse struct {
	User userPayload `json:"user"`
}
