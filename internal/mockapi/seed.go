package mockapi

import (
	"golang.org/x/crypto/bcrypt"

	"bookclub/internal/domain/catalog"
)

// Seed account used by local development and the end-to-end tests.
const (
	SeedOwnerUsername = "avery"
	SeedOwnerEmail    = "avery@example.com"
	SeedOwnerPassword = "turnthepage"
	SeedClubID        = 1
)

// Seed loads a ready-made catalog, three users, and two clubs so the console
// works immediately against a fresh mock backend.
// POST: the seed owner administers club 1 with two members and two genres
func (s *Server) Seed() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = catalog.Books{
		{ID: 1, Title: "The Dispossessed", Author: "Ursula K. Le Guin", ImageURL: "https://covers.example.com/dispossessed.jpg"},
		{ID: 2, Title: "Kindred", Author: "Octavia E. Butler", ImageURL: "https://covers.example.com/kindred.jpg"},
		{ID: 3, Title: "Station Eleven", Author: "Emily St. John Mandel", ImageURL: "https://covers.example.com/station-eleven.jpg"},
		{ID: 4, Title: "The Remains of the Day", Author: "Kazuo Ishiguro", ImageURL: "https://covers.example.com/remains.jpg"},
		{ID: 5, Title: "Piranesi", Author: "Susanna Clarke", ImageURL: "https://covers.example.com/piranesi.jpg"},
		{ID: 6, Title: "Beloved", Author: "Toni Morrison", ImageURL: "https://covers.example.com/beloved.jpg"},
	}
	s.genres = catalog.Genres{
		{ID: 1, Name: "Sci-Fi"},
		{ID: 2, Name: "Drama"},
		{ID: 3, Name: "Mystery"},
		{ID: 4, Name: "Romance"},
		{ID: 5, Name: "History"},
		{ID: 6, Name: "Fantasy"},
	}

	seedUsers := []struct {
		username string
		email    string
		password string
	}{
		{SeedOwnerUsername, SeedOwnerEmail, SeedOwnerPassword},
		{"morgan", "morgan@example.com", "paperback"},
		{"sam", "sam@example.com", "hardcover"},
	}
	for _, su := range seedUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u := &userRecord{
			ID:           s.nextUserID,
			Username:     su.username,
			Email:        su.email,
			PasswordHash: hash,
		}
		s.nextUserID++
		s.users[u.ID] = u
		s.usersByEmail[u.Email] = u.ID
	}

	s.clubs[1] = &clubRecord{
		ID:            1,
		Name:          "Paper & Ink",
		Description:   "A cosy club for **literary fiction** with the occasional sci-fi detour.",
		CreatedBy:     1,
		CurrentBookID: 3,
		MemberIDs:     []int{2, 3},
		GenreIDs:      []int{1, 2},
	}
	s.clubs[2] = &clubRecord{
		ID:            2,
		Name:          "Night Owls",
		Description:   "Late-night mysteries, read one chapter at a time.",
		CreatedBy:     2,
		CurrentBookID: 5,
		MemberIDs:     []int{1, 3},
		GenreIDs:      []int{3},
	}
	s.nextClubID = 3

	s.users[1].CreatedClubs = []int{1}
	s.users[2].CreatedClubs = []int{2}

	return nil
}
