package club_test

import (
	"reflect"
	"testing"

	"bookclub/internal/domain/catalog"
	"bookclub/internal/domain/club"
)

// TestValidateGenreCount tests the genre tag limits.
func TestValidateGenreCount(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr error
	}{
		{name: "zero genres", count: 0, wantErr: club.ErrNoGenres},
		{name: "one genre", count: 1, wantErr: nil},
		{name: "three genres", count: 3, wantErr: nil},
		{name: "four genres", count: 4, wantErr: club.ErrTooManyGenres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := club.ValidateGenreCount(tt.count); err != tt.wantErr {
				t.Errorf("ValidateGenreCount(%d) = %v, want %v", tt.count, err, tt.wantErr)
			}
		})
	}
}

// TestClub_RemoveMember tests member removal with order preservation.
func TestClub_RemoveMember(t *testing.T) {
	t.Run("removes member and preserves order", func(t *testing.T) {
		c := club.Club{ID: 1, Members: []club.Member{
			{ID: 10, Username: "avery"},
			{ID: 11, Username: "morgan"},
			{ID: 12, Username: "sam"},
		}}
		if err := c.RemoveMember(11); err != nil {
			t.Fatalf("RemoveMember(11) error = %v", err)
		}
		want := []club.Member{{ID: 10, Username: "avery"}, {ID: 12, Username: "sam"}}
		if !reflect.DeepEqual(c.Members, want) {
			t.Errorf("Members = %v, want %v", c.Members, want)
		}
	})

	t.Run("unknown member", func(t *testing.T) {
		c := club.Club{ID: 1, Members: []club.Member{{ID: 10, Username: "avery"}}}
		if err := c.RemoveMember(99); err != club.ErrMemberNotFound {
			t.Errorf("RemoveMember(99) error = %v, want ErrMemberNotFound", err)
		}
		if len(c.Members) != 1 {
			t.Errorf("member list changed on failed removal: %v", c.Members)
		}
	})
}

// TestClub_GenreIDs tests genre id projection.
func TestClub_GenreIDs(t *testing.T) {
	c := club.Club{Genres: []catalog.Genre{{ID: 5, Name: "Sci-Fi"}, {ID: 6, Name: "Drama"}}}
	if got := c.GenreIDs(); !reflect.DeepEqual(got, []int{5, 6}) {
		t.Errorf("GenreIDs() = %v, want [5 6]", got)
	}
}

// TestClub_Summarize tests the directory projection.
func TestClub_Summarize(t *testing.T) {
	book := catalog.Book{ID: 3, Title: "Station Eleven"}
	c := club.Club{
		ID:          1,
		Name:        "Paper & Ink",
		Description: "A cosy club.",
		CurrentBook: &book,
		Members:     []club.Member{{ID: 2}, {ID: 3}},
		Genres:      []catalog.Genre{{ID: 1, Name: "Sci-Fi"}},
	}
	s := c.Summarize()
	if s.ID != 1 || s.Name != "Paper & Ink" || s.MemberCount != 2 {
		t.Errorf("Summarize() = %+v", s)
	}
	if s.CurrentBook == nil || s.CurrentBook.ID != 3 {
		t.Errorf("Summarize() current book = %v, want id 3", s.CurrentBook)
	}
	if len(s.Genres) != 1 || s.Genres[0].Name != "Sci-Fi" {
		t.Errorf("Summarize() genres = %v", s.Genres)
	}
}
