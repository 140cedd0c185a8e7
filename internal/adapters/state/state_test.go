package state_test

import (
	"reflect"
	"testing"

	"bookclub/internal/adapters/state"
	"bookclub/internal/domain/catalog"
	"bookclub/internal/domain/club"
	"bookclub/internal/domain/user"
)

// TestSession_CurrentUser_ReturnsCopy verifies callers cannot mutate the
// stored record through the returned value.
func TestSession_CurrentUser_ReturnsCopy(t *testing.T) {
	s := state.NewSession(user.User{ID: 1, Username: "avery", CreatedClubs: []int{1, 2}})

	u, ok := s.CurrentUser()
	if !ok {
		t.Fatal("CurrentUser() = not set")
	}
	u.CreatedClubs[0] = 99

	again, _ := s.CurrentUser()
	if !reflect.DeepEqual(again.CreatedClubs, []int{1, 2}) {
		t.Errorf("stored CreatedClubs = %v, want untouched [1 2]", again.CreatedClubs)
	}
}

// TestSession_RemoveOwnedClub tests owned-club removal after a deletion.
func TestSession_RemoveOwnedClub(t *testing.T) {
	s := state.NewSession(user.User{ID: 1, CreatedClubs: []int{4, 7}})

	s.RemoveOwnedClub(4)

	u, _ := s.CurrentUser()
	if !reflect.DeepEqual(u.CreatedClubs, []int{7}) {
		t.Errorf("CreatedClubs = %v, want [7]", u.CreatedClubs)
	}
}

// TestDirectory_Merge tests replace-in-place and append semantics.
func TestDirectory_Merge(t *testing.T) {
	d := state.NewDirectory()
	d.Replace([]club.Summary{
		{ID: 1, Name: "Paper & Ink", MemberCount: 3},
		{ID: 2, Name: "Night Owls", MemberCount: 5},
	})

	t.Run("known id replaced in place", func(t *testing.T) {
		d.Merge(club.Club{ID: 1, Name: "Paper & Ink", Members: []club.Member{{ID: 2}}})

		got := d.List()
		if len(got) != 2 {
			t.Fatalf("List() has %d entries, want 2", len(got))
		}
		if got[0].ID != 1 || got[0].MemberCount != 1 {
			t.Errorf("entry 0 = %+v, want id 1 with member count 1", got[0])
		}
		if got[1].ID != 2 {
			t.Errorf("order changed: %+v", got)
		}
	})

	t.Run("unknown id appended", func(t *testing.T) {
		d.Merge(club.Club{ID: 9, Name: "Margin Notes"})
		got := d.List()
		if len(got) != 3 || got[2].ID != 9 {
			t.Errorf("List() = %+v, want club 9 appended", got)
		}
	})
}

// TestDirectory_List_ReturnsCopy verifies the returned slice is detached.
func TestDirectory_List_ReturnsCopy(t *testing.T) {
	d := state.NewDirectory()
	d.Replace([]club.Summary{{ID: 1, Name: "Paper & Ink"}})

	got := d.List()
	got[0].Name = "Hijacked"

	if d.List()[0].Name != "Paper & Ink" {
		t.Error("List() exposed the internal slice")
	}
}

// TestCatalogs tests reference-list replacement and the loaded check.
func TestCatalogs(t *testing.T) {
	c := state.NewCatalogs()
	if !c.Empty() {
		t.Error("new catalogs should be empty")
	}

	c.Replace(
		catalog.Books{{ID: 1, Title: "Kindred"}},
		catalog.Genres{{ID: 5, Name: "Sci-Fi"}},
	)
	if c.Empty() {
		t.Error("catalogs still empty after Replace")
	}
	if books := c.Books(); len(books) != 1 || books[0].Title != "Kindred" {
		t.Errorf("Books() = %+v", books)
	}
	if genres := c.Genres(); len(genres) != 1 || genres[0].Name != "Sci-Fi" {
		t.Errorf("Genres() = %+v", genres)
	}
}
