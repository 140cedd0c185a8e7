package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// recordedRequest captures what the fake backend saw.
type recordedRequest struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// newTestClient spins up a fake backend that answers every request with the
// given status and body, recording what it received.
func newTestClient(t *testing.T, status int, responseBody string) (*Client, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.auth = r.Header.Get("Authorization")
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(responseBody))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL), rec
}

// TestClient_Login tests the credential exchange.
func TestClient_Login(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK,
		`{"token":"tok-123","user":{"id":1,"username":"avery","created_clubs":[1]}}`)

	token, u, err := c.Login(context.Background(), "avery@example.com", "turnthepage")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token != "tok-123" || u.ID != 1 || u.Username != "avery" {
		t.Errorf("Login() = (%q, %+v)", token, u)
	}
	if rec.method != http.MethodPost || rec.path != "/login" {
		t.Errorf("request = %s %s, want POST /login", rec.method, rec.path)
	}
	if rec.body["email"] != "avery@example.com" || rec.body["password"] != "turnthepage" {
		t.Errorf("request body = %v", rec.body)
	}
	if rec.auth != "" {
		t.Errorf("login sent Authorization %q, want none", rec.auth)
	}
}

// TestClient_WithToken verifies the bearer header and that the original
// client stays unbound.
func TestClient_WithToken(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"user":{"id":1,"username":"avery"}}`)
	bound := c.WithToken("tok-123")

	if _, err := bound.CheckSession(context.Background()); err != nil {
		t.Fatalf("CheckSession() error = %v", err)
	}
	if rec.auth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want bearer token", rec.auth)
	}
	if c.token != "" {
		t.Error("WithToken mutated the original client")
	}
}

// TestClient_ClubDetail verifies the detail decode fills the id from the
// request path.
func TestClient_ClubDetail(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{
		"name": "Paper & Ink",
		"description": "A cosy club.",
		"members": [{"id":2,"username":"morgan"}],
		"genres": [{"id":5,"name":"Sci-Fi"}],
		"current_book": {"id":3,"title":"Station Eleven","author":"Emily St. John Mandel","image_url":""}
	}`)

	detail, err := c.WithToken("tok").ClubDetail(context.Background(), 9)
	if err != nil {
		t.Fatalf("ClubDetail() error = %v", err)
	}
	if rec.method != http.MethodGet || rec.path != "/manage-club/9" {
		t.Errorf("request = %s %s, want GET /manage-club/9", rec.method, rec.path)
	}
	if detail.ID != 9 {
		t.Errorf("detail.ID = %d, want id from request path", detail.ID)
	}
	if detail.Name != "Paper & Ink" || len(detail.Members) != 1 || len(detail.Genres) != 1 {
		t.Errorf("detail = %+v", detail)
	}
	if detail.CurrentBook == nil || detail.CurrentBook.Title != "Station Eleven" {
		t.Errorf("detail.CurrentBook = %+v", detail.CurrentBook)
	}
}

// TestClient_PatchActions verifies each mutation sends the right action
// discriminator and only its own field.
func TestClient_PatchActions(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *Client) (string, error)
		wantBody map[string]any
	}{
		{
			name: "update current reading",
			call: func(c *Client) (string, error) {
				return c.UpdateCurrentReading(context.Background(), 1, 42)
			},
			wantBody: map[string]any{"action": "update_current_reading", "book_id": float64(42)},
		},
		{
			name: "remove member",
			call: func(c *Client) (string, error) {
				return c.RemoveMember(context.Background(), 1, 7)
			},
			wantBody: map[string]any{"action": "remove_member", "member_id": float64(7)},
		},
		{
			name: "update genres",
			call: func(c *Client) (string, error) {
				return c.UpdateGenres(context.Background(), 1, []int{5, 6})
			},
			wantBody: map[string]any{"action": "update_genres", "genre_ids": []any{float64(5), float64(6)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestClient(t, http.StatusOK, `{"message":"ok"}`)
			msg, err := tt.call(c.WithToken("tok"))
			if err != nil {
				t.Fatalf("call error = %v", err)
			}
			if msg != "ok" {
				t.Errorf("message = %q, want %q", msg, "ok")
			}
			if rec.method != http.MethodPatch || rec.path != "/manage-club/1" {
				t.Errorf("request = %s %s, want PATCH /manage-club/1", rec.method, rec.path)
			}
			if !reflect.DeepEqual(rec.body, tt.wantBody) {
				t.Errorf("body = %v, want %v", rec.body, tt.wantBody)
			}
		})
	}
}

// TestClient_DeleteClub tests the delete request shape.
func TestClient_DeleteClub(t *testing.T) {
	c, rec := newTestClient(t, http.StatusOK, `{"message":"Club deleted"}`)

	msg, err := c.WithToken("tok").DeleteClub(context.Background(), 4)
	if err != nil {
		t.Fatalf("DeleteClub() error = %v", err)
	}
	if msg != "Club deleted" {
		t.Errorf("message = %q", msg)
	}
	if rec.method != http.MethodDelete || rec.path != "/manage-club/4" {
		t.Errorf("request = %s %s, want DELETE /manage-club/4", rec.method, rec.path)
	}
}

// TestClient_ErrorMapping verifies non-2xx responses surface as *Error with
// the backend's error text.
func TestClient_ErrorMapping(t *testing.T) {
	t.Run("json error body", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusForbidden, `{"error":"not your club"}`)
		_, err := c.WithToken("tok").DeleteClub(context.Background(), 4)
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *Error", err)
		}
		if apiErr.Status != http.StatusForbidden || apiErr.Message != "not your club" {
			t.Errorf("*Error = %+v", apiErr)
		}
	})

	t.Run("non-json body falls back to status text", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusBadGateway, `upstream exploded`)
		_, err := c.Clubs(context.Background())
		var apiErr *Error
		if !errors.As(err, &apiErr) {
			t.Fatalf("error = %v, want *Error", err)
		}
		if apiErr.Status != http.StatusBadGateway || apiErr.Message == "" {
			t.Errorf("*Error = %+v", apiErr)
		}
	})
}

// TestClient_Catalogs tests list decoding for books and genres.
func TestClient_Catalogs(t *testing.T) {
	t.Run("books", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusOK,
			`[{"id":1,"title":"Kindred","author":"Octavia Butler","image_url":"https://img/1.jpg"}]`)
		books, err := c.WithToken("tok").Books(context.Background())
		if err != nil {
			t.Fatalf("Books() error = %v", err)
		}
		if len(books) != 1 || books[0].Title != "Kindred" || books[0].ImageURL != "https://img/1.jpg" {
			t.Errorf("Books() = %+v", books)
		}
	})

	t.Run("clubs", func(t *testing.T) {
		c, _ := newTestClient(t, http.StatusOK,
			`[{"id":1,"name":"Paper & Ink","description":"d","genres":[{"id":5,"name":"Sci-Fi"}],"current_book":null,"member_count":3}]`)
		clubs, err := c.WithToken("tok").Clubs(context.Background())
		if err != nil {
			t.Fatalf("Clubs() error = %v", err)
		}
		if len(clubs) != 1 || clubs[0].MemberCount != 3 || clubs[0].CurrentBook != nil {
			t.Errorf("Clubs() = %+v", clubs)
		}
	})
}
