package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bookclub/internal/domain/catalog"
	"bookclub/internal/domain/club"
	"bookclub/internal/domain/user"
)

// defaultTimeout bounds every backend round trip. Operations have no
// cancellation of their own beyond this ambient client timeout.
const defaultTimeout = 10 * time.Second

// Client is a typed REST client for the Book Club backend. A zero-token
// client can only call the public endpoints (login, register); WithToken
// returns a copy bound to a bearer token for the authenticated ones.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// WithToken returns a copy of the client that sends the given bearer token
// on every request.
func (c *Client) WithToken(token string) *Client {
	bound := *c
	bound.token = token
	return &bound
}

// do issues one request and decodes the response into out (if non-nil).
// Non-2xx responses are returned as *Error with the backend's error text.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
			payload.Error = resp.Status
		}
		return &Error{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Login exchanges credentials for a bearer token and the user record.
func (c *Client) Login(ctx context.Context, email, password string) (string, user.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", body, &resp); err != nil {
		return "", user.User{}, err
	}
	return resp.Token, resp.User.toDomain(), nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, username, email, password string) (user.User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp userResponse
	if err := c.do(ctx, http.MethodPost, "/users", body, &resp); err != nil {
		return user.User{}, err
	}
	return resp.User.toDomain(), nil
}

// CheckSession returns the user record for the client's bearer token.
func (c *Client) CheckSession(ctx context.Context) (user.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/check_session", nil, &resp); err != nil {
		return user.User{}, err
	}
	return resp.User.toDomain(), nil
}

// Books fetches the book catalog.
func (c *Client) Books(ctx context.Context) (catalog.Books, error) {
	var payload []bookPayload
	if err := c.do(ctx, http.MethodGet, "/books", nil, &payload); err != nil {
		return nil, err
	}
	books := make(catalog.Books, 0, len(payload))
	for _, p := range payload {
		books = append(books, p.toDomain())
	}
	return books, nil
}

// Genres fetches the genre catalog.
func (c *Client) Genres(ctx context.Context) (catalog.Genres, error) {
	var payload []genrePayload
	if err := c.do(ctx, http.MethodGet, "/genres", nil, &payload); err != nil {
		return nil, err
	}
	genres := make(catalog.Genres, 0, len(payload))
	for _, p := range payload {
		genres = append(genres, p.toDomain())
	}
	return genres, nil
}

// Clubs fetches the club summaries for the directory.
func (c *Client) Clubs(ctx context.Context) ([]club.Summary, error) {
	var payload []clubSummaryPayload
	if err := c.do(ctx, http.MethodGet, "/clubs", nil, &payload); err != nil {
		return nil, err
	}
	clubs := make([]club.Summary, 0, len(payload))
	for _, p := range payload {
		clubs = append(clubs, p.toDomain())
	}
	return clubs, nil
}

// ClubDetail fetches the full detail of one administered club.
func (c *Client) ClubDetail(ctx context.Context, clubID int) (club.Club, error) {
	var payload clubDetailPayload
	path := fmt.Sprintf("/manage-club/%d", clubID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return club.Club{}, err
	}
	return payload.toDomain(clubID), nil
}

// UpdateCurrentReading asks the backend to set the club's current book.
// POST: returns the backend's confirmation message on success
func (c *Client) UpdateCurrentReading(ctx context.Context, clubID, bookID int) (string, error) {
	return c.patchClub(ctx, clubID, managePatch{Action: "update_current_reading", BookID: bookID})
}

// RemoveMember asks the backend to remove a member from the club.
func (c *Client) RemoveMember(ctx context.Context, clubID, memberID int) (string, error) {
	return c.patchClub(ctx, clubID, managePatch{Action: "remove_member", MemberID: memberID})
}

// UpdateGenres asks the backend to replace the club's genre set.
// PRE: caller has validated 1 <= len(genreIDs) <= 3
func (c *Client) UpdateGenres(ctx context.Context, clubID int, genreIDs []int) (string, error) {
	return c.patchClub(ctx, clubID, managePatch{Action: "update_genres", GenreIDs: genreIDs})
}

// DeleteClub deletes the club resource.
func (c *Client) DeleteClub(ctx context.Context, clubID int) (string, error) {
	var resp messageResponse
	path := fmt.Sprintf("/manage-club/%d", clubID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) patchClub(ctx context.Context, clubID int, body managePatch) (string, error) {
	var resp messageResponse
	path := fmt.Sprintf("/manage-club/%d", clubID)
	if err := c.do(ctx, http.MethodPatch, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
