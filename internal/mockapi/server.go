// Package mockapi is an in-memory stand-in for the external Book Club REST
// backend. It speaks the same wire contract as the real service — bearer
// tokens, an action-discriminated PATCH endpoint, {"error": ...} failures —
// and is used by the mockapi binary, handler tests, and browser tests.
package mockapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bookclub/internal/adapters/email"
	"bookclub/internal/domain/catalog"
	"bookclub/internal/domain/club"
	"bookclub/internal/domain/signup"
)

type userRecord struct {
	ID           int
	Username     string
	Email        string
	PasswordHash []byte
	CreatedClubs []int
}

type clubRecord struct {
	ID            int
	Name          string
	Description   string
	CreatedBy     int
	CurrentBookID int
	MemberIDs     []int
	GenreIDs      []int
}

// Server holds the mock backend's state behind one RWMutex.
type Server struct {
	mu           sync.RWMutex
	users        map[int]*userRecord
	usersByEmail map[string]int
	tokens       map[string]int
	clubs        map[int]*clubRecord
	books        catalog.Books
	genres       catalog.Genres
	nextUserID   int
	nextClubID   int

	emailSender email.Sender
	emailFrom   string
}

// New creates an empty mock backend.
func New() *Server {
	return &Server{
		users:        make(map[int]*userRecord),
		usersByEmail: make(map[string]int),
		tokens:       make(map[string]int),
		clubs:        make(map[int]*clubRecord),
		nextUserID:   1,
		nextClubID:   1,
	}
}

// SetEmailSender configures the sender used for welcome mail on registration.
func (s *Server) SetEmailSender(sender email.Sender, from string) {
	s.emailSender = sender
	s.emailFrom = from
}

// Handler returns the mock backend's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /users", s.handleRegister)
	mux.HandleFunc("GET /check_session", s.handleCheckSession)
	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /genres", s.handleGenres)
	mux.HandleFunc("GET /clubs", s.handleClubs)
	mux.HandleFunc("GET /manage-club/{id}", s.handleClubDetail)
	mux.HandleFunc("PATCH /manage-club/{id}", s.handleClubPatch)
	mux.HandleFunc("DELETE /manage-club/{id}", s.handleClubDelete)
	return mux
}

// --- Auth endpoints ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByEmail[strings.ToLower(body.Email)]
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	u := s.users[id]
	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(body.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token := uuid.New().String()
	s.tokens[token] = u.ID
	slog.Info("mockapi_event", "event", "login", "user_id", u.ID)
	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  s.userJSON(u),
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The backend enforces the same field rules the console validates
	// client-side.
	req := signup.Signup{Username: body.Username, Email: body.Email, Password: body.Password}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	s.mu.Lock()
	if _, exists := s.usersByEmail[strings.ToLower(body.Email)]; exists {
		s.mu.Unlock()
		writeError(w, http.StatusUnprocessableEntity, "email is already taken")
		return
	}
	for _, u := range s.users {
		if u.Username == body.Username {
			s.mu.Unlock()
			writeError(w, http.StatusUnprocessableEntity, "username is already taken")
			return
		}
	}

	u := &userRecord{
		ID:           s.nextUserID,
		Username:     body.Username,
		Email:        strings.ToLower(body.Email),
		PasswordHash: hash,
	}
	s.nextUserID++
	s.users[u.ID] = u
	s.usersByEmail[u.Email] = u.ID

	token := uuid.New().String()
	s.tokens[token] = u.ID
	payload := s.userJSON(u)
	s.mu.Unlock()

	if s.emailSender != nil {
		_, sendErr := s.emailSender.Send(r.Context(), email.SendRequest{
			To:      []string{u.Email},
			From:    s.emailFrom,
			Subject: "Welcome to Book Club",
			HTML:    "<p>Hi " + u.Username + ", your account is ready. Happy reading!</p>",
		})
		if sendErr != nil {
			slog.Error("mockapi_event", "event", "welcome_email_failed", "user_id", u.ID, "error", sendErr.Error())
		}
	}

	slog.Info("mockapi_event", "event", "registered", "user_id", u.ID, "username", u.Username)
	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  payload,
	})
}

func (s *Server) handleCheckSession(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.authedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": s.userJSON(u)})
}

// --- Catalog and directory endpoints ---

func (s *Server) handleBooks(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]any, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, bookJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenres(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]map[string]any, 0, len(s.genres))
	for _, g := range s.genres {
		out = append(out, map[string]any{"id": g.ID, "name": g.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleClubs(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.authedUser(r); !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return
	}

	out := make([]map[string]any, 0, len(s.clubs))
	for id := 1; id < s.nextClubID; id++ {
		c, ok := s.clubs[id]
		if !ok {
			continue
		}
		entry := map[string]any{
			"id":           c.ID,
			"name":         c.Name,
			"description":  c.Description,
			"genres":       s.genreListJSON(c.GenreIDs),
			"member_count": len(c.MemberIDs),
		}
		if b, ok := s.books.FindByID(c.CurrentBookID); ok {
			entry["current_book"] = bookJSON(b)
		}
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

// --- Manage-club endpoints ---

func (s *Server) handleClubDetail(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.ownedClub(w, r)
	if !ok {
		return
	}

	members := make([]map[string]any, 0, len(c.MemberIDs))
	for _, id := range c.MemberIDs {
		if u, ok := s.users[id]; ok {
			members = append(members, map[string]any{"id": u.ID, "username": u.Username})
		}
	}
	detail := map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"members":     members,
		"genres":      s.genreListJSON(c.GenreIDs),
	}
	if b, ok := s.books.FindByID(c.CurrentBookID); ok {
		detail["current_book"] = bookJSON(b)
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleClubPatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action   string `json:"action"`
		BookID   int    `json:"book_id"`
		MemberID int    `json:"member_id"`
		GenreIDs []int  `json:"genre_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedClub(w, r)
	if !ok {
		return
	}

	switch body.Action {
	case "update_current_reading":
		if _, ok := s.books.FindByID(body.BookID); !ok {
			writeError(w, http.StatusUnprocessableEntity, "book not found")
			return
		}
		c.CurrentBookID = body.BookID
		writeJSON(w, http.StatusOK, map[string]any{"message": "Current reading updated"})

	case "remove_member":
		for i, id := range c.MemberIDs {
			if id == body.MemberID {
				c.MemberIDs = append(c.MemberIDs[:i], c.MemberIDs[i+1:]...)
				writeJSON(w, http.StatusOK, map[string]any{"message": "Member removed"})
				return
			}
		}
		writeError(w, http.StatusUnprocessableEntity, "member is not in the club")

	case "update_genres":
		if err := club.ValidateGenreCount(len(body.GenreIDs)); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		for _, id := range body.GenreIDs {
			if _, ok := s.genres.FindByID(id); !ok {
				writeError(w, http.StatusUnprocessableEntity, "genre not found")
				return
			}
		}
		c.GenreIDs = append([]int(nil), body.GenreIDs...)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Genres updated"})

	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (s *Server) handleClubDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.ownedClub(w, r)
	if !ok {
		return
	}

	delete(s.clubs, c.ID)
	if creator, ok := s.users[c.CreatedBy]; ok {
		for i, id := range creator.CreatedClubs {
			if id == c.ID {
				creator.CreatedClubs = append(creator.CreatedClubs[:i], creator.CreatedClubs[i+1:]...)
				break
			}
		}
	}
	slog.Info("mockapi_event", "event", "club_deleted", "club_id", c.ID)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Club deleted"})
}

// --- Helpers ---

// ownedClub resolves the {id} path segment and enforces creator-only access.
// Callers must hold the mutex. Writes the error response on failure.
func (s *Server) ownedClub(w http.ResponseWriter, r *http.Request) (*clubRecord, bool) {
	u, ok := s.authedUser(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authorized")
		return nil, false
	}
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid club id")
		return nil, false
	}
	c, ok := s.clubs[id]
	if !ok {
		writeError(w, http.StatusNotFound, "club not found")
		return nil, false
	}
	if c.CreatedBy != u.ID {
		writeError(w, http.StatusForbidden, "only the club creator can manage the club")
		return nil, false
	}
	return c, true
}

func (s *Server) authedUser(r *http.Request) (*userRecord, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}
	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	u, ok := s.users[id]
	return u, ok
}

func (s *Server) userJSON(u *userRecord) map[string]any {
	return map[string]any{
		"id":            u.ID,
		"username":      u.Username,
		"created_clubs": append([]int(nil), u.CreatedClubs...),
	}
}

func (s *Server) genreListJSON(ids []int) []map[string]any {
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		if g, ok := s.genres.FindByID(id); ok {
			out = append(out, map[string]any{"id": g.ID, "name": g.Name})
		}
	}
	return out
}

func bookJSON(b catalog.Book) map[string]any {
	return map[string]any{
		"id":        b.ID,
		"title":     b.Title,
		"author":    b.Author,
		"image_url": b.ImageURL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
