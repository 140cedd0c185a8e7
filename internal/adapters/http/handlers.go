package web

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"bookclub/internal/adapters/http/middleware"
	"bookclub/internal/adapters/state"
	"bookclub/internal/application/manage"
	"bookclub/internal/application/registration"
	credentialDomain "bookclub/internal/domain/credential"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

const templatesDir = "internal/adapters/http/templates"

func renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	username := ""
	if ok {
		username = sess.Username
	}

	funcMap := template.FuncMap{
		"currentUsername": func() string { return username },
		"isLoggedIn":      func() bool { return username != "" },
		"csrfToken":       func() string { return csrf.Token(r) },
		"renderMarkdown": func(md string) template.HTML {
			var buf bytes.Buffer
			if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(md))
			}
			return template.HTML(buf.String())
		},
	}

	layoutPath := filepath.Join(templatesDir, "layout.html")
	pagePath := filepath.Join(templatesDir, templateName)
	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFiles(layoutPath, pagePath)
	if err != nil {
		http.Error(w, "Template error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tpl.Execute(w, data); err != nil {
		http.Error(w, "Render error: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// registerRoutes wires the console's routes onto the mux.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", handleIndex)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)
	mux.Handle("/clubs", middleware.RequireAuth(http.HandlerFunc(handleClubs)))
	mux.Handle("/manage", middleware.RequireAuth(http.HandlerFunc(handleManage)))
	mux.Handle("/manage/reading", middleware.RequireAuth(http.HandlerFunc(handleManageReading)))
	mux.Handle("/manage/members/remove", middleware.RequireAuth(http.HandlerFunc(handleManageMemberRemove)))
	mux.Handle("/manage/genres", middleware.RequireAuth(http.HandlerFunc(handleManageGenres)))
	mux.Handle("/manage/genres/toggle", middleware.RequireAuth(http.HandlerFunc(handleManageGenreToggle)))
	mux.Handle("/manage/delete", middleware.RequireAuth(http.HandlerFunc(handleManageDelete)))
}

// handleIndex redirects to the club list or the login page.
func handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
		http.Redirect(w, r, "/clubs", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (credential exchange) for /login.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "login.html", map[string]any{"Error": "", "Email": ""})
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	apiToken, u, err := deps.API.Login(ctx, r.FormValue("Email"), r.FormValue("Password"))
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", r.FormValue("Email"))
		renderTemplate(w, r, "login.html", map[string]any{
			"Error": "Invalid email or password.",
			"Email": r.FormValue("Email"),
		})
		return
	}

	token, err := sessions.Create(apiToken, u.ID, u.Username)
	if err != nil {
		internalError(w, err)
		return
	}

	// Persist the token pair so the session survives a console restart.
	cred := credentialDomain.Credential{
		SessionToken: token,
		APIToken:     apiToken,
		UserID:       u.ID,
		Username:     u.Username,
		CreatedAt:    timeNow(),
	}
	if err := deps.CredentialStore.Save(ctx, cred); err != nil {
		slog.Error("auth_event", "event", "credential_save_failed", "user_id", u.ID, "error", err.Error())
	}

	middleware.SetSessionCookie(w, token)
	slog.Info("auth_event", "event", "login_success", "user_id", u.ID, "username", u.Username)
	http.Redirect(w, r, "/clubs", http.StatusSeeOther)
}

// handleLogout drops the session, its manager, and the persisted credential.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sess, ok := middleware.GetSessionFromContext(r.Context()); ok {
		sessions.Delete(sess.Token)
		deps.Registry.Remove(sess.Token)
		if err := deps.CredentialStore.Delete(r.Context(), sess.Token); err != nil {
			slog.Error("auth_event", "event", "credential_delete_failed", "error", err.Error())
		}
		slog.Info("auth_event", "event", "logout", "user_id", sess.UserID)
	}
	middleware.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (submission) for /register.
// Validation failures never reach the backend; the form shows one combined
// message. On success the user lands back on the login page.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == "GET" {
		renderTemplate(w, r, "register.html", map[string]any{"Error": "", "Username": "", "Email": ""})
		return
	}
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}

	input := registration.Input{
		Username: r.FormValue("Username"),
		Email:    r.FormValue("Email"),
		Password: r.FormValue("Password"),
	}
	err := registration.ExecuteRegister(r.Context(), input, registration.Deps{API: deps.API})
	if err != nil {
		renderTemplate(w, r, "register.html", map[string]any{
			"Error":    err.Error(),
			"Username": input.Username,
			"Email":    input.Email,
		})
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleClubs renders the shared club directory. The directory is seeded
// from the backend on the first authenticated visit and kept in sync by the
// managers afterwards.
func handleClubs(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	if deps.Directory.Len() == 0 {
		clubs, err := deps.API.WithToken(sess.APIToken).Clubs(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		deps.Directory.Replace(clubs)
	}

	renderTemplate(w, r, "clubs.html", map[string]any{
		"Clubs": deps.Directory.List(),
	})
}

// managerFor returns the session's club manager, building it on first use:
// the user record is refreshed from the backend, the catalogs are loaded if
// needed, and the manager is bound to the session's bearer token.
func managerFor(ctx context.Context, sess middleware.Session) (*manage.Manager, error) {
	if m, ok := deps.Registry.Get(sess.Token); ok {
		return m, nil
	}

	bound := deps.API.WithToken(sess.APIToken)
	u, err := bound.CheckSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("refresh current user: %w", err)
	}

	if deps.Catalogs.Empty() {
		books, err := bound.Books(ctx)
		if err != nil {
			return nil, fmt.Errorf("load book catalog: %w", err)
		}
		genres, err := bound.Genres(ctx)
		if err != nil {
			return nil, fmt.Errorf("load genre catalog: %w", err)
		}
		deps.Catalogs.Replace(books, genres)
	}

	sessionState := state.NewSession(u)
	return deps.Registry.GetOrCreate(sess.Token, func() *manage.Manager {
		return manage.New(manage.Deps{
			Club:      bound,
			Session:   sessionState,
			Directory: deps.Directory,
			Catalogs:  deps.Catalogs,
		})
	}), nil
}

// bookRow and genreRow are render rows for the manage page selectors.
type bookRow struct {
	ID       int
	Title    string
	Author   string
	Selected bool
}

type genreRow struct {
	ID       int
	Name     string
	Selected bool
}

// handleManage renders the club manager view. Until the club detail has
// loaded the page shows a loading placeholder exclusively; a failed load
// stays there with a generic error and no retry surface.
func handleManage(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx := r.Context()
	sess, _ := middleware.GetSessionFromContext(ctx)

	mgr, err := managerFor(ctx, sess)
	if err != nil {
		internalError(w, err)
		return
	}
	mgr.Load(ctx)
	view := mgr.Snapshot()

	var books []bookRow
	for _, b := range deps.Catalogs.Books() {
		books = append(books, bookRow{
			ID:       b.ID,
			Title:    b.Title,
			Author:   b.Author,
			Selected: b.ID == view.SelectedBookID,
		})
	}
	selected := make(map[int]bool, len(view.SelectedGenres))
	for _, id := range view.SelectedGenres {
		selected[id] = true
	}
	var genres []genreRow
	for _, g := range deps.Catalogs.Genres() {
		genres = append(genres, genreRow{ID: g.ID, Name: g.Name, Selected: selected[g.ID]})
	}

	renderTemplate(w, r, "manage_club.html", map[string]any{
		"View":   view,
		"Books":  books,
		"Genres": genres,
	})
}

// sessionManager fetches the existing manager for a mutation request.
// A missing manager (expired session, restarted console) bounces back to
// the manage page, which rebuilds it.
func sessionManager(w http.ResponseWriter, r *http.Request) (*manage.Manager, bool) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return nil, false
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	mgr, ok := deps.Registry.Get(sess.Token)
	if !ok {
		http.Redirect(w, r, "/manage", http.StatusSeeOther)
		return nil, false
	}
	return mgr, true
}

// handleManageReading handles POST /manage/reading.
func handleManageReading(w http.ResponseWriter, r *http.Request) {
	mgr, ok := sessionManager(w, r)
	if !ok {
		return
	}
	if bookID, err := strconv.Atoi(r.FormValue("book_id")); err == nil && bookID > 0 {
		mgr.SelectBook(bookID)
	}
	mgr.UpdateCurrentReading(r.Context())
	http.Redirect(w, r, "/manage", http.StatusSeeOther)
}

// handleManageMemberRemove handles POST /manage/members/remove.
func handleManageMemberRemove(w http.ResponseWriter, r *http.Request) {
	mgr, ok := sessionManager(w, r)
	if !ok {
		return
	}
	memberID, err := strconv.Atoi(r.FormValue("member_id"))
	if err != nil {
		http.Error(w, "member_id is required", http.StatusBadRequest)
		return
	}
	mgr.RemoveMember(r.Context(), memberID)
	http.Redirect(w, r, "/manage", http.StatusSeeOther)
}

// handleManageGenres handles POST /manage/genres.
func handleManageGenres(w http.ResponseWriter, r *http.Request) {
	mgr, ok := sessionManager(w, r)
	if !ok {
		return
	}
	mgr.UpdateGenres(r.Context())
	http.Redirect(w, r, "/manage", http.StatusSeeOther)
}

// handleManageGenreToggle handles POST /manage/genres/toggle. Local only;
// no backend request is issued.
func handleManageGenreToggle(w http.ResponseWriter, r *http.Request) {
	mgr, ok := sessionManager(w, r)
	if !ok {
		return
	}
	genreID, err := strconv.Atoi(r.FormValue("genre_id"))
	if err != nil {
		http.Error(w, "genre_id is required", http.StatusBadRequest)
		return
	}
	mgr.ToggleGenre(genreID)
	http.Redirect(w, r, "/manage", http.StatusSeeOther)
}

// handleManageDelete handles POST /manage/delete. On success the manager is
// dropped (the view unmount) and the user lands on the club list.
func handleManageDelete(w http.ResponseWriter, r *http.Request) {
	mgr, ok := sessionManager(w, r)
	if !ok {
		return
	}
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if mgr.DeleteClub(r.Context()) {
		deps.Registry.Remove(sess.Token)
		http.Redirect(w, r, "/clubs", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/manage", http.StatusSeeOther)
}
