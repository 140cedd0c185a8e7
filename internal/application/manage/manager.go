package manage

import (
	"context"
	"log/slog"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"bookclub/internal/domain/catalog"
	"bookclub/internal/domain/club"
	"bookclub/internal/domain/user"
)

// ClubService is the backend surface the manager needs: one read and four
// mutations against a single club resource.
type ClubService interface {
	ClubDetail(ctx context.Context, clubID int) (club.Club, error)
	UpdateCurrentReading(ctx context.Context, clubID, bookID int) (string, error)
	RemoveMember(ctx context.Context, clubID, memberID int) (string, error)
	UpdateGenres(ctx context.Context, clubID int, genreIDs []int) (string, error)
	DeleteClub(ctx context.Context, clubID int) (string, error)
}

// SessionState reads the current user and removes an owned club id after a
// deletion.
type SessionState interface {
	CurrentUser() (user.User, bool)
	RemoveOwnedClub(id int)
}

// ClubDirectory receives the merged club state after every successful
// mutation so other views stay consistent.
type ClubDirectory interface {
	Merge(c club.Club)
}

// CatalogSource supplies the read-only book and genre reference lists.
type CatalogSource interface {
	Books() catalog.Books
	Genres() catalog.Genres
}

// Deps holds dependencies for a Manager.
type Deps struct {
	Club      ClubService
	Session   SessionState
	Directory ClubDirectory
	Catalogs  CatalogSource
}

// Generic per-operation messages. The view makes no distinction between
// network, authorization, and server-side validation failures.
const (
	msgLoadFailed          = "Failed to load club details."
	msgNoBookSelected      = "Select a book to set as the current reading."
	msgUpdateReadingFailed = "Failed to update the current reading."
	msgRemoveMemberFailed  = "Failed to remove the member."
	msgEmptyGenreSelection = "Select at least one genre."
	msgUpdateGenresFailed  = "Failed to update genres."
	msgDeleteFailed        = "Failed to delete the club."
)

// Manager is the single point of control for one club administered by the
// current user: the first id in the user's owned-club list. It keeps a local
// snapshot of the club plus ephemeral selection state, and updates both only
// after a successful backend round trip — never optimistically.
//
// The mutex guards the snapshot for memory safety only. Backend calls run
// outside the lock, so overlapping identical submissions still both fire;
// last writer wins when they resolve out of order.
type Manager struct {
	deps   Deps
	clubID int

	mu             sync.Mutex
	loaded         bool
	loadFailed     bool
	club           club.Club
	selectedBookID int
	selectedGenres mapset.Set[int]
	status         string
	errMsg         string
}

// View is a render-ready snapshot of the manager's state.
type View struct {
	HasClub        bool
	Loaded         bool
	LoadFailed     bool
	Club           club.Club
	SelectedBookID int
	SelectedGenres []int
	Status         string
	Error          string
}

// New creates a manager for the current user's first owned club. If the user
// owns no club the manager stays permanently un-loaded.
func New(deps Deps) *Manager {
	m := &Manager{
		deps:           deps,
		selectedGenres: mapset.NewSet[int](),
	}
	if u, ok := deps.Session.CurrentUser(); ok {
		if id, owns := u.FirstOwnedClub(); owns {
			m.clubID = id
		}
	}
	return m
}

// ClubID returns the id of the club this manager controls (0 if none).
func (m *Manager) ClubID() int {
	return m.clubID
}

// Load fetches the club's full detail and seeds the snapshot, member list,
// and genre selection from the response. A failed load is terminal: the view
// stays on its loading placeholder with a generic error and no retry.
// POST: on success the selection set equals exactly the response's genre ids
func (m *Manager) Load(ctx context.Context) {
	m.mu.Lock()
	if m.clubID == 0 || m.loaded || m.loadFailed {
		m.mu.Unlock()
		return
	}
	clubID := m.clubID
	m.mu.Unlock()

	detail, err := m.deps.Club.ClubDetail(ctx, clubID)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		slog.Error("manage_event", "event", "load_failed", "club_id", clubID, "error", err.Error())
		m.loadFailed = true
		m.errMsg = msgLoadFailed
		return
	}
	m.club = detail
	m.selectedGenres = mapset.NewSet(detail.GenreIDs()...)
	m.loaded = true
	slog.Info("manage_event", "event", "club_loaded", "club_id", clubID, "members", len(detail.Members))
}

// SelectBook records the exclusive book choice. The selection is never
// pre-seeded from the club's current book; it reflects only explicit picks.
func (m *Manager) SelectBook(bookID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selectedBookID = bookID
}

// ToggleGenre adds the id to the selection if absent and the cap allows it,
// removes it if present. Local only; no request is issued.
// POST: a selected id is always removed; an unselected id is added iff the
// selection held fewer than three ids
func (m *Manager) ToggleGenre(genreID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectedGenres.Contains(genreID) {
		m.selectedGenres.Remove(genreID)
		return
	}
	if m.selectedGenres.Cardinality() >= club.MaxGenres {
		return
	}
	m.selectedGenres.Add(genreID)
}

// UpdateCurrentReading sets the club's current book to the selected one.
// PRE: a book has been selected; otherwise no request is sent
// POST: on success the snapshot's current book is the matching catalog entry
func (m *Manager) UpdateCurrentReading(ctx context.Context) {
	m.mu.Lock()
	if !m.loaded {
		m.mu.Unlock()
		return
	}
	clubID, bookID := m.clubID, m.selectedBookID
	m.mu.Unlock()

	if bookID == 0 {
		m.setError(msgNoBookSelected)
		return
	}

	msg, err := m.deps.Club.UpdateCurrentReading(ctx, clubID, bookID)
	if err != nil {
		slog.Error("manage_event", "event", "reading_update_failed", "club_id", clubID, "book_id", bookID, "error", err.Error())
		m.setError(msgUpdateReadingFailed)
		return
	}

	m.mu.Lock()
	if book, ok := m.deps.Catalogs.Books().FindByID(bookID); ok {
		m.club.CurrentBook = &book
	}
	m.status = msg
	snapshot := m.club
	m.mu.Unlock()

	m.deps.Directory.Merge(snapshot)
	slog.Info("manage_event", "event", "reading_updated", "club_id", clubID, "book_id", bookID)
}

// RemoveMember removes a member from the club.
// POST: on success the member is absent from the snapshot, order preserved,
// and the merged club is pushed into the directory
func (m *Manager) RemoveMember(ctx context.Context, memberID int) {
	m.mu.Lock()
	if !m.loaded {
		m.mu.Unlock()
		return
	}
	clubID := m.clubID
	m.mu.Unlock()

	msg, err := m.deps.Club.RemoveMember(ctx, clubID, memberID)
	if err != nil {
		slog.Error("manage_event", "event", "remove_member_failed", "club_id", clubID, "member_id", memberID, "error", err.Error())
		m.setError(msgRemoveMemberFailed)
		return
	}

	m.mu.Lock()
	_ = m.club.RemoveMember(memberID)
	m.status = msg
	snapshot := m.club
	m.mu.Unlock()

	m.deps.Directory.Merge(snapshot)
	slog.Info("manage_event", "event", "member_removed", "club_id", clubID, "member_id", memberID)
}

// UpdateGenres replaces the club's genre tags with the current selection.
// PRE: the selection is non-empty; an empty selection never issues a request
// POST: on success the snapshot's genres are the catalog entries matching the
// selected ids, in catalog order
func (m *Manager) UpdateGenres(ctx context.Context) {
	m.mu.Lock()
	if !m.loaded {
		m.mu.Unlock()
		return
	}
	clubID := m.clubID
	selected := m.selectedGenres.Clone()
	m.mu.Unlock()

	if selected.Cardinality() == 0 {
		m.setError(msgEmptyGenreSelection)
		return
	}

	ids := selected.ToSlice()
	msg, err := m.deps.Club.UpdateGenres(ctx, clubID, ids)
	if err != nil {
		slog.Error("manage_event", "event", "genres_update_failed", "club_id", clubID, "error", err.Error())
		m.setError(msgUpdateGenresFailed)
		return
	}

	wanted := make(map[int]bool, selected.Cardinality())
	for _, id := range ids {
		wanted[id] = true
	}

	m.mu.Lock()
	m.club.Genres = m.deps.Catalogs.Genres().Select(wanted)
	m.status = msg
	snapshot := m.club
	m.mu.Unlock()

	m.deps.Directory.Merge(snapshot)
	slog.Info("manage_event", "event", "genres_updated", "club_id", clubID, "count", len(ids))
}

// DeleteClub deletes the club resource and removes its id from the user's
// owned-club list. Returns true when the caller should navigate away.
// POST: on success the club id is absent from the session's owned list
func (m *Manager) DeleteClub(ctx context.Context) bool {
	m.mu.Lock()
	if !m.loaded {
		m.mu.Unlock()
		return false
	}
	clubID := m.clubID
	m.mu.Unlock()

	if _, err := m.deps.Club.DeleteClub(ctx, clubID); err != nil {
		slog.Error("manage_event", "event", "delete_failed", "club_id", clubID, "error", err.Error())
		m.setError(msgDeleteFailed)
		return false
	}

	m.deps.Session.RemoveOwnedClub(clubID)
	slog.Info("manage_event", "event", "club_deleted", "club_id", clubID)
	return true
}

// Snapshot returns a render-ready copy of the manager's state. The selected
// genre ids are returned in catalog order so rendering is deterministic.
func (m *Manager) Snapshot() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	v := View{
		HasClub:        m.clubID != 0,
		Loaded:         m.loaded,
		LoadFailed:     m.loadFailed,
		Club:           m.club,
		SelectedBookID: m.selectedBookID,
		Status:         m.status,
		Error:          m.errMsg,
	}
	for _, g := range m.deps.Catalogs.Genres() {
		if m.selectedGenres.Contains(g.ID) {
			v.SelectedGenres = append(v.SelectedGenres, g.ID)
		}
	}
	return v
}

// GenreSelected reports whether a genre id is currently selected.
func (m *Manager) GenreSelected(genreID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedGenres.Contains(genreID)
}

// setError records a transient error message. Each new operation overwrites
// the previous message of its kind only; a failure leaves the last success
// message in place.
func (m *Manager) setError(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = msg
}
