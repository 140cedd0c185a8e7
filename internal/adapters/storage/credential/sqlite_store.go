package credential

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "bookclub/internal/domain/credential"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new CredentialStore.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetBySessionToken retrieves a Credential by its session token.
// PRE: token is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetBySessionToken(ctx context.Context, token string) (domain.Credential, error) {
	query := "SELECT session_token, api_token, user_id, username, created_at FROM credential WHERE session_token = ?"
	row := s.db.QueryRowContext(ctx, query, token)

	entity, err := scanCredential(row.Scan)
	if err == sql.ErrNoRows {
		return domain.Credential{}, fmt.Errorf("credential not found: %w", err)
	}
	return entity, err
}

// Save persists a Credential to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Credential) error {
	query := `INSERT INTO credential (session_token, api_token, user_id, username, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_token) DO UPDATE SET
			api_token=excluded.api_token,
			user_id=excluded.user_id,
			username=excluded.username`

	_, err := s.db.ExecContext(ctx, query,
		entity.SessionToken,
		entity.APIToken,
		entity.UserID,
		entity.Username,
		entity.CreatedAt.Format("2006-01-02T15:04:05.999999999Z07:00"),
	)
	return err
}

// Delete removes a Credential from the database.
// PRE: token is non-empty
// POST: Entity with given session token is removed
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credential WHERE session_token = ?", token)
	return err
}

// DeleteByUserID removes every Credential belonging to a user.
// PRE: userID is positive
// POST: No credentials remain for the user
func (s *SQLiteStore) DeleteByUserID(ctx context.Context, userID int) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM credential WHERE user_id = ?", userID)
	return err
}

// PurgeOlderThan removes credentials created before the cutoff.
// POST: Returns the number of rows removed
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM credential WHERE created_at < ?",
		cutoff.Format("2006-01-02T15:04:05.999999999Z07:00"))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// scanCredential extracts a Credential from a row scanner function.
func scanCredential(scan func(dest ...interface{}) error) (domain.Credential, error) {
	var entity domain.Credential
	var createdAt string
	err := scan(
		&entity.SessionToken,
		&entity.APIToken,
		&entity.UserID,
		&entity.Username,
		&createdAt,
	)
	if err != nil {
		return domain.Credential{}, err
	}
	entity.CreatedAt, _ = parseTime(createdAt)
	return entity, nil
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
}
