package credential

import (
	"context"
	"time"

	domain "bookclub/internal/domain/credential"
)

// Store persists Credential state.
type Store interface {
	GetBySessionToken(ctx context.Context, token string) (domain.Credential, error)
	Save(ctx context.Context, value domain.Credential) error
	Delete(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID int) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
