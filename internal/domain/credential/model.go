package credential

import (
	"errors"
	"time"
)

// Credential ties a console session token to the backend bearer token it was
// issued with. Persisting the pair lets a session survive a console restart.
type Credential struct {
	SessionToken string
	APIToken     string
	UserID       int
	Username     string
	CreatedAt    time.Time
}

// Validate checks if the Credential has valid data.
// PRE: Credential struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Credential) Validate() error {
	if c.SessionToken == "" {
		return errors.New("session token cannot be empty")
	}
	if c.APIToken == "" {
		return errors.New("api token cannot be empty")
	}
	if c.UserID <= 0 {
		return errors.New("user id must be positive")
	}
	return nil
}
