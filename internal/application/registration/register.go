package registration

import (
	"context"
	"log/slog"

	"bookclub/internal/domain/signup"
	"bookclub/internal/domain/user"
)

// RegistrationAPI is the backend surface needed to create an account.
type RegistrationAPI interface {
	Register(ctx context.Context, username, email, password string) (user.User, error)
}

// Input carries input for the registration orchestrator.
type Input struct {
	Username string
	Email    string
	Password string
}

// Deps holds dependencies for Register.
type Deps struct {
	API RegistrationAPI
}

// ExecuteRegister validates the signup fields client-side and delegates to
// the backend's registration operation. Validation violations are combined
// into one error and no request is sent.
// PRE: none
// POST: on success the account exists on the backend; caller redirects to
// the landing page
func ExecuteRegister(ctx context.Context, input Input, deps Deps) error {
	s := signup.Signup{Username: input.Username, Email: input.Email, Password: input.Password}
	if err := s.Validate(); err != nil {
		slog.Info("registration_event", "event", "validation_failed", "username", input.Username)
		return err
	}

	u, err := deps.API.Register(ctx, input.Username, input.Email, input.Password)
	if err != nil {
		slog.Info("registration_event", "event", "register_failed", "username", input.Username, "error", err.Error())
		return err
	}

	slog.Info("registration_event", "event", "registered", "user_id", u.ID, "username", u.Username)
	return nil
}
