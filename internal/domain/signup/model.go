package signup

import (
	"errors"
	"strings"
)

// Field limits for new-user registration.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 6
)

// Signup carries the fields of a registration request.
type Signup struct {
	Username string
	Email    string
	Password string
}

// Validate checks the registration fields client-side. All violations are
// combined into a single error so the form shows one message.
// PRE: none
// POST: returns nil iff every field passes; request must not be sent otherwise
func (s Signup) Validate() error {
	var problems []string
	name := strings.TrimSpace(s.Username)
	if name == "" {
		problems = append(problems, "username is required")
	} else if len(name) < MinUsernameLength || len(name) > MaxUsernameLength {
		problems = append(problems, "username must be 3-30 characters")
	}
	if strings.TrimSpace(s.Email) == "" {
		problems = append(problems, "email is required")
	} else if !strings.Contains(s.Email, "@") {
		problems = append(problems, "email must be valid")
	}
	if s.Password == "" {
		problems = append(problems, "password is required")
	} else if len(s.Password) < MinPasswordLength {
		problems = append(problems, "password must be at least 6 characters")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
