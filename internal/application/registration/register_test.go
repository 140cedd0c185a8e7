package registration

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bookclub/internal/domain/user"
)

// mockRegistrationAPI implements RegistrationAPI for testing.
type mockRegistrationAPI struct {
	calls int
	err   error
}

func (m *mockRegistrationAPI) Register(_ context.Context, username, _, _ string) (user.User, error) {
	m.calls++
	if m.err != nil {
		return user.User{}, m.err
	}
	return user.User{ID: 7, Username: username}, nil
}

// TestExecuteRegister_Success registers a valid account.
// POST: the backend is called exactly once and no error is returned
func TestExecuteRegister_Success(t *testing.T) {
	api := &mockRegistrationAPI{}
	input := Input{Username: "avery", Email: "avery@example.com", Password: "turnthepage"}

	if err := ExecuteRegister(context.Background(), input, Deps{API: api}); err != nil {
		t.Fatalf("ExecuteRegister() error = %v", err)
	}
	if api.calls != 1 {
		t.Errorf("backend called %d times, want 1", api.calls)
	}
}

// TestExecuteRegister_ValidationBlocksRequest verifies invalid fields are
// rejected locally with one combined message and no request.
// PRE: username too short, email malformed, password too short
func TestExecuteRegister_ValidationBlocksRequest(t *testing.T) {
	api := &mockRegistrationAPI{}
	input := Input{Username: "ab", Email: "nope", Password: "x"}

	err := ExecuteRegister(context.Background(), input, Deps{API: api})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if api.calls != 0 {
		t.Errorf("backend called %d times, want 0", api.calls)
	}
	for _, field := range []string{"username", "email", "password"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("combined message missing %q: %s", field, err)
		}
	}
}

// TestExecuteRegister_BackendFailure surfaces the backend's error.
func TestExecuteRegister_BackendFailure(t *testing.T) {
	api := &mockRegistrationAPI{err: errors.New("email already taken")}
	input := Input{Username: "avery", Email: "avery@example.com", Password: "turnthepage"}

	err := ExecuteRegister(context.Background(), input, Deps{API: api})
	if err == nil || !strings.Contains(err.Error(), "taken") {
		t.Errorf("ExecuteRegister() error = %v, want backend error", err)
	}
}
