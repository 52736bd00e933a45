package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gymdesk/internal/domain/user"
)

// UserStoreForLogin defines the store interface needed by Login.
type UserStoreForLogin interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	Identity user.Identity
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	UserStore UserStoreForLogin
}

var (
	ErrMissingCredentials = errors.New("please enter both username and password")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ExecuteLogin validates credentials and returns the identity for session creation.
// An unknown username and a wrong password produce the same error, so the
// response does not reveal which usernames exist.
// PRE: none
// POST: Returns identity on success; ErrInvalidCredentials otherwise
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	if input.Username == "" || input.Password == "" {
		return LoginResult{}, ErrMissingCredentials
	}

	u, err := deps.UserStore.GetByUsername(ctx, input.Username)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, fmt.Errorf("user lookup: %w", err)
	}

	if err := u.CheckPassword(input.Password); err != nil {
		slog.Info("auth_event", "event", "login_failed", "username", input.Username, "reason", "wrong_password")
		return LoginResult{}, ErrInvalidCredentials
	}

	slog.Info("auth_event", "event", "login_success", "username", input.Username, "role", u.Role)

	return LoginResult{Identity: u.Identity()}, nil
}
