package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/user"
)

// UserStoreForRegister defines the store interface needed by RegisterUser.
type UserStoreForRegister interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// RegisterUserInput carries input for the register-user orchestrator.
type RegisterUserInput struct {
	Username string
	Password string
	Name     string
	Role     string
}

// RegisterUserResult carries the created account.
type RegisterUserResult struct {
	UserID   string
	Username string
	Role     string
}

// RegisterUserDeps holds dependencies for RegisterUser.
type RegisterUserDeps struct {
	UserStore UserStoreForRegister
}

var ErrUsernameTaken = errors.New("username already exists")

// ExecuteRegisterUser creates a new login account.
// Registration does not log the new account in; the caller stays in
// their current session.
// PRE: none
// POST: Account persisted with a bcrypt hash, or an error and no write
func ExecuteRegisterUser(ctx context.Context, input RegisterUserInput, deps RegisterUserDeps) (RegisterUserResult, error) {
	// Only a not-found result means the username is free. A failing
	// lookup aborts the registration rather than racing the insert.
	_, err := deps.UserStore.GetByUsername(ctx, input.Username)
	if err == nil {
		slog.Info("auth_event", "event", "register_failed", "username", input.Username, "reason", "username_taken")
		return RegisterUserResult{}, ErrUsernameTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return RegisterUserResult{}, fmt.Errorf("username check: %w", err)
	}

	u := user.User{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Name:      input.Name,
		Role:      input.Role,
		CreatedAt: time.Now(),
	}
	if err := u.Validate(); err != nil {
		return RegisterUserResult{}, err
	}
	if err := u.SetPassword(input.Password); err != nil {
		return RegisterUserResult{}, err
	}

	if err := deps.UserStore.Save(ctx, u); err != nil {
		return RegisterUserResult{}, err
	}

	slog.Info("auth_event", "event", "register_success", "username", u.Username, "role", u.Role)

	return RegisterUserResult{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}, nil
}
