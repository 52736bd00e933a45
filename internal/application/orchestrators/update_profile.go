package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"gymdesk/internal/domain/user"
)

// UserStoreForProfile defines the store interface needed by UpdateProfile.
type UserStoreForProfile interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// SessionWriter is the slice of the session layer UpdateProfile needs.
type SessionWriter interface {
	Update(ctx context.Context, token string, identity user.Identity) error
}

// UpdateProfileInput carries input for the update-profile orchestrator.
type UpdateProfileInput struct {
	UserID       string
	SessionToken string
	Update       user.ProfileUpdate
}

// UpdateProfileResult carries the merged identity after a successful update.
type UpdateProfileResult struct {
	Identity user.Identity
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	UserStore UserStoreForProfile
	Sessions  SessionWriter
}

// ExecuteUpdateProfile applies a partial profile change for the logged-in
// user. The session is updated first so the UI reflects the change
// immediately; if persisting to the user table fails, the session is
// reverted to its previous identity.
// PRE: input.UserID identifies an existing user
// POST: User row and session agree on the resulting identity
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (UpdateProfileResult, error) {
	current, err := deps.UserStore.GetByID(ctx, input.UserID)
	if err != nil {
		return UpdateProfileResult{}, fmt.Errorf("load profile: %w", err)
	}

	previous := current.Identity()
	merged := previous.Merge(input.Update)

	if merged == previous {
		return UpdateProfileResult{Identity: previous}, nil
	}

	// Renaming to a username someone else holds would violate the
	// unique constraint; catch it up front for a clean error. Only a
	// not-found lookup means the name is free.
	if merged.Username != previous.Username {
		other, err := deps.UserStore.GetByUsername(ctx, merged.Username)
		if err == nil && other.ID != current.ID {
			return UpdateProfileResult{}, ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return UpdateProfileResult{}, fmt.Errorf("username check: %w", err)
		}
	}

	if input.SessionToken != "" {
		if err := deps.Sessions.Update(ctx, input.SessionToken, merged); err != nil {
			return UpdateProfileResult{}, fmt.Errorf("update session: %w", err)
		}
	}

	current.Username = merged.Username
	current.Name = merged.Name
	if err := current.Validate(); err != nil {
		if input.SessionToken != "" {
			_ = deps.Sessions.Update(ctx, input.SessionToken, previous)
		}
		return UpdateProfileResult{}, err
	}

	if err := deps.UserStore.Save(ctx, current); err != nil {
		if input.SessionToken != "" {
			if revertErr := deps.Sessions.Update(ctx, input.SessionToken, previous); revertErr != nil {
				slog.Error("profile_session_revert_failed", "user_id", current.ID, "error", revertErr)
			}
		}
		return UpdateProfileResult{}, fmt.Errorf("save profile: %w", err)
	}

	slog.Info("auth_event", "event", "profile_updated", "user_id", current.ID)

	return UpdateProfileResult{Identity: merged}, nil
}
