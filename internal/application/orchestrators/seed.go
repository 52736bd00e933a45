package orchestrators

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"gymdesk/internal/domain/user"
)

// Default owner credentials for a fresh database. Override with
// GYMDESK_OWNER_USERNAME / GYMDESK_OWNER_PASSWORD before first start.
const (
	DefaultOwnerUsername = "the gym"
	DefaultOwnerPassword = "surender9818"
	DefaultOwnerName     = "Gym Owner"
)

// UserStoreForSeed defines the store interface needed by SeedOwner.
type UserStoreForSeed interface {
	Count(ctx context.Context) (int, error)
	Save(ctx context.Context, u user.User) error
}

// SeedOwnerDeps holds dependencies for SeedOwner.
type SeedOwnerDeps struct {
	UserStore UserStoreForSeed
}

// ExecuteSeedOwner creates the initial owner account when the users
// table is empty. Safe to call on every start.
// PRE: none
// POST: At least one account exists; no-op when users already exist
func ExecuteSeedOwner(ctx context.Context, deps SeedOwnerDeps) error {
	count, err := deps.UserStore.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := envOrDefault("GYMDESK_OWNER_USERNAME", DefaultOwnerUsername)
	password := envOrDefault("GYMDESK_OWNER_PASSWORD", DefaultOwnerPassword)

	owner := user.User{
		ID:        uuid.NewString(),
		Username:  username,
		Name:      DefaultOwnerName,
		Role:      user.RoleOwner,
		CreatedAt: time.Now(),
	}
	if err := owner.SetPassword(password); err != nil {
		return err
	}
	if err := deps.UserStore.Save(ctx, owner); err != nil {
		return err
	}

	slog.Info("owner_seeded", "username", username)
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
