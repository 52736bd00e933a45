package session

import (
	"context"
	"time"

	"gymdesk/internal/domain/user"
)

// Record is one persisted login session. Identity is the snapshot of
// the user at login (or last profile update) time.
type Record struct {
	Token     string
	Identity  user.Identity
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record is past its expiry at the given time.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Store persists session Records.
//
// Get uses a presence flag rather than a not-found error: a missing or
// unreadable session is the normal logged-out case, not a failure.
type Store interface {
	Get(ctx context.Context, token string) (Record, bool, error)
	Save(ctx context.Context, record Record) error
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
