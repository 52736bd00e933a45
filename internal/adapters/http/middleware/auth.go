package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"time"

	"gymdesk/internal/adapters/storage/session"
	"gymdesk/internal/domain/user"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const identityContextKey contextKey = "identity"

// SessionTTL is how long a login session stays valid.
const SessionTTL = 24 * time.Hour

// SecureCookies controls the Secure flag on session cookies.
// Left false for local HTTP development; set true behind TLS.
var SecureCookies = false

// IdentityLookup is the slice of the user store the session service needs
// to detect accounts deleted out from under a live session.
type IdentityLookup interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// SessionService manages login sessions backed by a durable store.
// Sessions survive server restarts; expiry and stale-account checks
// happen on read.
type SessionService struct {
	store session.Store
	users IdentityLookup
}

// NewSessionService creates a SessionService.
func NewSessionService(store session.Store, users IdentityLookup) *SessionService {
	return &SessionService{store: store, users: users}
}

// Create stores a new session for the identity and returns the token.
// PRE: identity has a non-empty ID
// POST: Session is persisted with a SessionTTL expiry
func (s *SessionService) Create(ctx context.Context, identity user.Identity) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	now := time.Now()
	err = s.store.Save(ctx, session.Record{
		Token:     token,
		Identity:  identity,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the identity for a token, validating that the backing
// account still exists.
// POST: Returns (identity, true) only for a live session whose account
// is still present; expired and orphaned sessions are cleared silently
func (s *SessionService) Resolve(ctx context.Context, token string) (user.Identity, bool) {
	record, ok, err := s.store.Get(ctx, token)
	if err != nil {
		slog.Error("session_lookup_failed", "error", err)
		return user.Identity{}, false
	}
	if !ok {
		return user.Identity{}, false
	}
	if record.Expired(time.Now()) {
		_ = s.store.Delete(ctx, token)
		return user.Identity{}, false
	}
	if _, err := s.users.GetByID(ctx, record.Identity.ID); err != nil {
		slog.Info("session_cleared", "reason", "account_gone", "user_id", record.Identity.ID)
		_ = s.store.Delete(ctx, token)
		return user.Identity{}, false
	}
	return record.Identity, true
}

// Update replaces the identity stored for a token, keeping its expiry.
// PRE: token refers to an existing session
// POST: Session carries the new identity
func (s *SessionService) Update(ctx context.Context, token string, identity user.Identity) error {
	record, ok, err := s.store.Get(ctx, token)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	record.Identity = identity
	return s.store.Save(ctx, record)
}

// Delete removes a session by token.
func (s *SessionService) Delete(ctx context.Context, token string) error {
	return s.store.Delete(ctx, token)
}

const sessionCookieName = "gymdesk_session"

// Auth returns middleware that resolves the session cookie and sets the
// identity in context. It does NOT block unauthenticated requests — use
// RequireAuth or RequireRole for that.
func Auth(sessions *SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if identity, ok := sessions.Resolve(r.Context(), cookie.Value); ok {
					ctx := context.WithValue(r.Context(), identityContextKey, identity)
					r = r.WithContext(ctx)
				} else {
					ClearSessionCookie(w)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that redirects unauthenticated requests
// to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole returns middleware that restricts a route to the given roles.
// Unauthenticated requests go to /login; authenticated requests with the
// wrong role are sent back to the dashboard rather than shown an error.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !roleSet[identity.Role] {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IdentityFromContext extracts the logged-in identity from the request context.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(user.Identity)
	return identity, ok
}

// ContextWithIdentity returns a context with the given identity set.
// Intended for use in tests.
func ContextWithIdentity(ctx context.Context, identity user.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IsRole checks if the current identity has one of the given roles.
func IsRole(ctx context.Context, roles ...string) bool {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if identity.Role == r {
			return true
		}
	}
	return false
}

// IsOwner checks if the current identity is the gym owner.
func IsOwner(ctx context.Context) bool {
	return IsRole(ctx, user.RoleOwner)
}

// IsStaff checks if the current identity is the owner or a trainer.
func IsStaff(ctx context.Context) bool {
	return IsRole(ctx, user.RoleOwner, user.RoleTrainer)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionToken returns the raw session token from the request cookie.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
