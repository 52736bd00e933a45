package orchestrators

import (
	"context"
	"errors"
	"testing"

	"gymdesk/internal/domain/user"
)

// mockSessions records identity updates per token.
type mockSessions struct {
	updates map[string][]user.Identity
}

func newMockSessions() *mockSessions {
	return &mockSessions{updates: make(map[string][]user.Identity)}
}

func (m *mockSessions) Update(_ context.Context, token string, identity user.Identity) error {
	m.updates[token] = append(m.updates[token], identity)
	return nil
}

func (m *mockSessions) last(token string) (user.Identity, bool) {
	history := m.updates[token]
	if len(history) == 0 {
		return user.Identity{}, false
	}
	return history[len(history)-1], true
}

func TestExecuteUpdateProfile_Success(t *testing.T) {
	existing := seededUser(t, "old name", "password123", user.RoleOwner)
	store := newMockUserStore(existing)
	sessions := newMockSessions()

	result, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		UserID:       existing.ID,
		SessionToken: "tok",
		Update:       user.ProfileUpdate{Username: "renamed gym", Name: "Renamed Gym"},
	}, UpdateProfileDeps{UserStore: store, Sessions: sessions})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if result.Identity.Username != "renamed gym" {
		t.Errorf("username = %q, want \"renamed gym\"", result.Identity.Username)
	}

	// The session saw the new identity.
	last, ok := sessions.last("tok")
	if !ok || last.Username != "renamed gym" {
		t.Errorf("session identity = %+v, want username \"renamed gym\"", last)
	}

	// The user row was persisted with the same change.
	persisted, err := store.GetByID(context.Background(), existing.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if persisted.Username != "renamed gym" || persisted.Name != "Renamed Gym" {
		t.Errorf("persisted user = %+v, want updated fields", persisted)
	}
}

func TestExecuteUpdateProfile_BlankFieldsKeepOldValues(t *testing.T) {
	existing := seededUser(t, "keeper", "password123", user.RoleTrainer)
	store := newMockUserStore(existing)
	sessions := newMockSessions()

	result, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		UserID:       existing.ID,
		SessionToken: "tok",
		Update:       user.ProfileUpdate{Name: "Only The Name"},
	}, UpdateProfileDeps{UserStore: store, Sessions: sessions})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if result.Identity.Username != "keeper" {
		t.Errorf("username = %q, want unchanged \"keeper\"", result.Identity.Username)
	}
	if result.Identity.Name != "Only The Name" {
		t.Errorf("name = %q, want \"Only The Name\"", result.Identity.Name)
	}
}

// A failed persistence must leave the session at the pre-update identity.
func TestExecuteUpdateProfile_RevertsSessionOnSaveFailure(t *testing.T) {
	existing := seededUser(t, "stable", "password123", user.RoleOwner)
	store := newMockUserStore(existing)
	store.saveErr = errors.New("disk full")
	sessions := newMockSessions()

	_, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		UserID:       existing.ID,
		SessionToken: "tok",
		Update:       user.ProfileUpdate{Username: "wobbly"},
	}, UpdateProfileDeps{UserStore: store, Sessions: sessions})
	if err == nil {
		t.Fatal("expected an error when the store save fails")
	}

	last, ok := sessions.last("tok")
	if !ok {
		t.Fatal("session should have been written (then reverted)")
	}
	if last.Username != "stable" {
		t.Errorf("session username = %q, want reverted \"stable\"", last.Username)
	}
	if len(sessions.updates["tok"]) != 2 {
		t.Errorf("session updates = %d, want 2 (optimistic write then revert)", len(sessions.updates["tok"]))
	}
}

func TestExecuteUpdateProfile_UsernameCollision(t *testing.T) {
	a := seededUser(t, "alpha", "password123", user.RoleOwner)
	b := seededUser(t, "beta", "password123", user.RoleTrainer)
	store := newMockUserStore(a, b)
	sessions := newMockSessions()

	_, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		UserID:       a.ID,
		SessionToken: "tok",
		Update:       user.ProfileUpdate{Username: "beta"},
	}, UpdateProfileDeps{UserStore: store, Sessions: sessions})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("error = %v, want ErrUsernameTaken", err)
	}
	if len(sessions.updates["tok"]) != 0 {
		t.Error("session must not be touched on a pre-checked collision")
	}
}

func TestExecuteUpdateProfile_NoChangeIsNoop(t *testing.T) {
	existing := seededUser(t, "same", "password123", user.RoleMember)
	store := newMockUserStore(existing)
	sessions := newMockSessions()

	result, err := ExecuteUpdateProfile(context.Background(), UpdateProfileInput{
		UserID:       existing.ID,
		SessionToken: "tok",
		Update:       user.ProfileUpdate{},
	}, UpdateProfileDeps{UserStore: store, Sessions: sessions})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if result.Identity != existing.Identity() {
		t.Errorf("identity = %+v, want unchanged", result.Identity)
	}
	if len(store.saved) != 0 {
		t.Error("no save expected for an empty update")
	}
}
