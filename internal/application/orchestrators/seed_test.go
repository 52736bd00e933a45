package orchestrators

import (
	"context"
	"testing"

	"gymdesk/internal/domain/user"
)

func TestExecuteSeedOwner_FreshDatabase(t *testing.T) {
	store := newMockUserStore()

	if err := ExecuteSeedOwner(context.Background(), SeedOwnerDeps{UserStore: store}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	owner, ok := store.users[DefaultOwnerUsername]
	if !ok {
		t.Fatal("owner account was not created")
	}
	if owner.Role != user.RoleOwner {
		t.Errorf("role = %q, want owner", owner.Role)
	}
	if err := owner.CheckPassword(DefaultOwnerPassword); err != nil {
		t.Errorf("default password does not verify: %v", err)
	}
}

func TestExecuteSeedOwner_SkipsWhenUsersExist(t *testing.T) {
	store := newMockUserStore(seededUser(t, "existing", "password123", user.RoleTrainer))

	if err := ExecuteSeedOwner(context.Background(), SeedOwnerDeps{UserStore: store}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(store.saved) != 0 {
		t.Error("seed must be a no-op when any user exists")
	}
	if _, ok := store.users[DefaultOwnerUsername]; ok {
		t.Error("default owner must not be created alongside existing users")
	}
}
