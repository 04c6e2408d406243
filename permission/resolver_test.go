package permission

import (
	"context"
	"testing"

	"github.com/gympanel/authpipe/session"
)

func newTestResolver(t *testing.T, perms []string) (*session.Store, *Resolver) {
	t.Helper()
	store := session.NewStore()
	if err := store.SetPermissions(context.Background(), perms); err != nil {
		t.Fatalf("set permissions failed: %v", err)
	}
	r := NewResolver(store, DefaultRegistry())
	t.Cleanup(r.Close)
	return store, r
}

func TestHasPermissionMembership(t *testing.T) {
	_, r := newTestResolver(t, []string{"client:read", "plan:create"})

	if !r.HasPermission("client:read") {
		t.Fatal("expected membership")
	}
	if r.HasPermission("client:delete") {
		t.Fatal("expected no membership")
	}
}

func TestHasAnyHasAllProperties(t *testing.T) {
	_, r := newTestResolver(t, []string{"client:read", "client:create", "plan:read"})

	// permissions ⊇ P ⇒ HasAll(P).
	if !r.HasAll("client:read", "client:create") {
		t.Fatal("HasAll must hold for a held subset")
	}
	// permissions ∩ P = ∅ ⇒ !HasAny(P).
	if r.HasAny("routine:read", "schedule:read") {
		t.Fatal("HasAny must fail on a disjoint set")
	}
	if r.HasAll("client:read", "routine:read") {
		t.Fatal("HasAll must fail when any member is missing")
	}
	if r.HasAny() {
		t.Fatal("HasAny over the empty set is false")
	}
}

func TestModuleAccessIffIntersectionNonEmpty(t *testing.T) {
	_, r := newTestResolver(t, []string{"client:read"})
	reg := DefaultRegistry()

	for _, m := range reg.Modules() {
		inter := r.ModulePermissions(m)
		if got := r.CanAccessModule(m); got != (len(inter) > 0) {
			t.Fatalf("module %q: CanAccessModule=%v but intersection size %d", m, got, len(inter))
		}
	}

	if !r.CanAccessModule(ModuleClients) {
		t.Fatal("client:read must grant access to the clients module")
	}
	if r.CanAccessModule(ModulePlans) {
		t.Fatal("no plan capability held, plans module must be inaccessible")
	}
	if r.CanAccessModule("billing") {
		t.Fatal("unknown module must never be accessible")
	}
}

func TestPerActionHelpers(t *testing.T) {
	_, r := newTestResolver(t, []string{"client:read", "client:create"})

	if !r.CanRead(ModuleClients) || !r.CanCreate(ModuleClients) {
		t.Fatal("held actions must resolve true")
	}
	if r.CanUpdate(ModuleClients) || r.CanDelete(ModuleClients) {
		t.Fatal("unheld actions must resolve false")
	}
	if r.CanRead("billing") {
		t.Fatal("unknown module must resolve false, not fail")
	}
}

func TestResolverFollowsSessionSynchronously(t *testing.T) {
	store, r := newTestResolver(t, []string{"client:read"})

	var observed [][]string
	cancel := r.Subscribe(func(perms []string) {
		observed = append(observed, perms)
	})
	defer cancel()

	if err := store.SetPermissions(context.Background(), []string{"plan:read"}); err != nil {
		t.Fatalf("set permissions failed: %v", err)
	}

	// No stale copy: the view changed before SetPermissions returned.
	if r.HasPermission("client:read") {
		t.Fatal("stale permission survived a permission-list change")
	}
	if !r.HasPermission("plan:read") {
		t.Fatal("new permission not visible")
	}
	if len(observed) != 1 || len(observed[0]) != 1 || observed[0][0] != "plan:read" {
		t.Fatalf("unexpected subscription delivery: %v", observed)
	}
}

func TestPermissionsRoundTrip(t *testing.T) {
	store, r := newTestResolver(t, nil)

	want := []string{"client:read", "plan:create", "report:read"}
	if err := store.SetPermissions(context.Background(), want); err != nil {
		t.Fatalf("set permissions failed: %v", err)
	}

	got := r.Permissions()
	if len(got) != len(want) {
		t.Fatalf("expected %d permissions, got %d", len(want), len(got))
	}
	for _, p := range want {
		if !r.HasPermission(p) {
			t.Fatalf("missing %q after round trip", p)
		}
	}
}

func TestLogoutEmptiesView(t *testing.T) {
	store, r := newTestResolver(t, []string{"client:read"})
	_ = store.Login(context.Background(), "tok", session.RoleAdmin, "acme", []string{"client:read"})

	if err := store.Logout(context.Background()); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if r.Count() != 0 {
		t.Fatal("logout must empty the permission view")
	}
	if r.CanAccessModule(ModuleClients) {
		t.Fatal("no module may be accessible after logout")
	}
}
