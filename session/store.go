package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Listener receives a session snapshot after every applied mutation.
type Listener func(Snapshot)

type subscriber struct {
	fn     Listener
	active atomic.Bool
}

// Store is the single mutable session record of the pipeline. The only
// permitted mutators are the authentication flow (Login, SetTenantSlug,
// SetPermissions, SetRole) and the unauthorized-response stage (Logout,
// ClearLocal); everything else reads snapshots or subscribes.
//
// Store instances are safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	notifyMu sync.Mutex
	snap     Snapshot
	subs     []*subscriber

	gen atomic.Uint64

	persist *Persistence
}

// NewStore creates an empty, unauthenticated Store.
func NewStore() *Store {
	return &Store{}
}

// UsePersistence attaches a Redis persistence adapter. Subsequent mutations
// mirror the snapshot into Redis; Logout and ClearLocal remove it.
func (s *Store) UsePersistence(p *Persistence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist = p
}

// Restore loads a previously persisted snapshot, if any, and applies it as
// the current session. Missing persisted state is not an error.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	p := s.persist
	s.mu.Unlock()
	if p == nil {
		return nil
	}

	snap, ok, err := p.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		return nil
	}

	s.apply(func(cur *Snapshot) {
		*cur = snap.clone()
	}, true)
	return nil
}

// Snapshot returns a point-in-time copy of the session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.clone()
}

// AccessToken returns the current token and whether one is present.
func (s *Store) AccessToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.AccessToken, s.snap.AccessToken != ""
}

// Role returns the current role; RoleUnknown while unresolved.
func (s *Store) Role() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Role
}

// TenantSlug returns the active organization slug and whether one is resolved.
func (s *Store) TenantSlug() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.TenantSlug, s.snap.TenantSlug != ""
}

// Permissions returns a copy of the current capability list.
func (s *Store) Permissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.Permissions == nil {
		return nil
	}
	out := make([]string, len(s.snap.Permissions))
	copy(out, s.snap.Permissions)
	return out
}

// Authenticated reports whether an access token is present.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Authenticated()
}

// Generation returns the session generation counter. It advances on Login,
// Logout, ClearLocal, and Restore; the unauthorized-response stage uses the
// value captured at request dispatch time to deduplicate concurrent 401
// handling.
func (s *Store) Generation() uint64 {
	return s.gen.Load()
}

// Subscribe registers fn to be called with a snapshot after every applied
// mutation. Calls are delivered in mutation order. The returned cancel
// function unregisters fn; after cancel returns, fn receives no further
// snapshots.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	sub := &subscriber{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		sub.active.Store(false)
		s.mu.Lock()
		for i, cur := range s.subs {
			if cur == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
}

// Login establishes an authenticated session. The permission list is
// deduplicated; the generation counter advances.
func (s *Store) Login(ctx context.Context, token string, role Role, tenantSlug string, permissions []string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.apply(func(cur *Snapshot) {
		cur.AccessToken = token
		cur.Role = role
		cur.TenantSlug = tenantSlug
		cur.Permissions = dedupe(permissions)
	}, true)

	return s.save(ctx)
}

// SetTenantSlug records the resolved organization slug.
func (s *Store) SetTenantSlug(ctx context.Context, slug string) error {
	s.apply(func(cur *Snapshot) {
		cur.TenantSlug = slug
	}, false)
	return s.save(ctx)
}

// SetRole records the decoded role once resolution completes.
func (s *Store) SetRole(ctx context.Context, role Role) error {
	s.apply(func(cur *Snapshot) {
		cur.Role = role
	}, false)
	return s.save(ctx)
}

// SetPermissions replaces the capability list. The list is the single source
// of truth for the permission resolver and visibility bindings; both observe
// the change synchronously through their subscriptions.
func (s *Store) SetPermissions(ctx context.Context, permissions []string) error {
	s.apply(func(cur *Snapshot) {
		cur.Permissions = dedupe(permissions)
	}, false)
	return s.save(ctx)
}

// Logout clears the session and removes any persisted copy. It is the full
// clearing strength: used on explicit sign-out and on a 401 for a token that
// was still valid at dispatch time. Idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.apply(func(cur *Snapshot) {
		*cur = Snapshot{}
	}, true)
	return s.clearPersisted(ctx)
}

// ClearLocal resets the session fields and removes the persisted token,
// organization slug, and permission snapshot, without the full logout side
// effects. Used on a 401 for a token already known expired at dispatch time.
// Idempotent.
func (s *Store) ClearLocal(ctx context.Context) error {
	s.apply(func(cur *Snapshot) {
		*cur = Snapshot{}
	}, true)
	return s.clearPersisted(ctx)
}

// apply runs mutate under the store lock and notifies subscribers in order.
// notifyMu is held across mutation and delivery so updates cannot reorder.
func (s *Store) apply(mutate func(*Snapshot), bumpGeneration bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	mutate(&s.snap)
	if bumpGeneration {
		s.gen.Add(1)
	}
	snap := s.snap.clone()
	subs := make([]*subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(snap)
		}
	}
}

func (s *Store) save(ctx context.Context) error {
	s.mu.Lock()
	p := s.persist
	snap := s.snap.clone()
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	if err := p.Save(ctx, snap); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (s *Store) clearPersisted(ctx context.Context) error {
	s.mu.Lock()
	p := s.persist
	s.mu.Unlock()
	if p == nil {
		return nil
	}
	if err := p.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	return nil
}
