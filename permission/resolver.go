package permission

import (
	"sync"
	"sync/atomic"

	"github.com/gympanel/authpipe/session"
)

type resolverSubscriber struct {
	fn     func([]string)
	active atomic.Bool
}

// Resolver maintains a live view of the session's permission list and
// answers membership, module, and per-action queries against it. The view
// updates synchronously whenever the session changes; there is no polling.
//
// Resolver instances are safe for concurrent use.
type Resolver struct {
	registry *ModuleRegistry

	mu   sync.RWMutex
	set  map[string]struct{}
	list []string
	subs []*resolverSubscriber

	cancel func()
}

// NewResolver creates a resolver bound to the store's live permission
// stream. Call [Resolver.Close] to detach it.
func NewResolver(store *session.Store, registry *ModuleRegistry) *Resolver {
	r := &Resolver{registry: registry}
	r.applyList(store.Permissions())
	r.cancel = store.Subscribe(func(snap session.Snapshot) {
		r.applyList(snap.Permissions)
		r.notify()
	})
	return r
}

// Close detaches the resolver from the session stream.
func (r *Resolver) Close() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

func (r *Resolver) applyList(perms []string) {
	set := make(map[string]struct{}, len(perms))
	list := make([]string, 0, len(perms))
	for _, p := range perms {
		if _, dup := set[p]; dup {
			continue
		}
		set[p] = struct{}{}
		list = append(list, p)
	}

	r.mu.Lock()
	r.set = set
	r.list = list
	r.mu.Unlock()
}

func (r *Resolver) notify() {
	r.mu.RLock()
	subs := make([]*resolverSubscriber, len(r.subs))
	copy(subs, r.subs)
	list := make([]string, len(r.list))
	copy(list, r.list)
	r.mu.RUnlock()

	for _, sub := range subs {
		if sub.active.Load() {
			sub.fn(list)
		}
	}
}

// Subscribe registers fn to be called with the permission list after every
// change of the session's permission view. The returned cancel function
// unregisters it.
func (r *Resolver) Subscribe(fn func([]string)) (cancel func()) {
	sub := &resolverSubscriber{fn: fn}
	sub.active.Store(true)

	r.mu.Lock()
	r.subs = append(r.subs, sub)
	r.mu.Unlock()

	return func() {
		sub.active.Store(false)
		r.mu.Lock()
		for i, cur := range r.subs {
			if cur == sub {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
		r.mu.Unlock()
	}
}

// Permissions returns the current permission list.
func (r *Resolver) Permissions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.list))
	copy(out, r.list)
	return out
}

// Count returns the number of permissions in the current view.
func (r *Resolver) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.list)
}

// HasPermission reports whether p is a member of the current permission list.
func (r *Resolver) HasPermission(p string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.set[p]
	return ok
}

// HasAny reports whether at least one capability in perms is present.
// An empty perms set yields false.
func (r *Resolver) HasAny(perms ...string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range perms {
		if _, ok := r.set[p]; ok {
			return true
		}
	}
	return false
}

// HasAll reports whether every capability in perms is present. An empty
// perms set is vacuously true; route-level and visibility-level handling of
// "no capabilities requested" happens in their own gates.
func (r *Resolver) HasAll(perms ...string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range perms {
		if _, ok := r.set[p]; !ok {
			return false
		}
	}
	return true
}

// ModulePermissions returns the intersection of the current permissions with
// the module's capability set. Unknown modules yield an empty intersection.
func (r *Resolver) ModulePermissions(module string) []string {
	caps, ok := r.registry.Permissions(module)
	if !ok {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, c := range caps {
		if _, held := r.set[c]; held {
			out = append(out, c)
		}
	}
	return out
}

// CanAccessModule reports whether the intersection of the current
// permissions with the module's capability set is non-empty.
func (r *Resolver) CanAccessModule(module string) bool {
	caps, ok := r.registry.Permissions(module)
	if !ok {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range caps {
		if _, held := r.set[c]; held {
			return true
		}
	}
	return false
}

// CanCreate reports whether the single create capability of the module's
// resource is held. Unknown modules yield false.
func (r *Resolver) CanCreate(module string) bool { return r.canAction(module, ActionCreate) }

// CanRead reports whether the single read capability of the module's
// resource is held. Unknown modules yield false.
func (r *Resolver) CanRead(module string) bool { return r.canAction(module, ActionRead) }

// CanUpdate reports whether the single update capability of the module's
// resource is held. Unknown modules yield false.
func (r *Resolver) CanUpdate(module string) bool { return r.canAction(module, ActionUpdate) }

// CanDelete reports whether the single delete capability of the module's
// resource is held. Unknown modules yield false.
func (r *Resolver) CanDelete(module string) bool { return r.canAction(module, ActionDelete) }

func (r *Resolver) canAction(module, action string) bool {
	resource, ok := r.registry.Resource(module)
	if !ok {
		return false
	}
	return r.HasPermission(Capability(resource, action))
}
