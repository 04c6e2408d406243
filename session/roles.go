package session

// RoleResolver projects the live session role into boolean predicates.
// It performs no I/O; an unresolved role makes every predicate false,
// never an error.
type RoleResolver struct {
	store *Store
}

// NewRoleResolver creates a resolver over the given store.
func NewRoleResolver(store *Store) *RoleResolver {
	return &RoleResolver{store: store}
}

// IsSuperAdmin reports whether the current role is SUPER_ADMIN.
func (r *RoleResolver) IsSuperAdmin() bool { return r.store.Role() == RoleSuperAdmin }

// IsAdmin reports whether the current role is ADMIN.
func (r *RoleResolver) IsAdmin() bool { return r.store.Role() == RoleAdmin }

// IsClient reports whether the current role is CLIENT.
func (r *RoleResolver) IsClient() bool { return r.store.Role() == RoleClient }

// HasRole reports whether the current role equals role.
func (r *RoleResolver) HasRole(role Role) bool {
	cur := r.store.Role()
	return cur != RoleUnknown && cur == role
}

// HasAnyRole reports whether the current role is a member of roles.
func (r *RoleResolver) HasAnyRole(roles ...Role) bool {
	cur := r.store.Role()
	if cur == RoleUnknown {
		return false
	}
	for _, role := range roles {
		if cur == role {
			return true
		}
	}
	return false
}

// Subscribe registers fn to be called with the role after every session
// update. The returned cancel function unregisters it.
func (r *RoleResolver) Subscribe(fn func(Role)) (cancel func()) {
	return r.store.Subscribe(func(snap Snapshot) {
		fn(snap.Role)
	})
}
