package session

// Role identifies the decoded role of the authenticated user.
//
// Role instances are intended to be configured during authentication and then
// treated as immutable unless documented otherwise.
type Role string

const (
	// RoleUnknown is the zero value, used while the session is
	// unauthenticated or the role has not been resolved yet.
	RoleUnknown Role = ""
	// RoleSuperAdmin is an exported constant used by the authorization pipeline.
	RoleSuperAdmin Role = "SUPER_ADMIN"
	// RoleAdmin is an exported constant used by the authorization pipeline.
	RoleAdmin Role = "ADMIN"
	// RoleClient is an exported constant used by the authorization pipeline.
	RoleClient Role = "CLIENT"
)

// Valid reports whether r is one of the named roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleClient:
		return true
	}
	return false
}

// Snapshot is a point-in-time copy of the session. The zero value is the
// unauthenticated state.
type Snapshot struct {
	AccessToken string
	Role        Role
	TenantSlug  string
	Permissions []string
}

// Authenticated reports whether an access token is present.
func (s Snapshot) Authenticated() bool {
	return s.AccessToken != ""
}

// HasPermission reports membership of p in the snapshot's permission list.
func (s Snapshot) HasPermission(p string) bool {
	for _, have := range s.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Permissions != nil {
		out.Permissions = make([]string, len(s.Permissions))
		copy(out.Permissions, s.Permissions)
	}
	return out
}

// dedupe returns perms with duplicates removed, preserving first-seen order.
// Membership checks require uniqueness; insertion order is otherwise
// irrelevant to consumers.
func dedupe(perms []string) []string {
	if len(perms) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(perms))
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
