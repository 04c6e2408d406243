package guard

import "github.com/gympanel/authpipe/session"

// RouteMeta is the static authorization metadata attached to a navigable
// route. Absence of all requirement fields means the route is unguarded.
type RouteMeta struct {
	// Path identifies the route in audit records.
	Path string

	// Permissions lists required capability strings, combined per RequireAll.
	Permissions []string

	// Module names a module whose access is checked as a whole.
	Module string

	// RequireAll demands every listed capability when true; at least one
	// when false.
	RequireAll bool

	// Roles lists roles of which the session must hold at least one.
	Roles []session.Role
}

// Guarded reports whether any requirement field is set.
func (m RouteMeta) Guarded() bool {
	return len(m.Permissions) > 0 || m.Module != "" || len(m.Roles) > 0
}
