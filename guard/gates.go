package guard

import "github.com/gympanel/authpipe/session"

// PermissionView is the live permission query surface consumed by the
// permission gate. *permission.Resolver satisfies it.
type PermissionView interface {
	Count() int
	HasAny(perms ...string) bool
	HasAll(perms ...string) bool
	CanAccessModule(module string) bool
}

// Context is the explicit input of a gate evaluation: a session snapshot,
// the target route's metadata, and whether the execution context has an
// interactive surface to navigate.
type Context struct {
	Session     session.Snapshot
	Route       RouteMeta
	CanNavigate bool
}

// AuthenticationGate keeps authenticated users off auth-only pages (login,
// password reset). It denies when a token is present and allows otherwise.
func AuthenticationGate(gc Context) Decision {
	if gc.Session.Authenticated() {
		return Deny()
	}
	return Allow()
}

// SignInGate requires an authenticated session. On deny it redirects to the
// login route, or to the neutral loading route when the execution context
// cannot navigate.
func SignInGate(gc Context, loginRoute, loadingRoute string) Decision {
	if gc.Session.Authenticated() {
		return Allow()
	}
	if !gc.CanNavigate {
		return Redirect(loadingRoute)
	}
	return Redirect(loginRoute)
}

// PermissionGate evaluates the route's module and capability requirements
// against the live permission view.
//
// The SUPER_ADMIN short-circuit is checked first on every evaluation; it
// bypasses all permission and module checks but not authentication itself.
// A session holding zero permissions is denied outright, even when the
// route requests no module or capability check.
func PermissionGate(gc Context, view PermissionView, unauthorizedRoute string) Decision {
	if gc.Session.Authenticated() && gc.Session.Role == session.RoleSuperAdmin {
		return Allow()
	}

	if view.Count() == 0 {
		return Redirect(unauthorizedRoute)
	}

	if gc.Route.Module != "" && !view.CanAccessModule(gc.Route.Module) {
		return Redirect(unauthorizedRoute)
	}

	if len(gc.Route.Permissions) > 0 {
		if gc.Route.RequireAll {
			if !view.HasAll(gc.Route.Permissions...) {
				return Redirect(unauthorizedRoute)
			}
		} else if !view.HasAny(gc.Route.Permissions...) {
			return Redirect(unauthorizedRoute)
		}
	}

	return Allow()
}

// RoleGate requires the session role to be a member of the route's role
// set. Routes without a role set pass. On deny it redirects to homeRoute.
func RoleGate(gc Context, homeRoute string) Decision {
	if len(gc.Route.Roles) == 0 {
		return Allow()
	}
	if gc.Session.Role != session.RoleUnknown {
		for _, role := range gc.Route.Roles {
			if gc.Session.Role == role {
				return Allow()
			}
		}
	}
	return Redirect(homeRoute)
}
