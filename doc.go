// Package authpipe provides the authorization and session-integrity pipeline
// of a multi-tenant admin client: an observable session store, role and
// permission resolvers, a signature-free token guard, navigation gates, and
// an HTTP interceptor chain, assembled through [Builder.Build].
//
// The package is designed for concurrent client workloads: Pipeline methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authpipe is the public surface. It exposes [Pipeline], [Builder], [Config],
// and value types (Role, Decision, RouteMeta, etc.). Audit dispatch and
// metric recording live under internal/ and are reached through the
// re-exports in types.go.
//
// # What this package must NOT do
//
//   - Verify token signatures or talk to an identity provider. The guard
//     only decodes claims; the server remains the authority.
//   - Mutate the session outside Login/Logout/ClearLocal commands and the
//     interceptor chain's 401 handling.
//   - Import any sub-package that re-imports authpipe (no import cycles).
//
// # Performance contract
//
// Gate evaluation and the per-request interceptor stages are the hot paths.
// Neither performs network I/O of its own; the only blocking point is the
// permission gate's bounded wait for role resolution.
package authpipe
