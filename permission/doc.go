// Package permission maps the session's capability strings to authorization
// predicates.
//
// Capabilities are namespaced as "<resource>:<action>" (for example
// "client:create"). A [ModuleRegistry] groups capabilities into coarse
// modules (clients, routines, plans, ...) for all-or-nothing access checks;
// a [Resolver] keeps a live view of the session's permission list and
// answers membership, module, and per-action queries against it.
//
// The session permission list is the single source of truth: the resolver
// never caches across a permission-list change, it re-applies every update
// synchronously through its store subscription.
package permission
