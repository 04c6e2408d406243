// Package session holds the live authenticated-session state consumed by
// every other part of the authorization pipeline.
//
// The [Store] is an explicit state container: mutation happens only through
// its command methods (Login, SetTenantSlug, SetPermissions, Logout,
// ClearLocal) and reads happen either as point-in-time snapshots or through
// the subscribe contract. Subscribers of a single store observe updates in
// the order they were applied.
//
// An optional [Persistence] adapter mirrors the token, tenant slug, and
// permission snapshot into Redis so a restarted client can resume; Logout
// and ClearLocal both remove the persisted copy.
package session
