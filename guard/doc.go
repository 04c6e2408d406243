// Package guard evaluates navigation attempts against the session.
//
// The four gates (authentication, sign-in, permission, role) are pure
// functions over an explicit [Context] — session snapshot, route metadata,
// navigation surface — returning a tagged [Decision] of Allow, Deny, or
// Redirect. They are safe to re-evaluate on every navigation attempt,
// including browser back/forward.
//
// The [Evaluator] adds the two stateful concerns the gates themselves must
// not carry: waiting for role resolution before the permission gate falls
// through to permission checks, and discarding results whose navigation
// attempt has been superseded by a newer one.
package guard
