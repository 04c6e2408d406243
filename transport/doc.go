// Package transport wraps an http.RoundTripper with the pipeline's four
// ordered stages: tenant-context, bearer-token, unauthorized-response, and
// generic-error.
//
// Requests flow tenant → bearer → wire; responses flow back through the
// unauthorized stage first and the generic-error stage second. Every stage
// re-raises the response or error it saw after acting, so exactly one
// consistent failure reaches the original caller. Side effects — the
// session-clearing 401 reaction, navigation to login, user-facing error
// notifications — are idempotent under duplicate 401s arriving from
// parallel in-flight requests.
package transport
