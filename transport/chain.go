package transport

import (
	"errors"
	"net/http"

	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/jwt"
	"github.com/gympanel/authpipe/session"
)

// DefaultTenantHeader is the header carrying the active organization slug.
const DefaultTenantHeader = "x-organization"

// Authentication and organization-management endpoints never carry the
// tenant header.
var defaultExemptPrefixes = []string{"/auth", "/organizations"}

// Options configures the stage chain.
//
// Options instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Options struct {
	Store      *session.Store
	TokenGuard *jwt.Guard

	// Navigator receives the forced navigation to LoginRoute after a 401
	// is handled. Optional; nil disables the navigation side effect.
	Navigator Navigator

	// Notifier receives user-facing error messages. Optional.
	Notifier Notifier

	Metrics *metrics.Metrics
	Audit   *audit.Dispatcher

	// TenantHeader defaults to [DefaultTenantHeader].
	TenantHeader string

	// ExemptPrefixes lists URL path prefixes that never receive the tenant
	// header. Defaults to /auth and /organizations.
	ExemptPrefixes []string

	// LoginRoute defaults to "/login".
	LoginRoute string
}

// Chain wraps base with the four pipeline stages in their fixed order.
// A nil base uses http.DefaultTransport.
func Chain(base http.RoundTripper, opts Options) (http.RoundTripper, error) {
	if opts.Store == nil {
		return nil, errors.New("transport chain requires a session store")
	}
	if opts.TokenGuard == nil {
		return nil, errors.New("transport chain requires a token guard")
	}
	if base == nil {
		base = http.DefaultTransport
	}
	if opts.TenantHeader == "" {
		opts.TenantHeader = DefaultTenantHeader
	}
	if opts.ExemptPrefixes == nil {
		opts.ExemptPrefixes = defaultExemptPrefixes
	}
	if opts.LoginRoute == "" {
		opts.LoginRoute = "/login"
	}

	// Innermost first: responses pass the unauthorized stage before the
	// generic-error stage; requests pass tenant before bearer.
	var rt http.RoundTripper = &unauthorizedStage{
		next:       base,
		store:      opts.Store,
		guard:      opts.TokenGuard,
		navigator:  opts.Navigator,
		metrics:    opts.Metrics,
		audit:      opts.Audit,
		loginRoute: opts.LoginRoute,
	}
	rt = &errorStage{
		next:     rt,
		notifier: opts.Notifier,
		metrics:  opts.Metrics,
		audit:    opts.Audit,
	}
	rt = &bearerStage{
		next:    rt,
		store:   opts.Store,
		metrics: opts.Metrics,
	}
	rt = &tenantStage{
		next:    rt,
		store:   opts.Store,
		header:  opts.TenantHeader,
		exempt:  opts.ExemptPrefixes,
		metrics: opts.Metrics,
	}
	return rt, nil
}

// cloneWithHeader copies the request before mutating headers, per the
// http.RoundTripper contract.
func cloneWithHeader(req *http.Request, key, value string) *http.Request {
	out := req.Clone(req.Context())
	out.Header.Set(key, value)
	return out
}
