package authpipe

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gympanel/authpipe/guard"
	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/jwt"
	"github.com/gympanel/authpipe/permission"
	"github.com/gympanel/authpipe/session"
	"github.com/gympanel/authpipe/transport"
	"github.com/gympanel/authpipe/visibility"
)

// Pipeline defines a public type used by authpipe APIs.
//
// Pipeline methods are safe for concurrent use after [Builder.Build].
type Pipeline struct {
	config     Config
	store      *session.Store
	roles      *session.RoleResolver
	registry   *permission.ModuleRegistry
	perms      *permission.Resolver
	tokenGuard *jwt.Guard
	evaluator  *guard.Evaluator
	notifier   Notifier
	navigator  Navigator
	metrics    *metrics.Metrics
	audit      *audit.Dispatcher

	closed atomic.Bool
}

// Session returns the observable session store.
func (p *Pipeline) Session() *session.Store {
	return p.store
}

// Roles returns the role resolver projected over the session.
func (p *Pipeline) Roles() *session.RoleResolver {
	return p.roles
}

// Permissions returns the live permission resolver.
func (p *Pipeline) Permissions() *permission.Resolver {
	return p.perms
}

// Registry returns the frozen module→permission table.
func (p *Pipeline) Registry() *permission.ModuleRegistry {
	return p.registry
}

// TokenGuard returns the claim-decoding token guard.
func (p *Pipeline) TokenGuard() *jwt.Guard {
	return p.tokenGuard
}

// Evaluator returns the navigation gate evaluator.
func (p *Pipeline) Evaluator() *guard.Evaluator {
	return p.evaluator
}

// Restore loads a persisted session, if any, into the store.
//
// Restore may return an error when input validation, dependency calls, or security checks fail.
func (p *Pipeline) Restore(ctx context.Context) error {
	if p.closed.Load() {
		return ErrPipelineClosed
	}
	if err := p.store.Restore(ctx); err != nil {
		p.audit.Emit(ctx, audit.Event{
			EventType: audit.EventRestoreFailed,
			Reason:    err.Error(),
		})
		return err
	}
	return nil
}

// Transport wraps base with the full interceptor chain. A nil base uses
// http.DefaultTransport.
//
// Transport may return an error when input validation, dependency calls, or security checks fail.
func (p *Pipeline) Transport(base http.RoundTripper) (http.RoundTripper, error) {
	if p.closed.Load() {
		return nil, ErrPipelineClosed
	}
	return transport.Chain(base, transport.Options{
		Store:          p.store,
		TokenGuard:     p.tokenGuard,
		Navigator:      p.navigator,
		Notifier:       p.notifier,
		Metrics:        p.metrics,
		Audit:          p.audit,
		TenantHeader:   p.config.Tenant.Header,
		ExemptPrefixes: p.config.Tenant.ExemptPrefixes,
		LoginRoute:     p.config.Routes.Login,
	})
}

// BindVisibility binds a rendered element to the live permission view.
// The returned binding must be released on element teardown.
func (p *Pipeline) BindVisibility(spec visibility.Spec, renderer visibility.Renderer) *visibility.Binding {
	return visibility.Bind(p.perms, p.perms, spec, renderer, p.metrics)
}

// MetricsSnapshot returns a point-in-time copy of all pipeline metrics.
func (p *Pipeline) MetricsSnapshot() MetricsSnapshot {
	return p.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped under backpressure.
func (p *Pipeline) AuditDropped() uint64 {
	return p.audit.Dropped()
}

// Close releases the pipeline's subscriptions and drains the audit
// dispatcher. Idempotent.
func (p *Pipeline) Close() {
	if p.closed.Swap(true) {
		return
	}
	p.perms.Close()
	p.audit.Close()
}
