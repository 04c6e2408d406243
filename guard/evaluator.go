package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/session"
)

// ErrSuperseded is returned when a newer navigation attempt replaced the
// one this evaluation was started for; the result must be discarded.
var ErrSuperseded = errors.New("navigation superseded")

// ErrRoleUnresolved is returned when role resolution did not complete
// within the evaluation's deadline.
var ErrRoleUnresolved = errors.New("role resolution incomplete")

const defaultRoleWait = 5 * time.Second

// RoutePaths are the fixed redirect targets of the gates.
type RoutePaths struct {
	Login        string
	Unauthorized string
	Loading      string
	Home         string
}

// EvaluatorConfig configures an [Evaluator].
//
// EvaluatorConfig instances are intended to be configured during
// initialization and then treated as immutable unless documented otherwise.
type EvaluatorConfig struct {
	Paths RoutePaths

	// RoleWait caps how long the permission and role gates wait for role
	// resolution before treating it as failed. Defaults to five seconds.
	RoleWait time.Duration

	Metrics *metrics.Metrics
	Audit   *audit.Dispatcher
}

// Evaluator runs gates for navigation attempts. Each attempt gets a fresh
// identifier; starting a new attempt supersedes the previous one, and a
// superseded attempt's late result is discarded rather than delivered.
type Evaluator struct {
	store *session.Store
	view  PermissionView
	cfg   EvaluatorConfig

	mu      sync.Mutex
	current uuid.UUID
}

// NewEvaluator creates an Evaluator over the given store and permission view.
func NewEvaluator(store *session.Store, view PermissionView, cfg EvaluatorConfig) *Evaluator {
	if cfg.RoleWait <= 0 {
		cfg.RoleWait = defaultRoleWait
	}
	return &Evaluator{store: store, view: view, cfg: cfg}
}

// EvaluateAuthentication runs the authentication (guest) gate.
func (e *Evaluator) EvaluateAuthentication(ctx context.Context, route RouteMeta) (Decision, error) {
	id := e.begin()
	defer e.observeLatency(time.Now())

	gc := Context{Session: e.store.Snapshot(), Route: route, CanNavigate: true}
	return e.finish(id, route, "authentication", AuthenticationGate(gc))
}

// EvaluateSignIn runs the sign-in gate. canNavigate reports whether the
// execution context has an interactive surface; without one the deny
// redirect targets the neutral loading route.
func (e *Evaluator) EvaluateSignIn(ctx context.Context, route RouteMeta, canNavigate bool) (Decision, error) {
	id := e.begin()
	defer e.observeLatency(time.Now())

	gc := Context{Session: e.store.Snapshot(), Route: route, CanNavigate: canNavigate}
	return e.finish(id, route, "signin", SignInGate(gc, e.cfg.Paths.Login, e.cfg.Paths.Loading))
}

// EvaluatePermission runs the permission gate. It waits for role resolution
// first so the SUPER_ADMIN short-circuit cannot be raced past by a
// default-deny; a resolution failure redirects to the unauthorized route.
func (e *Evaluator) EvaluatePermission(ctx context.Context, route RouteMeta) (Decision, error) {
	id := e.begin()
	defer e.observeLatency(time.Now())

	snap, err := e.awaitRole(ctx)
	if err != nil {
		e.cfg.Metrics.Inc(metrics.MetricRoleWaitFailed)
		return e.finish(id, route, "permission", Redirect(e.cfg.Paths.Unauthorized))
	}

	gc := Context{Session: snap, Route: route, CanNavigate: true}
	return e.finish(id, route, "permission", PermissionGate(gc, e.view, e.cfg.Paths.Unauthorized))
}

// EvaluateRole runs the role gate, waiting for role resolution like the
// permission gate does.
func (e *Evaluator) EvaluateRole(ctx context.Context, route RouteMeta) (Decision, error) {
	id := e.begin()
	defer e.observeLatency(time.Now())

	snap, err := e.awaitRole(ctx)
	if err != nil {
		e.cfg.Metrics.Inc(metrics.MetricRoleWaitFailed)
		return e.finish(id, route, "role", Redirect(e.cfg.Paths.Home))
	}

	gc := Context{Session: snap, Route: route, CanNavigate: true}
	return e.finish(id, route, "role", RoleGate(gc, e.cfg.Paths.Home))
}

// begin registers a new navigation attempt, superseding any in-flight one.
func (e *Evaluator) begin() uuid.UUID {
	id := uuid.New()
	e.mu.Lock()
	e.current = id
	e.mu.Unlock()
	return id
}

// finish delivers the decision unless the attempt was superseded while the
// evaluation was pending.
func (e *Evaluator) finish(id uuid.UUID, route RouteMeta, gate string, d Decision) (Decision, error) {
	e.mu.Lock()
	stale := e.current != id
	e.mu.Unlock()

	if stale {
		e.cfg.Metrics.Inc(metrics.MetricNavigationSuperseded)
		e.cfg.Audit.Emit(context.Background(), audit.Event{
			EventType: audit.EventSuperseded,
			Route:     route.Path,
			Metadata:  map[string]string{"gate": gate},
		})
		return Decision{}, ErrSuperseded
	}

	switch d.Verdict {
	case VerdictAllow:
		e.cfg.Metrics.Inc(metrics.MetricGateAllowed)
	case VerdictDeny:
		e.cfg.Metrics.Inc(metrics.MetricGateDenied)
		e.cfg.Audit.Emit(context.Background(), audit.Event{
			EventType: audit.EventGateDeny,
			Route:     route.Path,
			Metadata:  map[string]string{"gate": gate},
		})
	case VerdictRedirect:
		e.cfg.Metrics.Inc(metrics.MetricGateRedirected)
		e.cfg.Audit.Emit(context.Background(), audit.Event{
			EventType: audit.EventGateRedirect,
			Route:     route.Path,
			Reason:    d.RedirectTo,
			Metadata:  map[string]string{"gate": gate},
		})
	}
	return d, nil
}

// awaitRole returns a snapshot whose role is resolved, suspending until the
// session reports one, the session becomes unauthenticated, the context is
// done, or the wait cap elapses. Unauthenticated sessions resolve
// immediately: their role is definitively absent.
func (e *Evaluator) awaitRole(ctx context.Context) (session.Snapshot, error) {
	snap := e.store.Snapshot()
	if !snap.Authenticated() || snap.Role != session.RoleUnknown {
		return snap, nil
	}

	resolved := make(chan session.Snapshot, 1)
	cancel := e.store.Subscribe(func(s session.Snapshot) {
		if !s.Authenticated() || s.Role != session.RoleUnknown {
			select {
			case resolved <- s:
			default:
			}
		}
	})
	defer cancel()

	// Re-check after subscribing: the role may have resolved in between.
	snap = e.store.Snapshot()
	if !snap.Authenticated() || snap.Role != session.RoleUnknown {
		return snap, nil
	}

	timer := time.NewTimer(e.cfg.RoleWait)
	defer timer.Stop()

	select {
	case s := <-resolved:
		return s, nil
	case <-ctx.Done():
		return session.Snapshot{}, ctx.Err()
	case <-timer.C:
		return session.Snapshot{}, ErrRoleUnresolved
	}
}

func (e *Evaluator) observeLatency(start time.Time) {
	e.cfg.Metrics.Observe(metrics.MetricGateLatency, time.Since(start))
}
