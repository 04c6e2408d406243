package authpipe

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gympanel/authpipe/guard"
	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/jwt"
	"github.com/gympanel/authpipe/permission"
	"github.com/gympanel/authpipe/session"
)

// Builder defines a public type used by authpipe APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	registry  *permission.ModuleRegistry
	notifier  Notifier
	navigator Navigator
	auditSink AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis describes the withredis operation and its observable behavior.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	b.config.Session.Persist = client != nil
	return b
}

// WithModuleRegistry describes the withmoduleregistry operation and its observable behavior.
//
// WithModuleRegistry does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithModuleRegistry(r *permission.ModuleRegistry) *Builder {
	b.registry = r
	return b
}

// WithNotifier describes the withnotifier operation and its observable behavior.
//
// WithNotifier does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNotifier(n Notifier) *Builder {
	b.notifier = n
	return b
}

// WithNavigator describes the withnavigator operation and its observable behavior.
//
// WithNavigator does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = sink != nil
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Pipeline, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.config.Session.Persist && b.redis == nil {
		return nil, ErrRedisRequired
	}

	m := metrics.New(metrics.Config{
		Enabled:       b.config.Metrics.Enabled,
		EnableLatency: b.config.Metrics.EnableLatencyHistograms,
	})

	sink := b.auditSink
	if sink == nil {
		sink = audit.NoOpSink{}
	}
	dispatcher := audit.NewDispatcher(audit.Config{
		Enabled:    b.config.Audit.Enabled,
		BufferSize: b.config.Audit.BufferSize,
		DropIfFull: b.config.Audit.DropIfFull,
	}, sink)

	store := session.NewStore()
	if b.config.Session.Persist {
		store.UsePersistence(session.NewPersistence(b.redis, b.config.Session.RedisPrefix))
	}

	registry := b.registry
	if registry == nil && len(b.config.Modules) > 0 {
		registry = permission.NewModuleRegistry()
		for _, m := range b.config.Modules {
			if err := registry.Register(m.Name, m.Resource, m.Capabilities); err != nil {
				return nil, fmt.Errorf("%w: module %q: %v", ErrInvalidConfig, m.Name, err)
			}
		}
		registry.Freeze()
	}
	if registry == nil {
		registry = permission.DefaultRegistry()
	}

	tokenGuard, err := jwt.NewGuard(jwt.Config{Leeway: b.config.JWT.Leeway})
	if err != nil {
		return nil, err
	}

	perms := permission.NewResolver(store, registry)
	evaluator := guard.NewEvaluator(store, perms, guard.EvaluatorConfig{
		Paths: guard.RoutePaths{
			Login:        b.config.Routes.Login,
			Unauthorized: b.config.Routes.Unauthorized,
			Loading:      b.config.Routes.Loading,
			Home:         b.config.Routes.Home,
		},
		RoleWait: b.config.Guards.RoleWait,
		Metrics:  m,
		Audit:    dispatcher,
	})

	return &Pipeline{
		config:     b.config,
		store:      store,
		roles:      session.NewRoleResolver(store),
		registry:   registry,
		perms:      perms,
		tokenGuard: tokenGuard,
		evaluator:  evaluator,
		notifier:   b.notifier,
		navigator:  b.navigator,
		metrics:    m,
		audit:      dispatcher,
	}, nil
}
