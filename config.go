package authpipe

import (
	"fmt"
	"strings"
	"time"
)

// Config defines a public type used by authpipe APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Routes  RoutesConfig
	JWT     JWTConfig
	Tenant  TenantConfig
	Session SessionConfig
	Guards  GuardsConfig
	Audit   AuditConfig
	Metrics MetricsConfig

	// Modules overrides the default module→permission table when non-empty.
	Modules []ModuleConfig
}

// ModuleConfig defines a public type used by authpipe APIs.
//
// ModuleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ModuleConfig struct {
	Name         string
	Resource     string
	Capabilities []string
}

/*
====================================
ROUTES CONFIG
====================================
*/

// RoutesConfig defines a public type used by authpipe APIs.
//
// RoutesConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RoutesConfig struct {
	Login        string
	Unauthorized string
	Loading      string
	Home         string
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig defines a public type used by authpipe APIs.
//
// JWTConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type JWTConfig struct {
	// Leeway widens the guard's expiry window to absorb clock skew.
	// At most two minutes.
	Leeway time.Duration
}

/*
====================================
TENANT CONFIG
====================================
*/

// TenantConfig defines a public type used by authpipe APIs.
//
// TenantConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TenantConfig struct {
	// Header carries the active organization slug on outgoing requests.
	Header string
	// ExemptPrefixes are request path prefixes that never carry the header.
	ExemptPrefixes []string
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by authpipe APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// Persist stores the session in Redis so it survives a restart.
	// Requires a client via [Builder.WithRedis].
	Persist     bool
	RedisPrefix string
}

/*
====================================
GUARDS CONFIG
====================================
*/

// GuardsConfig defines a public type used by authpipe APIs.
//
// GuardsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type GuardsConfig struct {
	// RoleWait caps how long the permission and role gates wait for role
	// resolution before redirecting.
	RoleWait time.Duration
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by authpipe APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authpipe APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Routes: RoutesConfig{
			Login:        "/login",
			Unauthorized: "/unauthorized",
			Loading:      "/loading",
			Home:         "/",
		},
		JWT: JWTConfig{
			Leeway: 30 * time.Second,
		},
		Tenant: TenantConfig{
			Header:         "x-organization",
			ExemptPrefixes: []string{"/auth", "/organizations"},
		},
		Session: SessionConfig{
			RedisPrefix: "ap",
		},
		Guards: GuardsConfig{
			RoleWait: 5 * time.Second,
		},
		Audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Tenant.ExemptPrefixes = append([]string(nil), cfg.Tenant.ExemptPrefixes...)
	if cfg.Modules != nil {
		out.Modules = make([]ModuleConfig, len(cfg.Modules))
		for i, m := range cfg.Modules {
			out.Modules[i] = ModuleConfig{
				Name:         m.Name,
				Resource:     m.Resource,
				Capabilities: append([]string(nil), m.Capabilities...),
			}
		}
	}
	return out
}

func validateConfig(cfg Config) error {
	for name, path := range map[string]string{
		"routes.login":        cfg.Routes.Login,
		"routes.unauthorized": cfg.Routes.Unauthorized,
		"routes.home":         cfg.Routes.Home,
	} {
		if path == "" || !strings.HasPrefix(path, "/") {
			return fmt.Errorf("%w: %s must be an absolute path", ErrInvalidConfig, name)
		}
	}
	if cfg.Routes.Loading != "" && !strings.HasPrefix(cfg.Routes.Loading, "/") {
		return fmt.Errorf("%w: routes.loading must be an absolute path", ErrInvalidConfig)
	}
	if cfg.JWT.Leeway < 0 || cfg.JWT.Leeway > 2*time.Minute {
		return fmt.Errorf("%w: jwt.leeway out of range", ErrInvalidConfig)
	}
	if cfg.Tenant.Header == "" {
		return fmt.Errorf("%w: tenant.header cannot be empty", ErrInvalidConfig)
	}
	for _, prefix := range cfg.Tenant.ExemptPrefixes {
		if !strings.HasPrefix(prefix, "/") {
			return fmt.Errorf("%w: tenant exempt prefix %q must start with /", ErrInvalidConfig, prefix)
		}
	}
	if cfg.Session.Persist && cfg.Session.RedisPrefix == "" {
		return fmt.Errorf("%w: session.redis_prefix cannot be empty", ErrInvalidConfig)
	}
	if cfg.Guards.RoleWait < 0 {
		return fmt.Errorf("%w: guards.role_wait cannot be negative", ErrInvalidConfig)
	}
	if cfg.Audit.Enabled && cfg.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: audit.buffer_size must be positive", ErrInvalidConfig)
	}
	return nil
}
