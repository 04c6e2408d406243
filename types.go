package authpipe

import (
	"io"

	"github.com/gympanel/authpipe/guard"
	"github.com/gympanel/authpipe/internal/audit"
	"github.com/gympanel/authpipe/internal/metrics"
	"github.com/gympanel/authpipe/session"
	"github.com/gympanel/authpipe/transport"
)

/*
====================================
SESSION TYPES
====================================
*/

// Role defines a public type used by authpipe APIs.
type Role = session.Role

const (
	// RoleUnknown is an exported constant or variable used by the authorization pipeline.
	RoleUnknown = session.RoleUnknown
	// RoleSuperAdmin is an exported constant or variable used by the authorization pipeline.
	RoleSuperAdmin = session.RoleSuperAdmin
	// RoleAdmin is an exported constant or variable used by the authorization pipeline.
	RoleAdmin = session.RoleAdmin
	// RoleClient is an exported constant or variable used by the authorization pipeline.
	RoleClient = session.RoleClient
)

// Snapshot defines a public type used by authpipe APIs.
type Snapshot = session.Snapshot

/*
====================================
GUARD TYPES
====================================
*/

// Decision defines a public type used by authpipe APIs.
type Decision = guard.Decision

// Verdict defines a public type used by authpipe APIs.
type Verdict = guard.Verdict

const (
	// VerdictAllow is an exported constant or variable used by the authorization pipeline.
	VerdictAllow = guard.VerdictAllow
	// VerdictDeny is an exported constant or variable used by the authorization pipeline.
	VerdictDeny = guard.VerdictDeny
	// VerdictRedirect is an exported constant or variable used by the authorization pipeline.
	VerdictRedirect = guard.VerdictRedirect
)

// RouteMeta defines a public type used by authpipe APIs.
type RouteMeta = guard.RouteMeta

/*
====================================
TRANSPORT TYPES
====================================
*/

// Notifier defines a public type used by authpipe APIs.
type Notifier = transport.Notifier

// NotifierFunc defines a public type used by authpipe APIs.
type NotifierFunc = transport.NotifierFunc

// Navigator defines a public type used by authpipe APIs.
type Navigator = transport.Navigator

// NavigatorFunc defines a public type used by authpipe APIs.
type NavigatorFunc = transport.NavigatorFunc

/*
====================================
AUDIT TYPES
====================================
*/

// AuditEvent defines a public type used by authpipe APIs.
type AuditEvent = audit.Event

// AuditSink defines a public type used by authpipe APIs.
type AuditSink = audit.Sink

// NoOpAuditSink defines a public type used by authpipe APIs.
type NoOpAuditSink = audit.NoOpSink

// ChannelAuditSink defines a public type used by authpipe APIs.
type ChannelAuditSink = audit.ChannelSink

// JSONAuditSink defines a public type used by authpipe APIs.
type JSONAuditSink = audit.JSONWriterSink

// NewChannelAuditSink describes the newchannelauditsink operation and its observable behavior.
func NewChannelAuditSink(buffer int) *ChannelAuditSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONAuditSink describes the newjsonauditsink operation and its observable behavior.
func NewJSONAuditSink(w io.Writer) *JSONAuditSink {
	return audit.NewJSONWriterSink(w)
}

/*
====================================
METRICS TYPES
====================================
*/

// MetricID defines a public type used by authpipe APIs.
type MetricID = metrics.MetricID

// MetricsSnapshot defines a public type used by authpipe APIs.
type MetricsSnapshot = metrics.Snapshot

const (
	// MetricGateAllowed is an exported constant or variable used by the authorization pipeline.
	MetricGateAllowed = metrics.MetricGateAllowed
	// MetricGateDenied is an exported constant or variable used by the authorization pipeline.
	MetricGateDenied = metrics.MetricGateDenied
	// MetricGateRedirected is an exported constant or variable used by the authorization pipeline.
	MetricGateRedirected = metrics.MetricGateRedirected
	// MetricNavigationSuperseded is an exported constant or variable used by the authorization pipeline.
	MetricNavigationSuperseded = metrics.MetricNavigationSuperseded
	// MetricRoleWaitFailed is an exported constant or variable used by the authorization pipeline.
	MetricRoleWaitFailed = metrics.MetricRoleWaitFailed
	// MetricTenantHeaderAttached is an exported constant or variable used by the authorization pipeline.
	MetricTenantHeaderAttached = metrics.MetricTenantHeaderAttached
	// MetricBearerAttached is an exported constant or variable used by the authorization pipeline.
	MetricBearerAttached = metrics.MetricBearerAttached
	// MetricUnauthorizedFullLogout is an exported constant or variable used by the authorization pipeline.
	MetricUnauthorizedFullLogout = metrics.MetricUnauthorizedFullLogout
	// MetricUnauthorizedLocalClear is an exported constant or variable used by the authorization pipeline.
	MetricUnauthorizedLocalClear = metrics.MetricUnauthorizedLocalClear
	// MetricConnectionFailure is an exported constant or variable used by the authorization pipeline.
	MetricConnectionFailure = metrics.MetricConnectionFailure
	// MetricServiceUnavailable is an exported constant or variable used by the authorization pipeline.
	MetricServiceUnavailable = metrics.MetricServiceUnavailable
	// MetricErrorNotified is an exported constant or variable used by the authorization pipeline.
	MetricErrorNotified = metrics.MetricErrorNotified
	// MetricVisibilityShown is an exported constant or variable used by the authorization pipeline.
	MetricVisibilityShown = metrics.MetricVisibilityShown
	// MetricVisibilityHidden is an exported constant or variable used by the authorization pipeline.
	MetricVisibilityHidden = metrics.MetricVisibilityHidden
	// MetricGateLatency is an exported constant or variable used by the authorization pipeline.
	MetricGateLatency = metrics.MetricGateLatency
)
