package internaldefs

import (
	authpipe "github.com/gympanel/authpipe"
)

// CounterDef defines a public type used by authpipe APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   authpipe.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by authpipe APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   authpipe.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authorization pipeline.
var CounterDefs = []CounterDef{
	{ID: authpipe.MetricGateAllowed, Name: "authpipe_gate_allowed_total", Help: "Navigation gate evaluations that allowed."},
	{ID: authpipe.MetricGateDenied, Name: "authpipe_gate_denied_total", Help: "Navigation gate evaluations that denied."},
	{ID: authpipe.MetricGateRedirected, Name: "authpipe_gate_redirected_total", Help: "Navigation gate evaluations that redirected."},
	{ID: authpipe.MetricNavigationSuperseded, Name: "authpipe_navigation_superseded_total", Help: "Gate results discarded as superseded by a newer navigation."},
	{ID: authpipe.MetricRoleWaitFailed, Name: "authpipe_role_wait_failed_total", Help: "Gate evaluations whose role resolution wait timed out."},
	{ID: authpipe.MetricTenantHeaderAttached, Name: "authpipe_tenant_header_attached_total", Help: "Requests that received the tenant header."},
	{ID: authpipe.MetricBearerAttached, Name: "authpipe_bearer_attached_total", Help: "Requests that received a bearer token."},
	{ID: authpipe.MetricUnauthorizedFullLogout, Name: "authpipe_unauthorized_full_logout_total", Help: "401 responses handled with a full logout."},
	{ID: authpipe.MetricUnauthorizedLocalClear, Name: "authpipe_unauthorized_local_clear_total", Help: "401 responses handled with a local-only clear."},
	{ID: authpipe.MetricConnectionFailure, Name: "authpipe_connection_failure_total", Help: "Network-level request failures."},
	{ID: authpipe.MetricServiceUnavailable, Name: "authpipe_service_unavailable_total", Help: "503 responses observed."},
	{ID: authpipe.MetricErrorNotified, Name: "authpipe_error_notified_total", Help: "User-facing error notifications surfaced."},
	{ID: authpipe.MetricVisibilityShown, Name: "authpipe_visibility_shown_total", Help: "Visibility bindings that showed their element."},
	{ID: authpipe.MetricVisibilityHidden, Name: "authpipe_visibility_hidden_total", Help: "Visibility bindings that hid their element."},
}

// HistogramDefs is an exported constant or variable used by the authorization pipeline.
var HistogramDefs = []HistogramDef{
	{ID: authpipe.MetricGateLatency, Name: "authpipe_gate_latency_seconds", Help: "Gate evaluation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authorization pipeline.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authorization pipeline.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
