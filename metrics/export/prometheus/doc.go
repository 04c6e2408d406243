// Package prometheus provides Prometheus collectors for authpipe metrics.
//
// [NewPrometheusExporter] accepts an [authpipe.Pipeline] and exposes an [http.Handler]
// that renders all authpipe counters and histograms in Prometheus text exposition
// format. Counter names are prefixed authpipe_*_total; the single histogram is
// authpipe_gate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate pipeline state.
package prometheus
