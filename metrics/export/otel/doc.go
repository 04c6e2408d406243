// Package otel provides OpenTelemetry metric exporter bindings for authpipe counters
// and histograms.
//
// [NewOTelExporter] registers Int64ObservableCounter instruments for each authpipe
// metric and Int64ObservableGauge per histogram bucket. A single callback reads
// [authpipe.Pipeline.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider — callers supply the Meter.
//   - Mutate pipeline state.
package otel
