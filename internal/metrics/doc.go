// Package metrics is the in-process counter and histogram store of the
// pipeline. The root package re-exports the IDs and snapshot types; the
// exporters under metrics/export render snapshots for Prometheus and OTel.
package metrics
