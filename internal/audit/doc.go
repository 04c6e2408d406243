// Package audit carries the pipeline's security event records: the Event
// model, delivery sinks, and the asynchronous buffered dispatcher with drop
// accounting. The root package re-exports the sink types.
package audit
