// Package metrics implements D1, the ambient observability stack
// layered on top of the store and transaction engine (C9): Prometheus
// instrumentation for the commit/apply/undo/redo lifecycle, a periodic
// sampler of table sizes, and the generic component health checker used
// by the CLI demo's HTTP endpoints.
//
// Recorder differs from the teacher's metrics package in one
// deliberate way: the teacher registers a fixed set of package-level
// collectors once, at init, against prometheus.DefaultRegisterer,
// because a Warren manager process runs exactly one manager. A process
// built on pkg/store may run several Store instances at once — the CLI
// demo's two-peer simulation, or a test harness opening a handful of
// peers — and each Store gets its own Recorder with its own private
// *prometheus.Registry, so registering the same metric name from two
// Store instances never panics.
package metrics
