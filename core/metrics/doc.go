// Package metrics defines the sinks fetch runs report to. Each collector
// invocation produces one FetchResult. Sinks are built from configuration
// through NewMetricsSink and fan out through MultiSink when several are
// configured.
package metrics
