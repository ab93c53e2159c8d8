// Package xmetrics wraps github.com/rcrowley/go-metrics, the metrics
// primitive go-ethereum itself builds its `metrics` package on top of. Each
// engine package registers a handful of gauges/counters here rather than
// pulling in its own registry, matching go-ethereum's convention of
// package-level `metrics.NewRegisteredGauge("subsystem/name", nil)` vars.
package xmetrics

import "github.com/rcrowley/go-metrics"

// Registry is the shared registry every engine registers into. A single
// process-wide registry (rather than one per engine) matches go-ethereum's
// own metrics.DefaultRegistry convention, and lets a host expose everything
// through one exporter.
var Registry = metrics.NewRegistry()

// GetOrRegisterGauge returns the named gauge, creating it against Registry
// if it doesn't exist yet.
func GetOrRegisterGauge(name string) metrics.Gauge {
	return metrics.GetOrRegisterGauge(name, Registry)
}

// GetOrRegisterCounter returns the named counter, creating it against
// Registry if it doesn't exist yet.
func GetOrRegisterCounter(name string) metrics.Counter {
	return metrics.GetOrRegisterCounter(name, Registry)
}
