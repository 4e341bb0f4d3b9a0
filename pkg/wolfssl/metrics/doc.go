// Package metrics turns wolfssl lifecycle events into metrics.
//
// Collector exports Prometheus metrics from its own registry. OTelRecorder
// records the same events through an OpenTelemetry meter. Both implement
// wolfssl.Observer and can be combined with wolfssl.Observers.
package metrics
