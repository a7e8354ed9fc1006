// Package metrics provides the observability hooks for inkframe passes.
//
// # Design Philosophy
//
// This package implements the Null Object pattern so that the runner, the
// fingerprint gate and the daemon can record metrics without nil checks.
// By default every component uses NoopRecorder, whose methods do nothing.
//
// # Architecture
//
//  1. Recorder interface - all metrics operations
//  2. NoopRecorder - default implementation
//  3. PrometheusRecorder - backed by a prometheus.Registry
//  4. TextfileWriter - exports a registry for the node_exporter textfile collector
//
// # Usage Pattern
//
// Components receive a Recorder through dependency injection:
//
//	reg := prom.NewRegistry()
//	recorder := metrics.NewPrometheusRecorder(reg)
//	runner := module.NewRunner(layout, module.WithRecorder(recorder))
//
// inkframe performs no network I/O, so the registry is never served over
// HTTP. When metrics are enabled the daemon writes it to a textfile after
// every pass and on a fixed flush interval.
package metrics
