// Package metrics records pipeline observability data.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can be
// switched on without nil checks at call sites. PrometheusRecorder registers
// its collectors on a caller-provided registry, which the CLI either writes to a
// node-exporter textfile after a run or serves over HTTP in daemon mode.
package metrics
