// Package metrics records run, stage and per-locale render metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics cost
// nothing unless enabled:
//
//	recorder := metrics.NewPrometheusRecorder(nil)
//	p := pipeline.New(cfg, renderer, pipeline.WithRecorder(recorder))
//	...
//	_ = recorder.WriteTextfile("/var/lib/node_exporter/cvlocalize.prom")
//
// A CLI run is short-lived, so PrometheusRecorder exports through the node
// exporter textfile format instead of an HTTP endpoint.
package metrics
