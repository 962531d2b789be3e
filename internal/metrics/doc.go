// Package metrics records load-cycle observations.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so metric calls never need nil checks:
//
//	l := loader.New(settings, fetcher, loader.WithRecorder(metrics.NoopRecorder{}))
//
// When `serve` runs with metrics enabled a PrometheusRecorder is installed
// and exposed through HTTPHandler.
package metrics
