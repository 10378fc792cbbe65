/*
Package observability exposes Prometheus metrics for the session registry.

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	registry := session.NewRegistry(cache, session.WithMetrics(metrics))

All methods are safe on a nil *Metrics, so instrumentation stays optional.
*/
package observability
