// Package middleware provides observability for route transitions.
//
// Both collectors plug into a registry as transition hooks:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := registry.New(root,
//	    registry.WithHook(m.Hook()),
//	    registry.WithHook(middleware.Tracing()),
//	)
//
// # Prometheus Metrics
//
//   - routemeta_transitions_total: transitions by target route
//   - routemeta_transition_duration_seconds: activation duration
//   - routemeta_unknown_routes_total: activations of unknown routes
//   - routemeta_title_changes_total: document title changes pushed to clients
//   - routemeta_active_sessions: open title feed sessions
//   - routemeta_websocket_errors_total: title feed errors by type
//   - routemeta_http_requests_total: page requests by route pattern and status
//
// Expose them with promhttp.HandlerFor(reg, promhttp.HandlerOpts{}).
//
// # OpenTelemetry
//
// Tracing records one routemeta.transition span per activation, parented to
// the span in the activation context. TraceHTTP starts a server span per
// request so transitions triggered by a request nest under it.
package middleware
