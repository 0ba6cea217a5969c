// Package middleware provides the HTTP middleware of the myui server and the
// metrics recorder used by live sessions.
//
// This package includes:
//   - Prometheus request metrics plus live session and event metrics
//   - OpenTelemetry request tracing
//   - slog request logging
//   - CORS for the student API
//
// All middleware has the func(http.Handler) http.Handler shape used by chi:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(chimw.RequestID, m.Handler, middleware.Tracing(), middleware.RequestLogger(logger))
//
// # Prometheus Metrics
//
//   - myui_http_requests_total: requests by method, route and status
//   - myui_http_request_duration_seconds: request latency by method and route
//   - myui_http_requests_in_flight: requests currently being served
//   - myui_live_sessions_active: open live sessions
//   - myui_live_events_total: client events by type and status
//   - myui_live_mutations_sent_total: DOM mutations streamed to clients
//   - myui_live_websocket_errors_total: WebSocket errors by type
//
// # OpenTelemetry
//
// Tracing starts a server span per request using the global tracer provider
// and puts it on the request context, so store calls made by handlers become
// child spans.
package middleware
