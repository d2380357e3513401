// Package middleware provides the HTTP middleware used by flight servers.
//
// All middleware has the standard func(http.Handler) http.Handler shape
// and can be mounted on a chi router:
//
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.Logger(logger, "jsx"))
//	r.Use(metrics.Middleware)
//	r.Use(middleware.OpenTelemetry())
//
// # Prometheus Metrics
//
// Requests are labeled by flavor: "wire" when the request asks for the
// wire form with the ?jsx flag, "html" otherwise.
//   - flight_requests_total: requests by flavor and status
//   - flight_request_duration_seconds: request duration by flavor
//   - flight_requests_in_flight: requests being served
//   - flight_boundary_errors_total: failed pages by kind
//
// # OpenTelemetry
//
// The tracing middleware starts a server span per request and passes it
// down in the request context. Component evaluation in the resolver opens
// child spans, so a trace shows which component made a page slow.
//
// # Request IDs
//
// RequestID assigns each request a UUID (or keeps a well-formed incoming
// X-Request-ID) and stores it in the context for logs and spans.
package middleware
