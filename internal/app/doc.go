// Package app wires the dashboard together: configuration, logging and
// OpenTelemetry, the dashboard and health services, the WebSocket hub, and
// the chi router with its middleware chain. It also owns the server
// lifecycle.
//
// Routes are split in two. /ws and /metrics sit behind RequestID and RealIP
// only, since the remaining middleware wraps the ResponseWriter. Everything
// else runs through
//
//	RequestID → RealIP → OTel → StructuredLogger → Recoverer →
//	SecurityHeaders → gzip → RateLimiter → Timeout
//
// Start never calls os.Exit. Run blocks until SIGINT or SIGTERM and then
// shuts down the server, the hub and the telemetry providers in that order.
package app
