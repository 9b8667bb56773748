// Package api implements the HTTP surface of the status server.
//
// New(...) returns an http.Handler that serves:
//
//	GET  /                      — API self-description + supported services
//	GET  /health                — store reachability: healthy/unhealthy
//	GET  /healthcheck           — bulk status snapshot, one entry per service
//	GET  /healthcheck/{service} — single service status (may be NO_DATA)
//	POST /add                   — submit one status observation
//	GET  /alerts                — firing and recently-resolved alerts
//	GET  /metrics               — Prometheus metrics
//
// All endpoints respond with Content-Type: application/json (except
// /metrics) and return 405 for unsupported methods. Error bodies carry a
// human-readable message plus the context each endpoint documents; store
// internals are never exposed to callers.
package api
