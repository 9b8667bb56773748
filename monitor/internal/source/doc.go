// Package source implements the per-service status checks the monitor runs
// each cycle: operator-declared static statuses, TCP connect probes, and
// Prometheus exposition scrapes.
package source
