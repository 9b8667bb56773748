// Package metrics holds the Prometheus collectors for the server, exposed
// on GET /metrics. Collectors are registered with the default registry via
// promauto.
package metrics
