// Package types defines the shared domain model used by both the monitor
// and the server: status observations, the service registry, resolved status
// views and the error taxonomy. These are the canonical in-memory
// representations, separate from the JSON wire and document formats.
package types
