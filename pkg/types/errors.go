package types

import "errors"

// Sentinel errors shared across the write and read paths. Callers classify
// failures with errors.Is; the underlying cause, where one exists, is
// attached by wrapping.
var (
	// ErrMalformedPayload — a submitted observation is missing one or more
	// required fields. Client error, never retried.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrUnknownService — the named service is not in the registry.
	// Detected before any store interaction.
	ErrUnknownService = errors.New("unknown service")

	// ErrBackendUnavailable — the status store did not answer the health
	// probe. Safe to retry later; never conflated with NO_DATA.
	ErrBackendUnavailable = errors.New("status store unavailable")

	// ErrNoData — the service's collection holds no observations. A
	// first-class resolved state, distinct from a failed query.
	ErrNoData = errors.New("no status data recorded")
)
