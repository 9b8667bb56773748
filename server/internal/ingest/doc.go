// Package ingest implements the ingestion gateway: validation and
// acceptance of externally submitted status observations. Validation is
// ordered — malformed payload, unknown service, unreachable backend — and a
// submission that fails validation never reaches the store.
package ingest
