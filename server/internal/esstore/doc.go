// Package esstore adapts Elasticsearch as the status store: one
// timestamp-ordered index per monitored service, holding immutable status
// observations.
//
// The adapter exposes exactly the three operations the pipeline needs:
//
//	Ping(ctx)            — bounded reachability check, never errors
//	Insert(ctx, obs)     — append one observation, returns the document ID
//	Latest(ctx, service) — newest observation; types.ErrNoData when empty
//
// The underlying client handle is shared process-wide and constructed
// lazily; a failed construction is retried on the next operation.
package esstore
