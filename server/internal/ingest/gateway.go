package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/statuswatch/statuswatch/pkg/types"
	"github.com/statuswatch/statuswatch/server/internal/metrics"
)

// Store is the write side of the status store.
type Store interface {
	Insert(ctx context.Context, obs types.Observation) (string, error)
}

// Probe gates store access on reachability.
type Probe interface {
	Healthy(ctx context.Context) bool
}

// Alerter is notified of every accepted observation. May be nil.
type Alerter interface {
	Evaluate(obs types.Observation)
}

// Candidate is an externally submitted observation before validation.
// ObservedAt is optional; a zero value is stamped with the current UTC time
// on acceptance.
type Candidate struct {
	ServiceName string
	Status      string
	HostName    string
	ObservedAt  time.Time
}

// Accepted is the outcome of a successful submission: the observation as
// written, plus the opaque store-assigned document ID.
type Accepted struct {
	Observation types.Observation
	ID          string
}

// Gateway validates and accepts submitted observations. Validation runs in a
// fixed order — structure, registry membership, backend reachability — and
// always completes before any store interaction, so a rejected submission is
// never partially applied.
//
// Gateway is safe for concurrent use; it holds no mutable state of its own.
type Gateway struct {
	registry *types.Registry
	store    Store
	probe    Probe
	alerter  Alerter

	now func() time.Time // injectable for deterministic tests
}

// New creates a Gateway. alerter may be nil to disable alert evaluation.
func New(registry *types.Registry, store Store, probe Probe, alerter Alerter) *Gateway {
	return &Gateway{
		registry: registry,
		store:    store,
		probe:    probe,
		alerter:  alerter,
		now:      time.Now,
	}
}

// Submit validates cand and appends it to the store. Every accepted
// submission creates a new observation — there is no deduplication, even for
// a payload identical to the previous one.
func (g *Gateway) Submit(ctx context.Context, cand Candidate) (*Accepted, error) {
	if cand.ServiceName == "" || cand.Status == "" || cand.HostName == "" {
		metrics.SubmissionsRejected.WithLabelValues("malformed").Inc()
		return nil, fmt.Errorf("%w: service_name, service_status and host_name are required", types.ErrMalformedPayload)
	}

	if !g.registry.Contains(cand.ServiceName) {
		metrics.SubmissionsRejected.WithLabelValues("unknown_service").Inc()
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownService, cand.ServiceName)
	}

	if !g.probe.Healthy(ctx) {
		metrics.SubmissionsRejected.WithLabelValues("backend_unavailable").Inc()
		metrics.ProbeUnavailable.Inc()
		slog.Warn("ingest: rejecting submission, store unreachable", "service", cand.ServiceName)
		return nil, types.ErrBackendUnavailable
	}

	obs := types.Observation{
		ServiceName: cand.ServiceName,
		Status:      types.Status(cand.Status),
		HostName:    cand.HostName,
		ObservedAt:  cand.ObservedAt,
	}
	if obs.ObservedAt.IsZero() {
		obs.ObservedAt = g.now().UTC()
	}

	id, err := g.store.Insert(ctx, obs)
	if err != nil {
		metrics.WriteFailures.Inc()
		return nil, fmt.Errorf("ingest: append observation for %s: %w", obs.ServiceName, err)
	}

	metrics.ObservationsAccepted.WithLabelValues(obs.ServiceName).Inc()
	slog.Info("ingest: observation accepted",
		"service", obs.ServiceName,
		"status", obs.Status,
		"host", obs.HostName,
		"id", id,
	)

	if g.alerter != nil {
		g.alerter.Evaluate(obs)
	}

	return &Accepted{Observation: obs, ID: id}, nil
}
