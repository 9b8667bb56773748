package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/statuswatch/statuswatch/pkg/types"
	"github.com/statuswatch/statuswatch/server/internal/metrics"
)

// Store is the read side of the status store.
type Store interface {
	Latest(ctx context.Context, service string) (*types.Observation, error)
}

// Probe gates store access on reachability.
type Probe interface {
	Healthy(ctx context.Context) bool
}

// Resolver answers point and bulk current-status queries by mapping store
// outcomes onto the status domain:
//
//	observation found   → its status, verbatim
//	collection empty    → NO_DATA
//	query failed        → UNKNOWN (point) or ERROR (bulk entry)
//	store unreachable   → ErrBackendUnavailable
//
// Resolver is safe for concurrent use.
type Resolver struct {
	registry *types.Registry
	store    Store
	probe    Probe
}

// New creates a Resolver.
func New(registry *types.Registry, store Store, probe Probe) *Resolver {
	return &Resolver{registry: registry, store: store, probe: probe}
}

// ResolveOne resolves the current status of a single registered service.
// Unknown names and an unreachable backend fail before any store query; a
// query that fails for any other reason degrades to UNKNOWN rather than
// failing the request.
func (r *Resolver) ResolveOne(ctx context.Context, name string) (*types.ServiceStatusView, error) {
	if !r.registry.Contains(name) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownService, name)
	}
	if !r.probe.Healthy(ctx) {
		metrics.ProbeUnavailable.Inc()
		return nil, types.ErrBackendUnavailable
	}
	return r.lookup(ctx, name, types.StatusUnknown), nil
}

// ResolveAll resolves every registered service. The probe runs once, up
// front; after that each lookup is independent, and a failing one degrades
// its own entry to ERROR without aborting the rest. The result always holds
// exactly one entry per registered service.
func (r *Resolver) ResolveAll(ctx context.Context) (map[string]types.ServiceStatusView, error) {
	if !r.probe.Healthy(ctx) {
		metrics.ProbeUnavailable.Inc()
		return nil, types.ErrBackendUnavailable
	}

	out := make(map[string]types.ServiceStatusView, r.registry.Len())
	for _, name := range r.registry.Names() {
		out[name] = *r.lookup(ctx, name, types.StatusError)
	}
	return out, nil
}

// lookup performs one store query and folds the outcome into a view.
// degraded is the status reported when the query itself fails.
func (r *Resolver) lookup(ctx context.Context, name string, degraded types.Status) *types.ServiceStatusView {
	obs, err := r.store.Latest(ctx, name)
	switch {
	case errors.Is(err, types.ErrNoData):
		metrics.Resolutions.WithLabelValues(name, "no_data").Inc()
		return &types.ServiceStatusView{ServiceName: name, Status: types.StatusNoData}

	case err != nil:
		metrics.Resolutions.WithLabelValues(name, "error").Inc()
		slog.Warn("resolve: query failed", "service", name, "err", err)
		return &types.ServiceStatusView{ServiceName: name, Status: degraded}
	}

	metrics.Resolutions.WithLabelValues(name, outcomeLabel(obs.Status)).Inc()
	observedAt := obs.ObservedAt
	return &types.ServiceStatusView{
		ServiceName: name,
		Status:      obs.Status,
		HostName:    obs.HostName,
		ObservedAt:  &observedAt,
	}
}

func outcomeLabel(s types.Status) string {
	switch s {
	case types.StatusUp:
		return "up"
	case types.StatusDown:
		return "down"
	default:
		return "other"
	}
}
