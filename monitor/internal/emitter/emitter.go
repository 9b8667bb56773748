package emitter

import (
	"context"
	"log/slog"
	"time"

	"github.com/statuswatch/statuswatch/monitor/internal/shipper"
	"github.com/statuswatch/statuswatch/monitor/internal/source"
	"github.com/statuswatch/statuswatch/pkg/types"
)

// Service pairs a registered service name with its status checker.
type Service struct {
	Name    string
	Checker source.Checker
}

// Emitter runs the periodic check cycle: every interval it checks each
// service once and ships one observation per service. A failed ship is
// logged and does not block the other services in the cycle.
type Emitter struct {
	services []Service
	hostName string
	sink     shipper.Sink
	interval time.Duration

	now func() time.Time // injectable for deterministic tests
}

// New creates an Emitter.
func New(services []Service, hostName string, sink shipper.Sink, interval time.Duration) *Emitter {
	return &Emitter{
		services: services,
		hostName: hostName,
		sink:     sink,
		interval: interval,
		now:      time.Now,
	}
}

// Run executes a cycle immediately, then one per interval until ctx is
// cancelled. Cycles never overlap; a slow cycle delays the next tick.
func (e *Emitter) Run(ctx context.Context) {
	e.RunCycle(ctx)

	t := time.NewTicker(e.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			e.RunCycle(ctx)
		}
	}
}

// RunCycle checks every service once and ships the resulting observations.
func (e *Emitter) RunCycle(ctx context.Context) {
	for _, svc := range e.services {
		if ctx.Err() != nil {
			return
		}

		obs := types.Observation{
			ServiceName: svc.Name,
			Status:      svc.Checker.Check(ctx),
			HostName:    e.hostName,
			ObservedAt:  e.now().UTC(),
		}

		if err := e.sink.Ship(ctx, obs); err != nil {
			slog.Error("emitter: ship failed", "service", svc.Name, "err", err)
			continue
		}
		slog.Info("emitter: observation shipped",
			"service", svc.Name, "status", obs.Status, "host", obs.HostName)
	}
}

// SetStatus updates the declared status of a statically sourced service.
// Every static checker registered under name is updated, so a name that
// appears more than once in the config never leaves a stale entry. Services
// backed by probing checkers are unaffected. Returns true if at least one
// static checker was updated.
func (e *Emitter) SetStatus(name string, status types.Status) bool {
	updated := false
	for _, svc := range e.services {
		if svc.Name != name {
			continue
		}
		if st, ok := svc.Checker.(*source.Static); ok {
			st.Set(status)
			updated = true
		}
	}
	return updated
}
