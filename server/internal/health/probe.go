package health

import (
	"context"
	"time"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 5 * time.Second

// Pinger is the store-side reachability check.
type Pinger interface {
	Ping(ctx context.Context) bool
}

// Probe answers "is the status store reachable right now". Results are never
// cached: every call re-probes, so each request pays a small latency cost
// for a fresh answer. There are no retries inside the probe; callers that
// want retry semantics get them from their own cadence.
type Probe struct {
	pinger  Pinger
	timeout time.Duration
}

// New creates a Probe over the given Pinger.
func New(p Pinger) *Probe {
	return &Probe{pinger: p, timeout: DefaultTimeout}
}

// Healthy reports whether the store answered within the probe timeout.
// It never returns an error.
func (p *Probe) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.pinger.Ping(ctx)
}
