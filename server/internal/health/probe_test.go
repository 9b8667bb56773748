package health

import (
	"context"
	"testing"
	"time"
)

type pingFunc func(ctx context.Context) bool

func (f pingFunc) Ping(ctx context.Context) bool { return f(ctx) }

func TestHealthy_ForwardsPingResult(t *testing.T) {
	up := New(pingFunc(func(context.Context) bool { return true }))
	if !up.Healthy(context.Background()) {
		t.Error("Healthy() = false, want true")
	}

	down := New(pingFunc(func(context.Context) bool { return false }))
	if down.Healthy(context.Background()) {
		t.Error("Healthy() = true, want false")
	}
}

func TestHealthy_BoundsTheProbe(t *testing.T) {
	p := New(pingFunc(func(ctx context.Context) bool {
		deadline, ok := ctx.Deadline()
		if !ok {
			t.Error("probe context has no deadline")
			return false
		}
		if remaining := time.Until(deadline); remaining > DefaultTimeout {
			t.Errorf("deadline too far out: %v", remaining)
		}
		return true
	}))
	p.Healthy(context.Background())
}

func TestHealthy_ReprobesEveryCall(t *testing.T) {
	calls := 0
	p := New(pingFunc(func(context.Context) bool {
		calls++
		return true
	}))
	p.Healthy(context.Background())
	p.Healthy(context.Background())
	if calls != 2 {
		t.Errorf("ping calls = %d, want 2 (no caching)", calls)
	}
}
