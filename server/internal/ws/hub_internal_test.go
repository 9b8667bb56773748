package ws

import (
	"context"
	"testing"
	"time"

	"github.com/statuswatch/statuswatch/pkg/types"
	"github.com/statuswatch/statuswatch/server/internal/resolve"
)

type stubStore struct{}

func (stubStore) Latest(context.Context, string) (*types.Observation, error) {
	return nil, types.ErrNoData
}

type stubProbe bool

func (p stubProbe) Healthy(context.Context) bool { return bool(p) }

// Clients connecting and disconnecting while the ticker loop is mid-broadcast
// must never panic the hub: the send channel is closed by unregister in one
// goroutine while broadcast delivers in another.
func TestBroadcast_ConcurrentDisconnect(t *testing.T) {
	rs := resolve.New(types.DefaultRegistry(), stubStore{}, stubProbe(true))
	h := New(rs, time.Minute)
	ctx := context.Background()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			c := &client{send: make(chan []byte, 1)}
			h.register(c)
			h.unregister(c)
		}
	}()

	for {
		select {
		case <-done:
			if got := h.Count(); got != 0 {
				t.Errorf("Count() = %d after all clients disconnected, want 0", got)
			}
			return
		default:
			h.broadcast(ctx)
		}
	}
}

func TestTrySend(t *testing.T) {
	c := &client{send: make(chan []byte, 1)}

	if !c.trySend([]byte("a")) {
		t.Error("trySend with buffer space = false, want true")
	}
	if c.trySend([]byte("b")) {
		t.Error("trySend with full buffer = true, want false")
	}

	c.closeSend()
	c.closeSend() // idempotent
	if c.trySend([]byte("c")) {
		t.Error("trySend after close = true, want false")
	}
}
