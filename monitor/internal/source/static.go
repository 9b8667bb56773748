package source

import (
	"context"
	"sync"

	"github.com/statuswatch/statuswatch/pkg/types"
)

// Static reports a fixed status, settable at runtime. It backs services whose
// state is operator-declared rather than probed, and is the hook used by
// config hot-reload to flip a service without restarting the monitor.
type Static struct {
	mu     sync.RWMutex
	status types.Status
}

// NewStatic creates a Static checker reporting status.
func NewStatic(status types.Status) *Static {
	return &Static{status: status}
}

// Check returns the currently configured status.
func (s *Static) Check(context.Context) types.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Set replaces the reported status. Safe to call concurrently with Check.
func (s *Static) Set(status types.Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}
