package source

import (
	"context"
	"fmt"

	"github.com/statuswatch/statuswatch/monitor/internal/config"
	"github.com/statuswatch/statuswatch/pkg/types"
)

// Checker determines the current status of one monitored service. A Checker
// never returns an error for an unreachable service — unreachable is DOWN;
// errors are reserved for broken checker configuration.
type Checker interface {
	Check(ctx context.Context) types.Status
}

// New returns the appropriate Checker for the given service configuration.
func New(svc config.ServiceConfig) (Checker, error) {
	switch svc.Source {
	case "static", "":
		status := types.StatusUp
		if svc.Status != "" {
			status = types.Status(svc.Status)
		}
		return NewStatic(status), nil
	case "tcp":
		return newTCP(svc.Endpoint), nil
	case "prometheus":
		return newPrometheus(svc.Endpoint), nil
	default:
		return nil, fmt.Errorf("source: unsupported type %q", svc.Source)
	}
}
