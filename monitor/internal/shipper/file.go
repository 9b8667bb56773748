package shipper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/statuswatch/statuswatch/pkg/types"
)

// fileStampLayout is the compact timestamp embedded in status file names.
const fileStampLayout = "20060102T150405"

// FileSink writes each observation as a standalone JSON status file named
// <service>-<STATUS>-<timestamp>.json, for deployments where the API is not
// reachable and files are picked up out of band.
type FileSink struct {
	dir string
}

// NewFile creates a FileSink writing into dir, creating it if needed.
func NewFile(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("shipper: create output dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

// Ship writes obs to a new status file. Each observation gets its own file;
// nothing is overwritten.
func (s *FileSink) Ship(_ context.Context, obs types.Observation) error {
	data, err := json.MarshalIndent(toPayload(obs), "", "  ")
	if err != nil {
		return fmt.Errorf("shipper: marshal observation: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s.json",
		obs.ServiceName, obs.Status, obs.ObservedAt.UTC().Format(fileStampLayout))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("shipper: write %s: %w", name, err)
	}
	return nil
}
