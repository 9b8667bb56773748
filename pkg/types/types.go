package types

import (
	"time"
)

// Status is the operational status of a monitored service. UP and DOWN are
// the canonical values produced by the monitor; externally ingested
// observations may carry any non-empty string, which is preserved verbatim
// through storage and resolution.
type Status string

// Canonical status values. NoData, Unknown and Error are resolver-derived
// states — they are never written to the store.
const (
	StatusUp      Status = "UP"
	StatusDown    Status = "DOWN"
	StatusNoData  Status = "NO_DATA"
	StatusUnknown Status = "UNKNOWN"
	StatusError   Status = "ERROR"
)

// TimeLayout is the timestamp format written to store documents: ISO-8601
// UTC with microsecond precision and a trailing Z.
const TimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// FormatTime renders t in the store's timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses a store timestamp. Accepts any RFC 3339 variant so that
// documents written by other producers still resolve.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// Observation is a single timestamped status record for one service.
// Observations are immutable once created: the monitor and the ingestion
// gateway only ever append new ones.
type Observation struct {
	ServiceName string
	Status      Status
	HostName    string

	// ObservedAt is the sole ordering key within a service's collection.
	// Stamped at creation time (UTC) when the producer does not supply one.
	ObservedAt time.Time
}

// ServiceStatusView is the resolver's answer for one service. It is derived
// on demand from the latest Observation (or the absence of one) and never
// persisted.
type ServiceStatusView struct {
	ServiceName string
	Status      Status
	HostName    string

	// ObservedAt is nil when Status is NO_DATA, UNKNOWN or ERROR.
	ObservedAt *time.Time
}
