package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ObservationsAccepted counts observations written to the store.
	ObservationsAccepted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statuswatch",
		Name:      "observations_accepted_total",
		Help:      "Observations accepted and appended to the status store.",
	}, []string{"service"})

	// SubmissionsRejected counts submissions refused before any store write.
	SubmissionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statuswatch",
		Name:      "submissions_rejected_total",
		Help:      "Submissions rejected by validation or an unavailable backend.",
	}, []string{"reason"})

	// WriteFailures counts accepted submissions whose store append failed.
	WriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "statuswatch",
		Name:      "write_failures_total",
		Help:      "Store appends that failed after validation passed.",
	})

	// Resolutions counts per-service lookup outcomes: up, down, other,
	// no_data, error.
	Resolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statuswatch",
		Name:      "resolutions_total",
		Help:      "Status resolutions by outcome.",
	}, []string{"service", "outcome"})

	// ProbeUnavailable counts requests turned away because the health probe
	// reported the store unreachable.
	ProbeUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "statuswatch",
		Name:      "backend_unavailable_total",
		Help:      "Requests rejected because the status store was unreachable.",
	})
)
