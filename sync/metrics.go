package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "sync",
			Name:      "mutations_total",
			Help:      "Optimistic mutations by outcome (committed, rolled_back, busy).",
		},
		[]string{"outcome"},
	)

	occurrencesFoldedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "sync",
			Name:      "occurrences_folded_total",
			Help:      "Server-created next occurrences inserted into the task cache.",
		},
	)
)
