package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "store",
			Name:      "cache_hits_total",
			Help:      "Reads that found a cached entry, by entry state.",
		},
		[]string{"state"},
	)

	cacheMissTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "store",
			Name:      "cache_misses_total",
			Help:      "Reads that found nothing cached under the key.",
		},
	)

	invalidationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "store",
			Name:      "invalidations_total",
			Help:      "Fresh entries marked stale.",
		},
	)
)
