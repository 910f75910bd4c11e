package remind

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	remindersScheduledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "remind",
			Name:      "scheduled_total",
			Help:      "Reminder timers armed.",
		},
	)

	remindersFiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "remind",
			Name:      "fired_total",
			Help:      "Reminder timers that fired and delivered a notification.",
		},
	)

	remindersCancelledTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "dayplan_client",
			Subsystem: "remind",
			Name:      "cancelled_total",
			Help:      "Reminder timers cancelled before firing.",
		},
	)
)
