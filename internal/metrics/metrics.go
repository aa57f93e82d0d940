// Package metrics defines the Prometheus instrumentation of the dispatch
// service. Counters are created against the default registry and exposed via
// promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the service counters handed to the domain services.
type Metrics struct {
	// QueueClaims counts successful dispatch-queue claims.
	QueueClaims prometheus.Counter

	// QueueStaleDrops counts queued entries discarded at claim time because a
	// later write made them ineligible.
	QueueStaleDrops prometheus.Counter

	// QueueEmptyClaims counts claim attempts that found nothing claimable.
	QueueEmptyClaims prometheus.Counter

	// EscalationNotifications counts successfully delivered escalation side
	// effects.
	EscalationNotifications prometheus.Counter
}

// New registers and returns the service counters.
func New() *Metrics {
	return &Metrics{
		QueueClaims: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "queue",
			Name:      "claims_total",
			Help:      "Successful dispatch-queue claims.",
		}),
		QueueStaleDrops: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "queue",
			Name:      "stale_drops_total",
			Help:      "Queue entries discarded at claim time after losing eligibility.",
		}),
		QueueEmptyClaims: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "queue",
			Name:      "empty_claims_total",
			Help:      "Claim attempts that exhausted the queue.",
		}),
		EscalationNotifications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "escalation",
			Name:      "notifications_total",
			Help:      "Escalation side effects delivered successfully.",
		}),
	}
}
