package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	NeedsSubmitted     *prometheus.CounterVec
	NeedsRejected      prometheus.Counter
	NeedsCompleted     prometheus.Counter
	NeedsDeleted       prometheus.Counter
	OpenNeeds          prometheus.Gauge
	AvailableProviders prometheus.Gauge
	AssignmentDistance prometheus.Histogram
	Logins             *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
	EventsConsumed     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		NeedsSubmitted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "needs_submitted_total",
			Help: "Total number of accepted need submissions.",
		}, []string{"assignment"}),
		NeedsRejected: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "needs_rejected_total",
			Help: "Total number of need submissions rejected by validation.",
		}),
		NeedsCompleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "needs_completed_total",
			Help: "Total number of needs marked as completed.",
		}),
		NeedsDeleted: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "needs_deleted_total",
			Help: "Total number of needs deleted by an administrator.",
		}),
		OpenNeeds: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "needs_open",
			Help: "Current number of needs that are not completed.",
		}),
		AvailableProviders: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "providers_available",
			Help: "Current number of providers that can take a new need.",
		}),
		AssignmentDistance: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "assignment_distance_kilometers",
			Help:    "Distance between a need and the provider it was assigned to.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		}),
		Logins: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "session_logins_total",
			Help: "Login attempts by role and result.",
		}, []string{"role", "result"}),
		EventsPublished: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "need_events_published_total",
			Help: "Need lifecycle events handed to the broker.",
		}, []string{"type", "status"}),
		EventsConsumed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "need_events_consumed_total",
			Help: "Need lifecycle events read back by the audit consumer.",
		}, []string{"type"}),
	}
}
