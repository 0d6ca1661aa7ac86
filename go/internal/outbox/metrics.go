package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	eventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackhub_outbox_events_published_total",
		Help: "Outbox events successfully delivered to the broker",
	}, []string{"event_type"})

	eventsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hackhub_outbox_events_failed_total",
		Help: "Outbox publish attempts that exhausted their retries",
	}, []string{"event_type"})

	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "hackhub_outbox_batch_duration_seconds",
		Help:    "Time spent processing one outbox batch",
		Buckets: prometheus.DefBuckets,
	})
)

// RegisterMetrics registers outbox collectors with the registry
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(eventsPublished, eventsFailed, batchDuration)
}
