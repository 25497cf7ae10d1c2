package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_events_published_total",
			Help: "Events successfully published, by topic.",
		},
		[]string{"topic"},
	)
	eventPublishErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_event_publish_errors_total",
			Help: "Failed event publishes, by topic.",
		},
		[]string{"topic"},
	)
)

func recordPublish(topic string) {
	eventsPublished.WithLabelValues(topic).Inc()
}

func recordPublishError(topic string) {
	eventPublishErrors.WithLabelValues(topic).Inc()
}
