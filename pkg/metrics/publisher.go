package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublisherMetrics records outbox publishing health per destination topic.
type PublisherMetrics struct {
	duration  *prometheus.HistogramVec
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
	terminal  *prometheus.CounterVec
}

// NewPublisherMetrics registers the outbox publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of Pub/Sub publish calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events published successfully.",
	}, []string{"topic"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox publish attempts that will be retried.",
	}, []string{"topic"})
	terminal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_terminal_total",
		Help: "Outbox events routed to the dead letter table.",
	}, []string{"topic"})
	reg.MustRegister(duration, published, failed, terminal)
	return &PublisherMetrics{
		duration:  duration,
		published: published,
		failed:    failed,
		terminal:  terminal,
	}
}

// ObservePublish records the duration of a publish call for the topic.
func (p *PublisherMetrics) ObservePublish(topic string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(topic)).Observe(duration.Seconds())
}

// IncPublished counts an event published successfully to the topic.
func (p *PublisherMetrics) IncPublished(topic string) {
	if p == nil || p.published == nil {
		return
	}
	p.published.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncFailed counts a retryable publish failure for the topic.
func (p *PublisherMetrics) IncFailed(topic string) {
	if p == nil || p.failed == nil {
		return
	}
	p.failed.WithLabelValues(normalizeLabel(topic)).Inc()
}

// IncTerminal counts an event that exhausted its retries for the topic.
func (p *PublisherMetrics) IncTerminal(topic string) {
	if p == nil || p.terminal == nil {
		return
	}
	p.terminal.WithLabelValues(normalizeLabel(topic)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
