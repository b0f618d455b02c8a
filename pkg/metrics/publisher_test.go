package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPublisherMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPublisherMetrics(reg)
	topic := "order-events"
	metrics.ObservePublish(topic, 250*time.Millisecond)
	metrics.IncPublished(topic)
	metrics.IncFailed(topic)
	metrics.IncTerminal(topic)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "outbox_published_total", "topic", topic); err != nil {
		t.Fatalf("fetch published: %v", err)
	} else if got != 1 {
		t.Fatalf("expected published=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "outbox_publish_failures_total", "topic", topic); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "outbox_terminal_total", "topic", topic); err != nil {
		t.Fatalf("fetch terminal: %v", err)
	} else if got != 1 {
		t.Fatalf("expected terminal=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "outbox_publish_duration_seconds", "topic", topic); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestPublisherMetricsNilSafe(t *testing.T) {
	var metrics *PublisherMetrics
	metrics.ObservePublish("any", time.Second)
	metrics.IncPublished("any")
	metrics.IncFailed("any")
	metrics.IncTerminal("any")

	empty := NewPublisherMetrics(nil)
	empty.ObservePublish("any", time.Second)
	empty.IncPublished("any")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
