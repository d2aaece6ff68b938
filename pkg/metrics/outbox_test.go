package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestOutboxMetricsCountsByEventType(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOutboxMetrics(reg)
	m.Observe("movie.paid", OutboxPublished)
	m.Observe("movie.paid", OutboxPublished)
	m.Observe("review.rated", OutboxDeadLettered)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "indiereel_outbox_events_total", "event_type", "movie.paid"); err != nil {
		t.Fatalf("fetch published: %v", err)
	} else if got != 2 {
		t.Fatalf("expected 2 published, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "indiereel_outbox_events_total", "outcome", OutboxDeadLettered); err != nil {
		t.Fatalf("fetch dead lettered: %v", err)
	} else if got != 1 {
		t.Fatalf("expected 1 dead lettered, got %f", got)
	}
}

func TestNilOutboxMetricsIsSafe(t *testing.T) {
	var m *OutboxMetrics
	m.Observe("movie.paid", OutboxRetry)
	NewOutboxMetrics(nil).Observe("", OutboxRetry)
}
