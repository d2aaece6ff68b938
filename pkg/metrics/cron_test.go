package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCronJobMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	job := "leaderboard.snapshot"

	m.Observe(job, 250*time.Millisecond, nil)
	m.Observe(job, time.Second, nil)
	m.Observe(job, 10*time.Millisecond, errors.New("db down"))

	if got := testutil.ToFloat64(m.runs.WithLabelValues(job, jobSucceeded)); got != 2 {
		t.Fatalf("expected 2 successes, got %f", got)
	}
	if got := testutil.ToFloat64(m.runs.WithLabelValues(job, jobFailed)); got != 1 {
		t.Fatalf("expected 1 failure, got %f", got)
	}
	if got := testutil.ToFloat64(m.lastSuccess.WithLabelValues(job)); got <= 0 {
		t.Fatalf("expected last success timestamp, got %f", got)
	}

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchHistogramSum(mfs, "indiereel_cron_job_duration_seconds", "job", job); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got < 1.25 {
		t.Fatalf("expected duration sum >= 1.25, got %f", got)
	}
}

func TestCronJobMetricsNilIsNoop(t *testing.T) {
	var m *CronJobMetrics
	m.Observe("ratings.refresh", time.Second, nil)
	if NewCronJobMetrics(nil) != nil {
		t.Fatal("expected nil metrics without a registerer")
	}
}

func TestCronJobMetricsBlankJobLabel(t *testing.T) {
	m := NewCronJobMetrics(prometheus.NewRegistry())
	m.Observe("  ", time.Second, nil)

	if got := testutil.ToFloat64(m.runs.WithLabelValues("unknown", jobSucceeded)); got != 1 {
		t.Fatalf("expected blank job counted as unknown, got %f", got)
	}
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"":                "unknown",
		"   ":             "unknown",
		" movie.paid ":    "movie.paid",
		"ratings.refresh": "ratings.refresh",
	}
	for in, want := range cases {
		if got := normalizeLabel(in); got != want {
			t.Fatalf("normalizeLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
