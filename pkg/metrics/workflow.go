package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WorkflowMetrics instruments the submission, payment and review paths.
type WorkflowMetrics struct {
	submissions    *prometheus.CounterVec
	gatewayLatency *prometheus.HistogramVec
	reviews        *prometheus.CounterVec
}

// NewWorkflowMetrics registers the workflow metrics on the provided registerer.
func NewWorkflowMetrics(reg prometheus.Registerer) *WorkflowMetrics {
	if reg == nil {
		return &WorkflowMetrics{}
	}
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indiereel",
		Name:      "movie_submissions_total",
		Help:      "Movie create/update attempts by operation and outcome.",
	}, []string{"operation", "outcome"})
	gatewayLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "indiereel",
		Name:      "gateway_order_seconds",
		Help:      "Latency of payment gateway order creation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
	reviews := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "indiereel",
		Name:      "reviews_total",
		Help:      "Review writes by operation and outcome.",
	}, []string{"operation", "outcome"})
	reg.MustRegister(submissions, gatewayLatency, reviews)
	return &WorkflowMetrics{
		submissions:    submissions,
		gatewayLatency: gatewayLatency,
		reviews:        reviews,
	}
}

// ObserveSubmission counts a movie create or update.
func (m *WorkflowMetrics) ObserveSubmission(operation string, err error) {
	if m == nil || m.submissions == nil {
		return
	}
	m.submissions.WithLabelValues(normalizeLabel(operation), outcome(err)).Inc()
}

// ObserveGateway records how long a gateway order call took.
func (m *WorkflowMetrics) ObserveGateway(duration time.Duration, err error) {
	if m == nil || m.gatewayLatency == nil {
		return
	}
	m.gatewayLatency.WithLabelValues(outcome(err)).Observe(duration.Seconds())
}

// ObserveReview counts a review create or update.
func (m *WorkflowMetrics) ObserveReview(operation string, err error) {
	if m == nil || m.reviews == nil {
		return
	}
	m.reviews.WithLabelValues(normalizeLabel(operation), outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
