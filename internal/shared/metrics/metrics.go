package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// OutcomeSuccess labels completed operations.
	OutcomeSuccess = "success"
	// OutcomeNoData labels operations over an empty range.
	OutcomeNoData = "no_data"
	// OutcomeError labels failed operations.
	OutcomeError = "error"
)

var (
	evaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "acen",
			Name:      "evaluations_total",
			Help:      "Metric evaluations handled, partitioned by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	evaluationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "acen",
			Name:      "evaluation_seconds",
			Help:      "Evaluation latency in seconds, including record loading.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	feedbackGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "acen",
			Name:      "feedback_generated_total",
			Help:      "Feedback rows created, partitioned by category.",
		},
		[]string{"category"},
	)

	suggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "acen",
			Name:      "suggestions_total",
			Help:      "Suggestion hints processed, partitioned by resolution.",
		},
		[]string{"resolution"},
	)

	registry = newRegistry()
)

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	_ = Register(reg)
	return reg
}

// Register attaches acen collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		evaluationsTotal,
		evaluationSeconds,
		feedbackGeneratedTotal,
		suggestionsTotal,
	}
	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveEvaluation records an evaluation duration and outcome for the named operation.
func ObserveEvaluation(operation string, duration time.Duration, outcome string) {
	switch outcome {
	case OutcomeSuccess, OutcomeNoData:
	default:
		outcome = OutcomeError
	}
	evaluationsTotal.WithLabelValues(operation, outcome).Inc()
	if duration < 0 {
		duration = 0
	}
	evaluationSeconds.WithLabelValues(operation).Observe(duration.Seconds())
}

// IncFeedbackGenerated counts a created feedback row.
func IncFeedbackGenerated(category string) {
	feedbackGeneratedTotal.WithLabelValues(category).Inc()
}

// AddSuggestions counts resolved and dropped suggestion hints.
func AddSuggestions(resolved, dropped int) {
	if resolved > 0 {
		suggestionsTotal.WithLabelValues("resolved").Add(float64(resolved))
	}
	if dropped > 0 {
		suggestionsTotal.WithLabelValues("dropped").Add(float64(dropped))
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
