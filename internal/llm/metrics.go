package llm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InterpretRequestsTotal tracks successful completion calls.
	InterpretRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_llm_requests_total",
		Help: "Total number of successful completion-service interpretations",
	})

	// InterpretFailuresTotal tracks failed completion calls.
	InterpretFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_llm_failures_total",
		Help: "Total number of failed completion-service interpretations",
	})

	// InterpretDurationSeconds tracks completion call latency.
	InterpretDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intent_engine_llm_duration_seconds",
		Help:    "Duration of completion-service calls",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	})
)
