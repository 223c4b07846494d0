package validator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationsTotal counts validations by outcome ("valid" or error kind).
	ValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_engine_validations_total",
			Help: "Total draft validations by outcome",
		},
		[]string{"outcome"},
	)

	// ValidationDurationSeconds tracks validation latency including the
	// quote call.
	ValidationDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intent_engine_validation_duration_seconds",
		Help:    "Duration of draft validations",
		Buckets: prometheus.DefBuckets,
	})
)
