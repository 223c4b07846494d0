package executor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PrepareErrorsTotal counts failed transaction preparations.
	PrepareErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_prepare_errors_total",
		Help: "Total failed transaction preparations",
	})

	// PrepareDurationSeconds tracks firm-swap call latency.
	PrepareDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intent_engine_prepare_duration_seconds",
		Help:    "Duration of transaction preparation calls",
		Buckets: prometheus.DefBuckets,
	})
)
