package breaker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BreakerAvailable is 1 while the upstream is being tried, 0 while open.
	BreakerAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intent_engine_breaker_available",
			Help: "Whether the upstream breaker is closed (1) or open (0)",
		},
		[]string{"upstream"},
	)

	// BreakerFailuresTotal counts recorded upstream failures.
	BreakerFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_engine_breaker_failures_total",
			Help: "Total upstream failures recorded by the breaker",
		},
		[]string{"upstream"},
	)

	// BreakerOpensTotal counts breaker open transitions.
	BreakerOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_engine_breaker_opens_total",
			Help: "Total times the breaker opened",
		},
		[]string{"upstream"},
	)
)
