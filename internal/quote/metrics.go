package quote

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// QuotesTotal counts successful aggregator responses.
	QuotesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_quotes_total",
		Help: "Total successful aggregator quote responses",
	})

	// QuoteErrorsTotal counts failed aggregator calls.
	QuoteErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_quote_errors_total",
		Help: "Total failed aggregator quote calls",
	})

	// QuoteDurationSeconds tracks aggregator call latency.
	QuoteDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "intent_engine_quote_duration_seconds",
		Help:    "Duration of aggregator quote calls",
		Buckets: prometheus.DefBuckets,
	})
)
