package gas

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GasPriceFetchesTotal counts successful RPC gas price fetches.
	GasPriceFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_gas_price_fetches_total",
		Help: "Total successful RPC gas price fetches",
	})

	// GasPriceFallbacksTotal counts uses of the fixed fallback price.
	GasPriceFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_gas_price_fallbacks_total",
		Help: "Total times the fixed fallback gas price was used",
	})
)
