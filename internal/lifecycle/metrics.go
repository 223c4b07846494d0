package lifecycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TransitionsTotal counts state machine transitions by edge.
var TransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "intent_engine_trade_transitions_total",
		Help: "Total trade state machine transitions",
	},
	[]string{"from", "to"},
)
