package parser

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ParseTotal counts parses by the stage that produced the draft.
	ParseTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intent_engine_parse_total",
			Help: "Total parses by resolving stage",
		},
		[]string{"stage"},
	)

	// DowngradesTotal counts drafts downgraded to unknown during
	// post-parse normalization.
	DowngradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intent_engine_parse_downgrades_total",
		Help: "Total drafts downgraded to unknown for failing structural checks",
	})
)
