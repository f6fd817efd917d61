package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// chainRebuilds tracks modifier chain cache (re)builds by chain.
	chainRebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_modifier_chain_rebuilds_total",
			Help: "Total number of modifier chain cache builds",
		},
		[]string{"chain"}, // "cart", "item"
	)

	// ModifierErrors tracks failed modifier applications by chain.
	ModifierErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_modifier_errors_total",
			Help: "Total number of failed modifier applications",
		},
		[]string{"chain"}, // "cart", "item"
	)
)
