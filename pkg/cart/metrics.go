package cart

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// resolutions tracks cart resolutions by path through the resolver
	// state machine.
	resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_resolutions_total",
			Help: "Total cart resolutions by resolution path",
		},
		[]string{"path"}, // anonymous_new, anonymous_existing, user_existing, adopted, user_new
	)

	// priceComputations tracks full aggregate price computations.
	priceComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_price_computations_total",
			Help: "Total full cart price computations",
		},
	)

	// priceMemoHits tracks Price calls served from the per-cart memo.
	priceMemoHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_price_memo_hits_total",
			Help: "Total cart price reads served from the request-scoped memo",
		},
	)
)
