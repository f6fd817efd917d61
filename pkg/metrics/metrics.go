// Package metrics provides the centralized Prometheus metrics registry for
// the cart engine. All metrics are defined in their respective packages
// (pricing, cart) to maintain modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the cart engine.
// All metrics are automatically registered via promauto in their respective
// packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Pricing Metrics (pkg/pricing):
//   - cart_modifier_chain_rebuilds_total{chain} (Counter): Modifier chain cache builds by chain (cart, item)
//   - cart_modifier_errors_total{chain} (Counter): Failed modifier applications by chain
//
// Cart Metrics (pkg/cart):
//   - cart_resolutions_total{path} (Counter): Cart resolutions by state-machine path
//     (anonymous_new, anonymous_existing, user_existing, adopted, user_new)
//   - cart_price_computations_total (Counter): Full aggregate price computations
//   - cart_price_memo_hits_total (Counter): Price reads served from the per-cart memo
//
// Example Prometheus Queries:
//
//   # Price Memo Hit Rate
//   rate(cart_price_memo_hits_total[5m]) /
//   (rate(cart_price_memo_hits_total[5m]) + rate(cart_price_computations_total[5m]))
//
//   # Login Merge Rate
//   rate(cart_resolutions_total{path="adopted"}[5m])
//
//   # Modifier Failure Rate
//   rate(cart_modifier_errors_total[5m])
