// Package pricing provides the pluggable price-modifier pipeline for the
// cart engine.
//
// Modifiers are named values implementing CartModifier or ItemModifier. They
// are registered once at process start and assembled into ordered chains by a
// Registry, driven by an explicit configuration list. Chain order is exactly
// configuration order; each modifier receives the previous modifier's output
// price.
//
// # Basic Usage
//
//	reg := pricing.NewRegistry(pricing.Config{
//		CartModifiers: []string{"ten_percent_discount"},
//	})
//	reg.RegisterCartModifier(pricing.CartModifierFunc("ten_percent_discount",
//		func(cart pricing.CartView, price decimal.Decimal) (decimal.Decimal, error) {
//			return price.Sub(price.Mul(decimal.RequireFromString("0.10"))), nil
//		}))
//
//	chain, err := reg.CartChain()
//	if err != nil {
//		// a configured name has no registered modifier
//	}
//
// # Chain Caching
//
// CartChain and ItemChain resolve the configured names on first call and cache
// the resulting slice for the lifetime of the process. The caches are
// independent and are dropped only by the explicit invalidation hooks
// (InvalidateCartChain, InvalidateItemChain) or by SetConfig. Reads are safe
// from concurrent requests; invalidation swaps the cached slice under a lock
// so an in-flight reader keeps a complete chain.
//
// # Metrics
//
// The registry exports Prometheus metrics:
//
//   - cart_modifier_chain_rebuilds_total{chain} - Chain cache (re)builds
//   - cart_modifier_errors_total{chain} - Failed modifier applications
package pricing
