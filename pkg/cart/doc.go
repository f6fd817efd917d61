// Package cart implements the cart and cart-item price-resolution engine:
// actor-to-cart resolution (anonymous sessions, authenticated identities, and
// the login merge between them), item aggregation, and price computation
// through the configured modifier chains.
//
// # Resolution
//
//	resolver, err := cart.NewResolver(cart.Deps{
//		Store:    store,
//		Catalog:  catalog,
//		Registry: registry,
//		Logger:   logger,
//	})
//	c, err := resolver.Resolve(ctx, sess, cart.Actor{UserID: "u-1"})
//
// Resolving twice for the same actor yields the same cart. When an anonymous
// actor authenticates mid-session, the resolver adopts the session cart for
// the identity (unless the identity already owns one) and strips the session
// token, so the cart identity survives login.
//
// # Caching Contract
//
// A cart keeps two request-scoped caches. The item snapshot is populated
// lazily from storage and is kept coherent by Add, Remove and Clear, but NOT
// by storage writes that bypass the cart; callers mutating items directly
// must call ResetCachedItems. The computed price is memoized until the next
// mutating operation, so repeated Price calls perform no further storage
// reads. Both behaviors are relied upon by callers and covered by tests; do
// not "fix" them into automatic invalidation.
package cart
