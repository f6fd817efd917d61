package pricing

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownModifier indicates a configured modifier name has no registered
// implementation. This is a configuration fault and is surfaced the first
// time the chain is needed, never skipped.
var ErrUnknownModifier = errors.New("unknown modifier")

// Config holds the ordered modifier configuration. A nil or empty list means
// an empty chain (pass-through pricing).
type Config struct {
	// CartModifiers are the names of cart-level modifiers, in application
	// order.
	CartModifiers []string

	// ItemModifiers are the names of item-level modifiers, in application
	// order.
	ItemModifiers []string
}

// Registry resolves and caches the configured modifier chains.
//
// The two chains are cached independently and process-wide: the first call to
// CartChain or ItemChain resolves the configured names against the registered
// modifiers and keeps the resulting slice until the matching Invalidate hook
// (or SetConfig) drops it. Reads from concurrent requests are safe; a reader
// always receives a complete chain, never a partially rebuilt one.
type Registry struct {
	mu sync.RWMutex

	cfg Config

	cartModifiers map[string]CartModifier
	itemModifiers map[string]ItemModifier

	cartChain    []CartModifier
	itemChain    []ItemModifier
	cartResolved bool
	itemResolved bool
}

// NewRegistry creates a registry for the given configuration. Modifiers must
// be registered before the chains are first requested.
func NewRegistry(cfg Config) *Registry {
	return &Registry{
		cfg:           cfg,
		cartModifiers: make(map[string]CartModifier),
		itemModifiers: make(map[string]ItemModifier),
	}
}

// RegisterCartModifier registers a cart modifier under its name and returns
// the registry for chaining. Registering a name twice replaces the earlier
// modifier.
func (r *Registry) RegisterCartModifier(m CartModifier) *Registry {
	if m == nil || m.Name() == "" {
		panic("pricing: cart modifier must be non-nil and named")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cartModifiers[m.Name()] = m
	return r
}

// RegisterItemModifier registers an item modifier under its name and returns
// the registry for chaining.
func (r *Registry) RegisterItemModifier(m ItemModifier) *Registry {
	if m == nil || m.Name() == "" {
		panic("pricing: item modifier must be non-nil and named")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemModifiers[m.Name()] = m
	return r
}

// CartChain returns the ordered cart modifier chain, resolving and caching it
// on first call. Returns an error wrapping ErrUnknownModifier if a configured
// name is not registered.
func (r *Registry) CartChain() ([]CartModifier, error) {
	r.mu.RLock()
	if r.cartResolved {
		chain := r.cartChain
		r.mu.RUnlock()
		return chain, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cartResolved {
		return r.cartChain, nil
	}

	chain := make([]CartModifier, 0, len(r.cfg.CartModifiers))
	for _, name := range r.cfg.CartModifiers {
		m, ok := r.cartModifiers[name]
		if !ok {
			return nil, fmt.Errorf("%w: cart modifier %q", ErrUnknownModifier, name)
		}
		chain = append(chain, m)
	}

	r.cartChain = chain
	r.cartResolved = true
	chainRebuilds.WithLabelValues("cart").Inc()
	return chain, nil
}

// ItemChain returns the ordered item modifier chain, resolving and caching it
// on first call.
func (r *Registry) ItemChain() ([]ItemModifier, error) {
	r.mu.RLock()
	if r.itemResolved {
		chain := r.itemChain
		r.mu.RUnlock()
		return chain, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.itemResolved {
		return r.itemChain, nil
	}

	chain := make([]ItemModifier, 0, len(r.cfg.ItemModifiers))
	for _, name := range r.cfg.ItemModifiers {
		m, ok := r.itemModifiers[name]
		if !ok {
			return nil, fmt.Errorf("%w: item modifier %q", ErrUnknownModifier, name)
		}
		chain = append(chain, m)
	}

	r.itemChain = chain
	r.itemResolved = true
	chainRebuilds.WithLabelValues("item").Inc()
	return chain, nil
}

// InvalidateCartChain drops the cached cart chain. The next CartChain call
// re-resolves against the current configuration.
func (r *Registry) InvalidateCartChain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cartChain = nil
	r.cartResolved = false
}

// InvalidateItemChain drops the cached item chain.
func (r *Registry) InvalidateItemChain() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.itemChain = nil
	r.itemResolved = false
}

// SetConfig replaces the configuration and invalidates both chains.
func (r *Registry) SetConfig(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
	r.cartChain = nil
	r.itemChain = nil
	r.cartResolved = false
	r.itemResolved = false
}
