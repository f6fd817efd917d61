// Package testutil provides testing utilities for the cart engine.
package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Sternrassler/cart-engine/pkg/cart"
)

// FakeProduct is a configurable product for tests.
type FakeProduct struct {
	SKU         string
	Price       decimal.Decimal
	Unavailable bool
	// Stock defaults to zero units on hand; use cart.StockUnlimited for
	// untracked stock.
	Stock int
}

// ID implements cart.Product.
func (p *FakeProduct) ID() string { return p.SKU }

// UnitPrice implements cart.Product.
func (p *FakeProduct) UnitPrice() decimal.Decimal { return p.Price }

// Available implements cart.Product.
func (p *FakeProduct) Available() bool { return !p.Unavailable }

// StockOnHand implements cart.Product.
func (p *FakeProduct) StockOnHand() int { return p.Stock }

// FakeCatalog is an in-memory catalog with lookup tracking. An unknown ID
// resolves to (nil, nil), matching the dangling-reference contract.
type FakeCatalog struct {
	mu       sync.Mutex
	products map[string]cart.Product

	// LookupCount is the number of Product calls served.
	LookupCount int
}

// NewFakeCatalog creates an empty fake catalog.
func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{products: make(map[string]cart.Product)}
}

// Add registers a product and returns the catalog for chaining.
func (c *FakeCatalog) Add(p cart.Product) *FakeCatalog {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID()] = p
	return c
}

// Remove deletes a product, turning existing cart references dangling.
func (c *FakeCatalog) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.products, id)
}

// Product implements cart.Catalog.
func (c *FakeCatalog) Product(_ context.Context, id string) (cart.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LookupCount++
	return c.products[id], nil
}
