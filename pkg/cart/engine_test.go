package cart_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/cart-engine/internal/testutil"
	"github.com/Sternrassler/cart-engine/pkg/cart"
	"github.com/Sternrassler/cart-engine/pkg/pricing"
	"github.com/Sternrassler/cart-engine/pkg/session"
	"github.com/Sternrassler/cart-engine/pkg/storage"
)

// engine bundles the collaborators most cart tests need.
type engine struct {
	store    *storage.MemoryStore
	catalog  *testutil.FakeCatalog
	registry *pricing.Registry
	resolver *cart.Resolver
}

func newEngine(t *testing.T, cfg pricing.Config) *engine {
	t.Helper()

	store := storage.NewMemoryStore()
	catalog := testutil.NewFakeCatalog()
	registry := pricing.NewRegistry(cfg)

	resolver, err := cart.NewResolver(cart.Deps{
		Store:    store,
		Catalog:  catalog,
		Registry: registry,
		Logger:   zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewResolver() error = %v", err)
	}

	return &engine{
		store:    store,
		catalog:  catalog,
		registry: registry,
		resolver: resolver,
	}
}

// anonymousCart resolves a fresh anonymous cart against a new session.
func (e *engine) anonymousCart(t *testing.T) (*cart.Cart, *session.Memory) {
	t.Helper()

	sess := session.NewMemory()
	c, err := e.resolver.Resolve(context.Background(), sess, cart.Actor{})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return c, sess
}

// book mirrors a cheap, stock-tracked product.
func (e *engine) book(id string, stock int) *testutil.FakeProduct {
	p := &testutil.FakeProduct{
		SKU:   id,
		Price: decimal.RequireFromString("3.50"),
		Stock: stock,
	}
	e.catalog.Add(p)
	return p
}

// shirt mirrors a product without stock tracking.
func (e *engine) shirt(id string) *testutil.FakeProduct {
	p := &testutil.FakeProduct{
		SKU:   id,
		Price: decimal.RequireFromString("10.00"),
		Stock: cart.StockUnlimited,
	}
	e.catalog.Add(p)
	return p
}

// tenPercentDiscount is the cart modifier most aggregate tests configure.
func tenPercentDiscount() pricing.CartModifier {
	return pricing.CartModifierFunc("ten_percent_discount",
		func(_ pricing.CartView, price decimal.Decimal) (decimal.Decimal, error) {
			return price.Sub(price.Mul(decimal.RequireFromString("0.10"))), nil
		})
}

// everySecondUnitFree is the item modifier from the end-to-end pricing
// example: for every full pair of units, one is free.
func everySecondUnitFree() pricing.ItemModifier {
	return pricing.ItemModifierFunc("every_second_unit_free",
		func(item pricing.ItemView, price decimal.Decimal) (decimal.Decimal, error) {
			free := int64(item.Quantity() / 2)
			return price.Sub(item.UnitPrice().Mul(decimal.NewFromInt(free))), nil
		})
}

func requirePrice(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("price = %s, want %s", got, want)
	}
}
