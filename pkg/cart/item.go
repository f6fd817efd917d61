package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Sternrassler/cart-engine/pkg/pricing"
)

// Item is one product reference with a quantity inside a cart. Items are
// created and mutated through their owning Cart; the product reference is
// weak and re-resolved on load.
type Item struct {
	id        string
	productID string
	quantity  int
	held      bool

	// product is nil when the reference dangles; such items price to zero.
	product Product
	cart    *Cart
}

// ID returns the item's identifier.
func (i *Item) ID() string { return i.id }

// ProductID returns the opaque identifier of the referenced product.
func (i *Item) ProductID() string { return i.productID }

// Quantity returns the number of units. Always at least 1; an item whose
// quantity would reach zero is removed instead.
func (i *Item) Quantity() int { return i.quantity }

// Held reports whether the item is excluded from cart totals while staying
// in the cart.
func (i *Item) Held() bool { return i.held }

// Product returns the resolved product, or nil for a dangling reference.
func (i *Item) Product() Product { return i.product }

// SetHeld persists the held flag and drops the owning cart's price memo.
func (i *Item) SetHeld(ctx context.Context, held bool) error {
	if i.held == held {
		return nil
	}
	if err := i.cart.deps.Store.SetItemHeld(ctx, i.id, held); err != nil {
		return err
	}
	i.held = held
	i.cart.invalidatePrice()
	return nil
}

// UnitPrice returns the product's unit price, zero for a dangling reference.
func (i *Item) UnitPrice() decimal.Decimal {
	if i.product == nil {
		return decimal.Zero
	}
	return i.product.UnitPrice()
}

// BasePrice returns unit price times quantity, before modifiers.
func (i *Item) BasePrice() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.quantity)))
}

// Available reports the product's current availability. Always freshly
// evaluated; a dangling reference counts as unavailable.
func (i *Item) Available() bool {
	return i.product != nil && i.product.Available()
}

// InStock reports whether the product has stock on hand. Independent of
// Available: a zero-stock product can still be available and priced.
func (i *Item) InStock() bool {
	if i.product == nil {
		return false
	}
	stock := i.product.StockOnHand()
	return stock == StockUnlimited || stock > 0
}

// Price returns the item's modified price: zero if the product is
// unavailable, otherwise the base price folded through the ordered item
// modifier chain. Not cached; every call re-evaluates availability and the
// chain.
func (i *Item) Price() (decimal.Decimal, error) {
	chain, err := i.cart.deps.Registry.ItemChain()
	if err != nil {
		return decimal.Zero, err
	}
	if !i.Available() {
		return decimal.Zero, nil
	}
	price := i.BasePrice()
	for _, m := range chain {
		next, err := m.ModifyItem(i, price)
		if err != nil {
			pricing.ModifierErrors.WithLabelValues("item").Inc()
			return decimal.Zero, &pricing.ModifierError{Chain: "item", Modifier: m.Name(), Err: err}
		}
		price = next
	}
	return price, nil
}

// TotalPrice returns the item's contribution to the cart aggregate: zero
// when held, the modified price otherwise.
func (i *Item) TotalPrice() (decimal.Decimal, error) {
	if i.held {
		return decimal.Zero, nil
	}
	return i.Price()
}
