package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CartView is the read surface a cart modifier may inspect.
type CartView interface {
	// ItemCount is the number of items currently in the cart snapshot.
	ItemCount() int

	// Owned reports whether the cart belongs to an authenticated identity.
	Owned() bool
}

// ItemView is the read surface an item modifier may inspect.
type ItemView interface {
	// Quantity is the number of units of the referenced product.
	Quantity() int

	// UnitPrice is the product's current unit price. Zero for a dangling
	// product reference.
	UnitPrice() decimal.Decimal

	// Held reports whether the item is excluded from cart totals.
	Held() bool
}

// CartModifier transforms a cart's aggregate price. Modifiers run strictly
// sequentially in configuration order; each receives the previous modifier's
// output.
type CartModifier interface {
	Name() string
	ModifyCart(cart CartView, price decimal.Decimal) (decimal.Decimal, error)
}

// ItemModifier transforms a single item's price, starting from its base
// price (unit price times quantity).
type ItemModifier interface {
	Name() string
	ModifyItem(item ItemView, price decimal.Decimal) (decimal.Decimal, error)
}

// CartModifierFunc adapts a function to the CartModifier interface.
func CartModifierFunc(name string, fn func(CartView, decimal.Decimal) (decimal.Decimal, error)) CartModifier {
	return cartModifierFunc{name: name, fn: fn}
}

type cartModifierFunc struct {
	name string
	fn   func(CartView, decimal.Decimal) (decimal.Decimal, error)
}

func (m cartModifierFunc) Name() string { return m.name }

func (m cartModifierFunc) ModifyCart(cart CartView, price decimal.Decimal) (decimal.Decimal, error) {
	return m.fn(cart, price)
}

// ItemModifierFunc adapts a function to the ItemModifier interface.
func ItemModifierFunc(name string, fn func(ItemView, decimal.Decimal) (decimal.Decimal, error)) ItemModifier {
	return itemModifierFunc{name: name, fn: fn}
}

type itemModifierFunc struct {
	name string
	fn   func(ItemView, decimal.Decimal) (decimal.Decimal, error)
}

func (m itemModifierFunc) Name() string { return m.name }

func (m itemModifierFunc) ModifyItem(item ItemView, price decimal.Decimal) (decimal.Decimal, error) {
	return m.fn(item, price)
}

// ModifierError wraps a failure raised by a modifier during a price
// computation. Modifiers are trusted extension points; their errors abort the
// computation for the affected cart or item.
type ModifierError struct {
	Chain    string // "cart" or "item"
	Modifier string
	Err      error
}

// Error implements the error interface.
func (e *ModifierError) Error() string {
	return fmt.Sprintf("%s modifier %q: %v", e.Chain, e.Modifier, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ModifierError) Unwrap() error {
	return e.Err
}
