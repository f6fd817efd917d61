package main

import (
	"github.com/shopspring/decimal"

	"github.com/Sternrassler/cart-engine/pkg/pricing"
)

// registerBuiltinModifiers registers the modifiers this binary ships with.
// Which of them actually run, and in which order, is decided by the
// CART_MODIFIERS and CART_ITEM_MODIFIERS configuration lists.
func registerBuiltinModifiers(registry *pricing.Registry) {
	registry.RegisterCartModifier(pricing.CartModifierFunc("ten_percent_discount",
		func(_ pricing.CartView, price decimal.Decimal) (decimal.Decimal, error) {
			return price.Sub(price.Mul(decimal.RequireFromString("0.10"))), nil
		}))

	registry.RegisterItemModifier(pricing.ItemModifierFunc("every_second_unit_free",
		func(item pricing.ItemView, price decimal.Decimal) (decimal.Decimal, error) {
			free := int64(item.Quantity() / 2)
			return price.Sub(item.UnitPrice().Mul(decimal.NewFromInt(free))), nil
		}))
}
