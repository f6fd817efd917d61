package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// StockUnlimited is the StockOnHand sentinel for products without stock
// tracking.
const StockUnlimited = -1

// Product is the capability contract any purchasable entity must satisfy.
// The engine reads exactly these facts; product identity is opaque and is
// only compared and stored, never parsed.
type Product interface {
	// ID is the product's opaque identifier.
	ID() string

	// UnitPrice is the current price of one unit.
	UnitPrice() decimal.Decimal

	// Available reports whether the product can currently be purchased.
	Available() bool

	// StockOnHand is the number of units in stock, or StockUnlimited.
	StockOnHand() int
}

// Catalog resolves a stored product reference back to a Product. A nil
// product with nil error means the reference dangles (the product record is
// gone); the engine degrades such items to unavailable instead of failing
// the cart.
type Catalog interface {
	Product(ctx context.Context, id string) (Product, error)
}
