package cart

import "errors"

// Common errors returned by the cart engine.
var (
	// ErrInvalidQuantity is returned when an operation is given a quantity
	// below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrNilProduct is returned when Add is given a nil product.
	ErrNilProduct = errors.New("product cannot be nil")

	// ErrItemNotFound is returned when an operation references a product
	// that has no item in the cart.
	ErrItemNotFound = errors.New("no cart item for product")
)
