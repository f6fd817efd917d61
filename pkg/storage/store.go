package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// CartRecord is the persisted form of a cart. UserID is empty for anonymous
// carts.
type CartRecord struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// ItemRecord is the persisted form of a cart item. The product reference is
// a weak, opaque key; the catalog collaborator resolves it on load.
type ItemRecord struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	Held      bool
}

// Store is the persistence port the cart engine depends on.
type Store interface {
	// CreateCart persists a new cart record.
	CreateCart(ctx context.Context, cart CartRecord) error

	// CartByID returns the cart with the given identifier, or ErrNotFound.
	CartByID(ctx context.Context, id string) (CartRecord, error)

	// CartByUser returns the cart owned by the given identity, or ErrNotFound.
	CartByUser(ctx context.Context, userID string) (CartRecord, error)

	// SetCartUser assigns an owning identity to a cart.
	SetCartUser(ctx context.Context, cartID, userID string) error

	// ItemsByCart returns a cart's items in insertion order.
	ItemsByCart(ctx context.Context, cartID string) ([]ItemRecord, error)

	// InsertItem persists a new cart item.
	InsertItem(ctx context.Context, item ItemRecord) error

	// UpdateItemQuantity sets an item's quantity.
	UpdateItemQuantity(ctx context.Context, itemID string, quantity int) error

	// SetItemHeld sets an item's held flag.
	SetItemHeld(ctx context.Context, itemID string, held bool) error

	// DeleteItem removes a single item.
	DeleteItem(ctx context.Context, itemID string) error

	// DeleteItems removes all items of a cart.
	DeleteItems(ctx context.Context, cartID string) error
}
